package stores

import (
	"sync"
	"time"

	"github.com/dany0k/microservice-bottleneck-detector/internal/models"
	"github.com/dany0k/microservice-bottleneck-detector/internal/projections"
)

// ResultBundle is one complete published output of an analysis cycle: the
// window results, the cross-window bottleneck ranking and the live-view
// projection, always produced together from the same snapshot.
type ResultBundle struct {
	CycleID     string
	ComputedAt  time.Time
	Windows     []models.WindowResult
	Bottlenecks []models.AggregatedBottleneck
	LiveView    *projections.GraphView
}

//go:generate mockgen -source=result_store.go -destination=./mocks/result_store_mock.go -package=mocks
type ResultStore interface {
	// Publish atomically replaces the latest bundle. Readers observe either
	// the previous complete bundle or the new one, never a mix.
	Publish(bundle *ResultBundle)

	// Latest returns the most recently published bundle, or nil before the
	// first analysis cycle completes.
	Latest() *ResultBundle
}

type resultStore struct {
	mu     sync.RWMutex
	latest *ResultBundle
}

func NewResultStore() ResultStore {
	return &resultStore{}
}

func (s *resultStore) Publish(bundle *ResultBundle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = bundle
}

func (s *resultStore) Latest() *ResultBundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}
