package live

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/dany0k/microservice-bottleneck-detector/internal/analyzers"
	"github.com/dany0k/microservice-bottleneck-detector/internal/graphs"
	"github.com/dany0k/microservice-bottleneck-detector/internal/models"
	"github.com/dany0k/microservice-bottleneck-detector/internal/projections"
	"github.com/dany0k/microservice-bottleneck-detector/internal/shared/loggers"
	"github.com/dany0k/microservice-bottleneck-detector/internal/shared/metrics"
	"github.com/dany0k/microservice-bottleneck-detector/internal/shared/ulid"
	"github.com/dany0k/microservice-bottleneck-detector/internal/stores"
)

// Params holds the analysis parameters of one live deployment. They are
// fixed at startup and shared by every cycle.
type Params struct {
	Source         string
	Sink           string
	WindowSeconds  int
	StepSeconds    int
	CapacityMetric models.CapacityMetric
	TopK           int
	HighlightTopK  int
}

// AnalysisService periodically re-analyzes the accumulated call records and
// publishes each completed cycle as one atomic result bundle. A failed cycle
// leaves the previously published bundle in place.
//
//go:generate mockgen -source=analysis_service.go -destination=./mocks/analysis_service_mock.go -package=mocks
type AnalysisService interface {
	Start(ctx context.Context)
	Stop()

	// FullView projects the whole accumulated record log on demand,
	// highlighting the latest published bottlenecks.
	FullView() *projections.GraphView
}

type analysisService struct {
	params   Params
	interval time.Duration

	recordLog   *stores.RecordLog
	resultStore stores.ResultStore

	builder    graphs.GraphBuilder
	analyzer   analyzers.WindowAnalyzer
	aggregator analyzers.BottleneckAggregator
	projector  projections.LiveProjector

	wg sync.WaitGroup

	stopOnce sync.Once
	stopCh   chan struct{}
}

func NewAnalysisService(
	params Params,
	interval time.Duration,
	recordLog *stores.RecordLog,
	resultStore stores.ResultStore,
	builder graphs.GraphBuilder,
	analyzer analyzers.WindowAnalyzer,
	aggregator analyzers.BottleneckAggregator,
	projector projections.LiveProjector,
) AnalysisService {
	return &analysisService{
		params:      params,
		interval:    interval,
		recordLog:   recordLog,
		resultStore: resultStore,
		builder:     builder,
		analyzer:    analyzer,
		aggregator:  aggregator,
		projector:   projector,
		stopCh:      make(chan struct{}),
	}
}

func (s *analysisService) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.run(ctx)
	}()
}

// Stop waits for the analysis goroutine to finish its current cycle.
func (s *analysisService) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

func (s *analysisService) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

func (s *analysisService) runCycle(ctx context.Context) {
	// A panicking cycle must not take the loop down with it.
	defer func() {
		if r := recover(); r != nil {
			loggers.Ctx(ctx).Error().
				Bytes(loggers.FieldErrorStack, debug.Stack()).
				Msgf("analysis cycle panic recovered: %v", r)
			metricCyclesTotal.WithLabelValues(codeCyclePanic).Inc()
		}
	}()

	cycleID := ulid.NewULID()
	ctx = loggers.Ctx(ctx).With().
		Str(loggers.FieldCycleID, cycleID).
		Logger().WithContext(ctx)

	started := time.Now()
	records := s.recordLog.Snapshot()

	windows := s.analyzer.Analyze(records, s.params.Source, s.params.Sink,
		s.params.WindowSeconds, s.params.StepSeconds, s.params.CapacityMetric)
	bottlenecks := s.aggregator.Aggregate(windows, s.params.TopK)

	graph := s.builder.Build(records)
	view := s.projector.Project(graph, highlightedEdges(bottlenecks, s.params.HighlightTopK))

	s.resultStore.Publish(&stores.ResultBundle{
		CycleID:     cycleID,
		ComputedAt:  time.Now().UTC(),
		Windows:     windows,
		Bottlenecks: bottlenecks,
		LiveView:    view,
	})

	metricCyclesTotal.WithLabelValues(metrics.ValueNoError).Inc()
	metricCycleDurationSeconds.WithLabelValues().Observe(time.Since(started).Seconds())

	loggers.Ctx(ctx).Debug().
		Int(loggers.FieldRecords, len(records)).
		Int(loggers.FieldWindows, len(windows)).
		Msg("analysis cycle published")
}

func (s *analysisService) FullView() *projections.GraphView {
	graph := s.builder.Build(s.recordLog.Snapshot())

	var bottlenecks []models.AggregatedBottleneck
	if bundle := s.resultStore.Latest(); bundle != nil {
		bottlenecks = bundle.Bottlenecks
	}
	return s.projector.Project(graph, highlightedEdges(bottlenecks, s.params.HighlightTopK))
}

// highlightedEdges takes the first k aggregated bottlenecks, which are already
// ordered by how often each edge appeared in a min-cut.
func highlightedEdges(bottlenecks []models.AggregatedBottleneck, k int) []models.EdgeKey {
	if k > len(bottlenecks) {
		k = len(bottlenecks)
	}
	edges := make([]models.EdgeKey, 0, k)
	for _, bottleneck := range bottlenecks[:k] {
		edges = append(edges, bottleneck.Edge)
	}
	return edges
}
