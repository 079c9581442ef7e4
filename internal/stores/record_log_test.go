package stores

import (
	"sync"
	"testing"
	"time"

	"github.com/dany0k/microservice-bottleneck-detector/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLog_AppendAndSnapshot(t *testing.T) {
	t.Parallel()

	log := NewRecordLog()
	assert.Zero(t, log.Len())
	assert.Empty(t, log.Snapshot())

	t0 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	log.Append(models.CallRecord{Timestamp: t0, SourceService: "a", DestService: "b", LatencyMillis: 1})
	log.Append(models.CallRecord{Timestamp: t0.Add(time.Second), SourceService: "b", DestService: "c", LatencyMillis: 2})

	snapshot := log.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "a", snapshot[0].SourceService)
	assert.Equal(t, "c", snapshot[1].DestService)
	assert.Equal(t, 2, log.Len())
}

func TestRecordLog_SnapshotIsolatedFromLaterAppends(t *testing.T) {
	t.Parallel()

	log := NewRecordLog()
	log.Append(models.CallRecord{SourceService: "a", DestService: "b"})

	snapshot := log.Snapshot()
	log.Append(models.CallRecord{SourceService: "b", DestService: "c"})

	assert.Len(t, snapshot, 1, "snapshot must not grow after later appends")
	assert.Equal(t, 2, log.Len())
}

func TestRecordLog_ConcurrentAppendAndSnapshot(t *testing.T) {
	t.Parallel()

	log := NewRecordLog()
	const appends = 500

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < appends; i++ {
			log.Append(models.CallRecord{SourceService: "a", DestService: "b"})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < appends; i++ {
			snapshot := log.Snapshot()
			assert.LessOrEqual(t, len(snapshot), appends)
		}
	}()
	wg.Wait()

	assert.Equal(t, appends, log.Len())
}
