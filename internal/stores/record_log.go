package stores

import (
	"sync"

	"github.com/dany0k/microservice-bottleneck-detector/internal/models"
)

// RecordLog is the shared append-only log of observed call records in live
// mode. The ingestion task is the only appender; the analysis task reads
// consistent point-in-time snapshots. Records are never mutated or removed
// for the lifetime of the process.
type RecordLog struct {
	mu      sync.RWMutex
	records []models.CallRecord
}

func NewRecordLog() *RecordLog {
	return &RecordLog{}
}

// Append adds one record to the log.
func (l *RecordLog) Append(record models.CallRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, record)
}

// Snapshot returns a copy of all accumulated records. The copy is safe to
// read while the ingestion task keeps appending.
func (l *RecordLog) Snapshot() []models.CallRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	snapshot := make([]models.CallRecord, len(l.records))
	copy(snapshot, l.records)
	return snapshot
}

// Len returns the number of accumulated records.
func (l *RecordLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
