package models

import "time"

// CallRecord is one observed request between two services, as produced by the
// log parser. Records are immutable once parsed.
//
// A record whose timestamp could not be parsed carries the zero time.Time; such
// records still contribute latency observations to the graph but are invisible
// to span computation and window selection.
type CallRecord struct {
	Timestamp      time.Time
	SourceService  string
	SourceEndpoint string
	DestService    string
	DestEndpoint   string
	LatencyMillis  float64
}

// HasTimestamp reports whether the record carries a usable timestamp.
func (r CallRecord) HasTimestamp() bool {
	return !r.Timestamp.IsZero()
}
