package models

import "time"

// WindowResult is the outcome of one sliding-window analysis pass.
// A degraded window (no records, missing source/sink, solver failure) carries
// zero flow and an empty cut; it is a valid result, never an error.
type WindowResult struct {
	WindowStart time.Time `json:"start"`
	WindowEnd   time.Time `json:"end"`
	FlowValue   float64   `json:"flow"`
	CutValue    float64   `json:"cutValue"`
	CutEdges    []EdgeKey `json:"minCut"`
}

// NewSentinelWindowResult builds the zero-flow/empty-cut result used whenever
// a window cannot be analyzed.
func NewSentinelWindowResult(start, end time.Time) WindowResult {
	return WindowResult{
		WindowStart: start,
		WindowEnd:   end,
		FlowValue:   0,
		CutValue:    0,
		CutEdges:    []EdgeKey{},
	}
}

// AggregatedBottleneck counts the windows in which one edge appeared in the
// minimum cut. Results are ranked descending by count; ties keep the order in
// which the edge was first seen across the chronological window sequence.
type AggregatedBottleneck struct {
	Edge  EdgeKey `json:"edge"`
	Count int     `json:"count"`
}
