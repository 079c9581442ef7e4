package analyzers

import (
	"fmt"
	"time"

	"github.com/dany0k/microservice-bottleneck-detector/internal/flows"
	"github.com/dany0k/microservice-bottleneck-detector/internal/graphs"
	"github.com/dany0k/microservice-bottleneck-detector/internal/models"
)

// VerifyEndpoints confirms both services appear somewhere in the graph built
// from the whole record set. Per-window degradation only covers endpoints
// that drop out of individual windows; an endpoint absent from the entire
// log is a caller error and wraps flows.ErrNodeNotFound.
func VerifyEndpoints(graph *models.CallGraph, source, sink string) error {
	for _, name := range []string{source, sink} {
		if !graph.HasNode(name) {
			return fmt.Errorf("%w: %s", flows.ErrNodeNotFound, name)
		}
	}
	return nil
}

//go:generate mockgen -source=window_analyzer.go -destination=./mocks/window_analyzer_mock.go -package=mocks
type WindowAnalyzer interface {
	// Analyze partitions the records into overlapping time windows starting
	// at the minimum record timestamp, rebuilds a graph per window and runs
	// the flow solver on it. One WindowResult per window, in chronological
	// order; zero records with timestamps yield zero windows, as do
	// non-positive window or step lengths.
	Analyze(records []models.CallRecord, source, sink string, windowSeconds, stepSeconds int, metric models.CapacityMetric) []models.WindowResult
}

type windowAnalyzer struct {
	builder graphs.GraphBuilder
	solver  flows.Solver
}

func NewWindowAnalyzer(builder graphs.GraphBuilder, solver flows.Solver) WindowAnalyzer {
	return &windowAnalyzer{builder: builder, solver: solver}
}

func (a *windowAnalyzer) Analyze(records []models.CallRecord, source, sink string, windowSeconds, stepSeconds int, metric models.CapacityMetric) []models.WindowResult {
	// A non-positive step would never advance the window start.
	if windowSeconds <= 0 || stepSeconds <= 0 {
		return nil
	}

	minTs, maxTs, ok := timestampRange(records)
	if !ok {
		return nil
	}

	window := time.Duration(windowSeconds) * time.Second
	step := time.Duration(stepSeconds) * time.Second

	var results []models.WindowResult
	for start := minTs; !start.After(maxTs); start = start.Add(step) {
		end := start.Add(window)
		results = append(results, a.analyzeWindow(records, source, sink, start, end, metric))
	}
	return results
}

// analyzeWindow runs the pipeline for one window. Policy: any per-window
// failure (no records, missing source/sink, solver error on a malformed
// subgraph) degrades that window to the zero-result sentinel and never aborts
// the run.
func (a *windowAnalyzer) analyzeWindow(records []models.CallRecord, source, sink string, start, end time.Time, metric models.CapacityMetric) models.WindowResult {
	selected := recordsInWindow(records, start, end)
	if len(selected) == 0 {
		metricWindowsAnalyzedTotal.WithLabelValues(outcomeDegraded).Inc()
		return models.NewSentinelWindowResult(start, end)
	}

	graph := a.builder.Build(selected)
	if !graph.HasNode(source) || !graph.HasNode(sink) {
		metricWindowsAnalyzedTotal.WithLabelValues(outcomeDegraded).Inc()
		return models.NewSentinelWindowResult(start, end)
	}

	flowResult, err := a.solver.MaxFlow(graph, source, sink, metric)
	if err != nil {
		metricWindowsAnalyzedTotal.WithLabelValues(outcomeDegraded).Inc()
		return models.NewSentinelWindowResult(start, end)
	}
	cutResult, err := a.solver.MinCut(graph, source, sink, metric)
	if err != nil {
		metricWindowsAnalyzedTotal.WithLabelValues(outcomeDegraded).Inc()
		return models.NewSentinelWindowResult(start, end)
	}

	metricWindowsAnalyzedTotal.WithLabelValues(outcomeOK).Inc()
	return models.WindowResult{
		WindowStart: start,
		WindowEnd:   end,
		FlowValue:   flowResult.FlowValue,
		CutValue:    cutResult.CutValue,
		CutEdges:    cutResult.CutEdges,
	}
}

// recordsInWindow selects records with a timestamp in [start, end] inclusive.
func recordsInWindow(records []models.CallRecord, start, end time.Time) []models.CallRecord {
	var out []models.CallRecord
	for _, r := range records {
		if !r.HasTimestamp() {
			continue
		}
		if r.Timestamp.Before(start) || r.Timestamp.After(end) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func timestampRange(records []models.CallRecord) (minTs, maxTs time.Time, ok bool) {
	for _, r := range records {
		if !r.HasTimestamp() {
			continue
		}
		if minTs.IsZero() || r.Timestamp.Before(minTs) {
			minTs = r.Timestamp
		}
		if maxTs.IsZero() || r.Timestamp.After(maxTs) {
			maxTs = r.Timestamp
		}
	}
	return minTs, maxTs, !minTs.IsZero()
}
