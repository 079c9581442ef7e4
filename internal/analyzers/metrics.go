package analyzers

import (
	"github.com/dany0k/microservice-bottleneck-detector/internal/shared/metrics"
)

const (
	outcomeOK = "ok"

	// outcomeDegraded marks a window that produced the zero-result sentinel:
	// no records in range, missing source/sink, or a solver failure.
	outcomeDegraded = "degraded"
)

var (
	metricWindowsAnalyzedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAnalysis,
			Name:      "windows_analyzed_total",
		},
		[]string{"outcome"},
	)
)
