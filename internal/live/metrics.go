package live

import (
	"github.com/dany0k/microservice-bottleneck-detector/internal/shared/metrics"
)

var (
	metricCyclesTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAnalysis,
			Name:      "cycles_total",
		},
		[]string{metrics.FieldErrorCode},
	)

	metricCycleDurationSeconds = metrics.NewHistogramVec(
		metrics.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAnalysis,
			Name:      "cycle_duration_seconds",
			Buckets:   metrics.DefBuckets,
		},
		[]string{},
	)
)
