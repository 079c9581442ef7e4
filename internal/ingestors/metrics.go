package ingestors

import (
	"github.com/dany0k/microservice-bottleneck-detector/internal/shared/metrics"
)

var (
	metricLinesTailedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubIngestion,
			Name:      "lines_tailed_total",
		},
		[]string{metrics.FieldErrorCode},
	)

	metricRecordLogSize = metrics.NewGauge(
		metrics.GaugeOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubIngestion,
			Name:      "record_log_size",
		},
	)
)
