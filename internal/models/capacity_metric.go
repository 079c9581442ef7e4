package models

import "fmt"

// CapacityMetric selects which derived edge metric feeds the max-flow solver.
type CapacityMetric string

const (
	// CapacityDefault prefers the throughput-derived capacity whenever any
	// call was observed, falling back to the latency-derived one. The
	// preference is incidental, not a statement that throughput is the
	// better signal; both specific metrics stay selectable.
	CapacityDefault CapacityMetric = "default"

	// CapacityThroughput gates flow by observed calls per second.
	CapacityThroughput CapacityMetric = "throughput"

	// CapacityLatency gates flow by 1/avgLatency.
	CapacityLatency CapacityMetric = "latency"
)

// NewCapacityMetricFromString validates and converts a config/flag value.
func NewCapacityMetricFromString(s string) (CapacityMetric, error) {
	switch CapacityMetric(s) {
	case CapacityDefault, CapacityThroughput, CapacityLatency:
		return CapacityMetric(s), nil
	}
	return "", fmt.Errorf("invalid capacity metric %q: must be one of default, throughput, latency", s)
}
