package graphs

import (
	"testing"
	"time"

	"github.com/dany0k/microservice-bottleneck-detector/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(ts time.Time, src, dst string, latency float64) models.CallRecord {
	return models.CallRecord{
		Timestamp:      ts,
		SourceService:  src,
		SourceEndpoint: "/" + src,
		DestService:    dst,
		DestEndpoint:   "/" + dst,
		LatencyMillis:  latency,
	}
}

func TestGraphBuilder_Build_AggregatesByServicePair(t *testing.T) {
	t.Parallel()

	builder := NewGraphBuilder()
	t0 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	// Two records for the same pair through different endpoints collapse
	// into one edge; records span exactly 10 seconds.
	records := []models.CallRecord{
		record(t0, "api-gateway", "auth", 10),
		{
			Timestamp:      t0.Add(4 * time.Second),
			SourceService:  "api-gateway",
			SourceEndpoint: "/other-endpoint",
			DestService:    "auth",
			DestEndpoint:   "/verify",
			LatencyMillis:  30,
		},
		record(t0.Add(10*time.Second), "auth", "db-user", 20),
	}

	graph := builder.Build(records)

	require.Len(t, graph.Edges, 2)
	require.Len(t, graph.Nodes, 3)
	assert.Equal(t, 10.0, graph.ObservationSpanSeconds)

	edge := graph.Edges[models.EdgeKey{Source: "api-gateway", Dest: "auth"}]
	require.NotNil(t, edge)
	assert.Equal(t, 2, edge.CallCount)
	assert.Equal(t, []float64{10, 30}, edge.ObservedLatencies)
	assert.InDelta(t, 20.0, edge.AvgLatencyMillis, 1e-9)
	assert.InDelta(t, 0.2, edge.ThroughputPerSecond, 1e-9)
	assert.InDelta(t, 1.0/20.0, edge.CapacityFromLatency, 1e-9)
	assert.InDelta(t, 0.2, edge.CapacityFromThroughput, 1e-9)
	assert.InDelta(t, 0.2, edge.DefaultCapacity, 1e-9, "default prefers throughput when positive")
}

func TestGraphBuilder_Build_NodeLoadInvariant(t *testing.T) {
	t.Parallel()

	builder := NewGraphBuilder()
	t0 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	records := []models.CallRecord{
		record(t0, "a", "b", 5),
		record(t0.Add(2*time.Second), "b", "c", 7),
		record(t0.Add(4*time.Second), "a", "c", 9),
	}

	graph := builder.Build(records)

	var totalIn, totalOut float64
	for _, name := range graph.NodeNames() {
		node := graph.Nodes[name]
		assert.InDelta(t, node.InThroughput+node.OutThroughput, node.Load, 1e-9, "load(%s)", name)
		totalIn += node.InThroughput
		totalOut += node.OutThroughput
	}
	assert.InDelta(t, totalIn, totalOut, 1e-9, "global in/out throughput must balance")
}

func TestGraphBuilder_Build_SpanFallbacks(t *testing.T) {
	t.Parallel()

	builder := NewGraphBuilder()
	t0 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		records []models.CallRecord
		span    float64
	}{
		{
			name: "no parseable timestamps",
			records: []models.CallRecord{
				{SourceService: "a", DestService: "b", LatencyMillis: 10},
			},
			span: 1.0,
		},
		{
			name: "single instant",
			records: []models.CallRecord{
				record(t0, "a", "b", 10),
				record(t0, "b", "c", 20),
			},
			span: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			graph := builder.Build(tt.records)
			assert.Equal(t, tt.span, graph.ObservationSpanSeconds)
		})
	}
}

func TestGraphBuilder_Build_ZeroLatencyEdge(t *testing.T) {
	t.Parallel()

	builder := NewGraphBuilder()

	graph := builder.Build([]models.CallRecord{
		{SourceService: "a", DestService: "b", LatencyMillis: 0},
	})

	edge := graph.Edges[models.EdgeKey{Source: "a", Dest: "b"}]
	require.NotNil(t, edge)
	assert.Equal(t, 0.0, edge.CapacityFromLatency, "avg<=0 yields zero latency capacity")
	assert.Equal(t, 1.0, edge.ThroughputPerSecond)
	assert.Equal(t, 1.0, edge.DefaultCapacity)
}

func TestGraphBuilder_Build_Deterministic(t *testing.T) {
	t.Parallel()

	builder := NewGraphBuilder()
	t0 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	records := []models.CallRecord{
		record(t0, "a", "b", 5),
		record(t0.Add(time.Second), "a", "b", 15),
		record(t0.Add(2*time.Second), "b", "c", 7),
	}

	first := builder.Build(records)
	second := builder.Build(records)

	assert.Equal(t, first.ObservationSpanSeconds, second.ObservationSpanSeconds)
	require.Equal(t, len(first.Edges), len(second.Edges))
	for key, edge := range first.Edges {
		other := second.Edges[key]
		require.NotNil(t, other, "edge %s", key)
		assert.Equal(t, edge.ObservedLatencies, other.ObservedLatencies)
		assert.Equal(t, edge.CallCount, other.CallCount)
		assert.Equal(t, edge.AvgLatencyMillis, other.AvgLatencyMillis)
		assert.Equal(t, edge.DefaultCapacity, other.DefaultCapacity)
	}
	for name, node := range first.Nodes {
		other := second.Nodes[name]
		require.NotNil(t, other, "node %s", name)
		assert.Equal(t, *node, *other)
	}
}

func TestGraphBuilder_Build_EmptyRecords(t *testing.T) {
	t.Parallel()

	graph := NewGraphBuilder().Build(nil)
	assert.Empty(t, graph.Edges)
	assert.Empty(t, graph.Nodes)
	assert.Equal(t, 1.0, graph.ObservationSpanSeconds)
}
