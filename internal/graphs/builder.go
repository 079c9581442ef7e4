package graphs

import (
	"time"

	"github.com/dany0k/microservice-bottleneck-detector/internal/models"
)

// fallbackSpanSeconds is used when no record carries a parseable timestamp,
// and is also the floor for degenerate (single-instant) spans.
const fallbackSpanSeconds = 1.0

//go:generate mockgen -source=builder.go -destination=./mocks/builder_mock.go -package=mocks
type GraphBuilder interface {
	// Build turns call records into a directed service graph with derived
	// per-edge capacities and per-node load. Pure: identical records yield
	// identical graphs, and the builder holds no state between calls.
	Build(records []models.CallRecord) *models.CallGraph
}

type graphBuilder struct{}

func NewGraphBuilder() GraphBuilder {
	return &graphBuilder{}
}

func (b *graphBuilder) Build(records []models.CallRecord) *models.CallGraph {
	graph := &models.CallGraph{
		Nodes: make(map[string]*models.CallNode),
		Edges: make(map[models.EdgeKey]*models.CallEdge),
	}

	// Pass 1: accumulate latency observations per service pair and find the
	// observed timestamp range. Endpoint detail is dropped on purpose: calls
	// aggregate by service pair.
	var minTs, maxTs time.Time
	for _, r := range records {
		if r.HasTimestamp() {
			if minTs.IsZero() || r.Timestamp.Before(minTs) {
				minTs = r.Timestamp
			}
			if maxTs.IsZero() || r.Timestamp.After(maxTs) {
				maxTs = r.Timestamp
			}
		}

		key := models.EdgeKey{Source: r.SourceService, Dest: r.DestService}
		edge, ok := graph.Edges[key]
		if !ok {
			edge = &models.CallEdge{Source: key.Source, Dest: key.Dest}
			graph.Edges[key] = edge
		}
		edge.ObservedLatencies = append(edge.ObservedLatencies, r.LatencyMillis)
		edge.CallCount++
	}

	graph.ObservationSpanSeconds = observationSpan(minTs, maxTs)

	// Pass 2: derive the capacity metrics, all pure functions of the
	// latencies, the count and the global span.
	for _, edge := range graph.Edges {
		var sum float64
		for _, l := range edge.ObservedLatencies {
			sum += l
		}
		edge.AvgLatencyMillis = sum / float64(len(edge.ObservedLatencies))
		edge.ThroughputPerSecond = float64(edge.CallCount) / graph.ObservationSpanSeconds

		if edge.AvgLatencyMillis > 0 {
			edge.CapacityFromLatency = 1.0 / edge.AvgLatencyMillis
		}
		edge.CapacityFromThroughput = edge.ThroughputPerSecond

		// default capacity prefers throughput whenever any call was observed
		if edge.ThroughputPerSecond > 0 {
			edge.DefaultCapacity = edge.ThroughputPerSecond
		} else {
			edge.DefaultCapacity = edge.CapacityFromLatency
		}
	}

	// Pass 3: per-node incident throughput; load is always in+out.
	for _, edge := range graph.Edges {
		src := b.node(graph, edge.Source)
		dst := b.node(graph, edge.Dest)
		src.OutThroughput += edge.ThroughputPerSecond
		dst.InThroughput += edge.ThroughputPerSecond
	}
	for _, node := range graph.Nodes {
		node.Load = node.InThroughput + node.OutThroughput
	}

	return graph
}

func (b *graphBuilder) node(graph *models.CallGraph, name string) *models.CallNode {
	node, ok := graph.Nodes[name]
	if !ok {
		node = &models.CallNode{Name: name}
		graph.Nodes[name] = node
	}
	return node
}

func observationSpan(minTs, maxTs time.Time) float64 {
	if minTs.IsZero() || maxTs.IsZero() {
		return fallbackSpanSeconds
	}
	span := maxTs.Sub(minTs).Seconds()
	if span <= 0 {
		return fallbackSpanSeconds
	}
	return span
}
