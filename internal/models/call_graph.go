package models

import (
	"encoding/json"
	"fmt"
	"sort"
)

// EdgeKey identifies a directed service-to-service edge. Calls are aggregated
// by service pair: endpoint detail is deliberately discarded so that at most
// one edge exists per ordered (source, dest) pair.
type EdgeKey struct {
	Source string
	Dest   string
}

func (k EdgeKey) String() string {
	return fmt.Sprintf("%s->%s", k.Source, k.Dest)
}

// MarshalJSON renders the key as a ["source","dest"] pair.
func (k EdgeKey) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{k.Source, k.Dest})
}

// UnmarshalJSON accepts the ["source","dest"] pair form.
func (k *EdgeKey) UnmarshalJSON(data []byte) error {
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	k.Source, k.Dest = pair[0], pair[1]
	return nil
}

// CallEdge aggregates every observed call for one ordered service pair.
// All derived fields are pure functions of the latencies, the call count and
// the graph-wide observation span; they are recomputed on every build.
type CallEdge struct {
	Source string
	Dest   string

	ObservedLatencies []float64
	CallCount         int

	AvgLatencyMillis       float64
	ThroughputPerSecond    float64
	CapacityFromLatency    float64
	CapacityFromThroughput float64
	DefaultCapacity        float64
}

// Key returns the edge identity.
func (e *CallEdge) Key() EdgeKey {
	return EdgeKey{Source: e.Source, Dest: e.Dest}
}

// Capacity selects the derived metric that gates flow on this edge.
func (e *CallEdge) Capacity(metric CapacityMetric) float64 {
	switch metric {
	case CapacityThroughput:
		return e.CapacityFromThroughput
	case CapacityLatency:
		return e.CapacityFromLatency
	default:
		return e.DefaultCapacity
	}
}

// CallNode is one service with its incident throughput breakdown.
// Load is always InThroughput + OutThroughput.
type CallNode struct {
	Name          string
	InThroughput  float64
	OutThroughput float64
	Load          float64
}

// CallGraph is the directed service graph built from a set of call records.
// It is rebuilt from scratch for every analysis run, never mutated in place.
type CallGraph struct {
	Nodes map[string]*CallNode
	Edges map[EdgeKey]*CallEdge

	// ObservationSpanSeconds is max-min timestamp over the whole record set,
	// floored at 1.0 (also the fallback when no timestamp parsed).
	ObservationSpanSeconds float64
}

// HasNode reports whether the named service was observed.
func (g *CallGraph) HasNode(name string) bool {
	_, ok := g.Nodes[name]
	return ok
}

// NodeNames returns all service names in lexical order.
func (g *CallGraph) NodeNames() []string {
	names := make([]string, 0, len(g.Nodes))
	for name := range g.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SortedEdges returns all edges ordered by (source, dest). Iteration over the
// edge map is randomized by the runtime; every consumer that needs stable
// output goes through this.
func (g *CallGraph) SortedEdges() []*CallEdge {
	edges := make([]*CallEdge, 0, len(g.Edges))
	for _, e := range g.Edges {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Dest < edges[j].Dest
	})
	return edges
}

// OutEdges returns the edges leaving the named service ordered by destination.
func (g *CallGraph) OutEdges(name string) []*CallEdge {
	var out []*CallEdge
	for _, e := range g.Edges {
		if e.Source == name {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Dest < out[j].Dest })
	return out
}
