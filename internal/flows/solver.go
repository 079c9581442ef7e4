package flows

import (
	"fmt"
	"math"
	"sort"

	"github.com/dany0k/microservice-bottleneck-detector/internal/models"
)

// epsilon for capacity comparisons: residual capacities at or below this are
// treated as exhausted.
const defaultEpsilon = 1e-9

// FlowResult is a converged maximum flow.
type FlowResult struct {
	FlowValue float64
	// EdgeFlows maps each original edge to the flow routed across it.
	EdgeFlows map[models.EdgeKey]float64
}

// CutResult is a minimum edge cut derived from the residual graph of a
// converged maximum flow. By duality CutValue equals the flow value.
type CutResult struct {
	CutValue float64
	// SourceSide holds the nodes reachable from the source in the residual
	// graph, SinkSide the complement. Both are sorted.
	SourceSide []string
	SinkSide   []string
	// CutEdges are exactly the original-graph edges crossing from SourceSide
	// to SinkSide, sorted by (source, dest).
	CutEdges []models.EdgeKey
}

//go:generate mockgen -source=solver.go -destination=./mocks/solver_mock.go -package=mocks
type Solver interface {
	// MaxFlow computes the maximum flow from source to sink, gating each
	// edge by the selected capacity metric.
	MaxFlow(graph *models.CallGraph, source, sink string, metric models.CapacityMetric) (*FlowResult, error)

	// MinCut computes the minimum edge cut between source and sink for the
	// selected capacity metric. A disconnected pair is a valid zero-value
	// result, not an error.
	MinCut(graph *models.CallGraph, source, sink string, metric models.CapacityMetric) (*CutResult, error)
}

// NewSolver returns an Edmonds-Karp solver: BFS shortest augmenting paths,
// which terminates in O(V*E) augmentations for any non-negative real
// capacities.
func NewSolver() Solver {
	return &solver{epsilon: defaultEpsilon}
}

type solver struct {
	epsilon float64
}

func (s *solver) MaxFlow(graph *models.CallGraph, source, sink string, metric models.CapacityMetric) (*FlowResult, error) {
	capacities, err := s.validate(graph, source, sink, metric)
	if err != nil {
		return nil, err
	}

	flow, residual, err := s.run(graph, capacities, source, sink)
	if err != nil {
		return nil, err
	}

	edgeFlows := make(map[models.EdgeKey]float64, len(graph.Edges))
	for key := range graph.Edges {
		routed := capacities[key.Source][key.Dest] - residual[key.Source][key.Dest]
		if routed < s.epsilon {
			routed = 0
		}
		edgeFlows[key] = routed
	}

	return &FlowResult{FlowValue: flow, EdgeFlows: edgeFlows}, nil
}

func (s *solver) MinCut(graph *models.CallGraph, source, sink string, metric models.CapacityMetric) (*CutResult, error) {
	capacities, err := s.validate(graph, source, sink, metric)
	if err != nil {
		return nil, err
	}

	_, residual, err := s.run(graph, capacities, source, sink)
	if err != nil {
		return nil, err
	}

	// Nodes still reachable from the source through positive residual
	// capacity form the source side of the cut.
	reachable := s.residualReachable(residual, source)

	var sourceSide, sinkSide []string
	for _, name := range graph.NodeNames() {
		if reachable[name] {
			sourceSide = append(sourceSide, name)
		} else {
			sinkSide = append(sinkSide, name)
		}
	}

	var cutEdges []models.EdgeKey
	cutValue := 0.0
	for _, edge := range graph.SortedEdges() {
		if reachable[edge.Source] && !reachable[edge.Dest] {
			cutEdges = append(cutEdges, edge.Key())
			cutValue += edge.Capacity(metric)
		}
	}

	return &CutResult{
		CutValue:   cutValue,
		SourceSide: sourceSide,
		SinkSide:   sinkSide,
		CutEdges:   cutEdges,
	}, nil
}

func (s *solver) validate(graph *models.CallGraph, source, sink string, metric models.CapacityMetric) (map[string]map[string]float64, error) {
	if source == sink {
		return nil, fmt.Errorf("%w: %q", ErrSourceSinkEqual, source)
	}
	if !graph.HasNode(source) {
		return nil, fmt.Errorf("source %q: %w", source, ErrNodeNotFound)
	}
	if !graph.HasNode(sink) {
		return nil, fmt.Errorf("sink %q: %w", sink, ErrNodeNotFound)
	}

	// Selected capacities per ordered node pair. The graph holds at most one
	// edge per pair, so no parallel-edge aggregation is needed here.
	capacities := make(map[string]map[string]float64, len(graph.Nodes))
	for name := range graph.Nodes {
		capacities[name] = make(map[string]float64)
	}
	for key, edge := range graph.Edges {
		c := edge.Capacity(metric)
		if c < -s.epsilon {
			return nil, fmt.Errorf("negative capacity %g on edge %s", c, key)
		}
		if c > s.epsilon {
			capacities[key.Source][key.Dest] = c
		}
	}
	return capacities, nil
}

// run executes the augmentation loop and returns the converged flow value and
// the residual capacities.
func (s *solver) run(graph *models.CallGraph, capacities map[string]map[string]float64, source, sink string) (float64, map[string]map[string]float64, error) {
	residual := make(map[string]map[string]float64, len(capacities))
	for u, edges := range capacities {
		residual[u] = make(map[string]float64, len(edges))
		for v, c := range edges {
			residual[u][v] = c
		}
	}

	// Edmonds-Karp finishes within V*E shortest-path augmentations; going
	// past that bound means the residual computation went wrong.
	maxAugmentations := len(graph.Nodes)*len(graph.Edges) + 1

	flow := 0.0
	for i := 0; ; i++ {
		if i > maxAugmentations {
			return 0, nil, fmt.Errorf("%w after %d augmentations", ErrNoConvergence, i)
		}

		path, bottleneck := s.shortestAugmentingPath(residual, source, sink)
		if len(path) == 0 || bottleneck <= s.epsilon {
			break
		}
		flow += bottleneck

		for j := 0; j < len(path)-1; j++ {
			u, v := path[j], path[j+1]
			residual[u][v] -= bottleneck
			if residual[u][v] <= s.epsilon {
				delete(residual[u], v)
			}
			if residual[v] == nil {
				residual[v] = make(map[string]float64)
			}
			residual[v][u] += bottleneck
		}
	}

	return flow, residual, nil
}

// shortestAugmentingPath finds the fewest-hop source→sink path with positive
// residual capacity via BFS, returning the path and its bottleneck capacity.
// Neighbors are visited in lexical order so runs are deterministic.
func (s *solver) shortestAugmentingPath(residual map[string]map[string]float64, source, sink string) ([]string, float64) {
	parent := map[string]string{}
	bottleneck := map[string]float64{source: math.Inf(1)}
	visited := map[string]bool{source: true}

	queue := []string{source}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		for _, v := range sortedNeighbors(residual[u]) {
			c := residual[u][v]
			if visited[v] || c <= s.epsilon {
				continue
			}
			visited[v] = true
			parent[v] = u
			bottleneck[v] = math.Min(bottleneck[u], c)

			if v == sink {
				path := []string{sink}
				for cur := sink; cur != source; cur = parent[cur] {
					path = append(path, parent[cur])
				}
				reverse(path)
				return path, bottleneck[sink]
			}
			queue = append(queue, v)
		}
	}
	return nil, 0
}

func (s *solver) residualReachable(residual map[string]map[string]float64, source string) map[string]bool {
	reachable := map[string]bool{source: true}
	queue := []string{source}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range sortedNeighbors(residual[u]) {
			if reachable[v] || residual[u][v] <= s.epsilon {
				continue
			}
			reachable[v] = true
			queue = append(queue, v)
		}
	}
	return reachable
}

func sortedNeighbors(edges map[string]float64) []string {
	if len(edges) == 0 {
		return nil
	}
	names := make([]string, 0, len(edges))
	for v := range edges {
		names = append(names, v)
	}
	sort.Strings(names)
	return names
}

func reverse(path []string) {
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
}
