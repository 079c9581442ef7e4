package analyzers

import (
	"sort"

	"github.com/dany0k/microservice-bottleneck-detector/internal/models"
)

//go:generate mockgen -source=bottleneck_aggregator.go -destination=./mocks/bottleneck_aggregator_mock.go -package=mocks
type BottleneckAggregator interface {
	// Aggregate counts, per edge, the number of windows whose minimum cut
	// contained it, and returns at most topK edges ranked descending by
	// count. Ties keep the order in which an edge was first seen across the
	// chronological window sequence. Cut edges arrive deduplicated per
	// window by construction, so no window counts an edge twice.
	Aggregate(windowResults []models.WindowResult, topK int) []models.AggregatedBottleneck
}

type bottleneckAggregator struct{}

func NewBottleneckAggregator() BottleneckAggregator {
	return &bottleneckAggregator{}
}

func (a *bottleneckAggregator) Aggregate(windowResults []models.WindowResult, topK int) []models.AggregatedBottleneck {
	if topK <= 0 {
		return []models.AggregatedBottleneck{}
	}

	counts := make(map[models.EdgeKey]int)
	firstSeen := make(map[models.EdgeKey]int)
	order := 0
	for _, w := range windowResults {
		for _, edge := range w.CutEdges {
			if _, seen := counts[edge]; !seen {
				firstSeen[edge] = order
				order++
			}
			counts[edge]++
		}
	}

	ranked := make([]models.AggregatedBottleneck, 0, len(counts))
	for edge, count := range counts {
		ranked = append(ranked, models.AggregatedBottleneck{Edge: edge, Count: count})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return firstSeen[ranked[i].Edge] < firstSeen[ranked[j].Edge]
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}
