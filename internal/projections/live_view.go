package projections

import (
	"fmt"

	"github.com/dany0k/microservice-bottleneck-detector/internal/models"
)

const (
	minNodeSize = 10.0
	maxNodeSize = 60.0

	defaultNodeColor = "#97c2fc"
	defaultEdgeColor = "black"
	highlightColor   = "red"

	defaultEdgeWidth   = 1.0
	highlightEdgeWidth = 3.0
)

// NodeView is one service in the serializable live view. Size and color are
// presentation hints scaled by the node's normalized load.
type NodeView struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Title string  `json:"title"`
	Size  float64 `json:"size"`
	Color string  `json:"color"`
}

// EdgeView is one call edge in the serializable live view.
type EdgeView struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Label string  `json:"label"`
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// GraphView is the complete live-view projection consumed by the rendering
// layer. Presentation hints live only here, never on the analytical graph.
type GraphView struct {
	Nodes []NodeView `json:"nodes"`
	Edges []EdgeView `json:"edges"`
}

//go:generate mockgen -source=live_view.go -destination=./mocks/live_view_mock.go -package=mocks
type LiveProjector interface {
	// Project converts an analytical graph into the view model, coloring
	// the given edges as current bottlenecks. Pure function of its inputs.
	Project(graph *models.CallGraph, highlighted []models.EdgeKey) *GraphView
}

type liveProjector struct{}

func NewLiveProjector() LiveProjector {
	return &liveProjector{}
}

func (p *liveProjector) Project(graph *models.CallGraph, highlighted []models.EdgeKey) *GraphView {
	view := &GraphView{
		Nodes: make([]NodeView, 0, len(graph.Nodes)),
		Edges: make([]EdgeView, 0, len(graph.Edges)),
	}

	minLoad, maxLoad := loadRange(graph)
	for _, name := range graph.NodeNames() {
		node := graph.Nodes[name]
		view.Nodes = append(view.Nodes, NodeView{
			ID:    name,
			Label: name,
			Title: fmt.Sprintf("%s\nload=%.3f", name, node.Load),
			Size:  nodeSize(node.Load, minLoad, maxLoad),
			Color: nodeColor(node.Load, minLoad, maxLoad),
		})
	}

	highlightedSet := make(map[models.EdgeKey]bool, len(highlighted))
	for _, key := range highlighted {
		highlightedSet[key] = true
	}
	for _, edge := range graph.SortedEdges() {
		color, width := defaultEdgeColor, defaultEdgeWidth
		if highlightedSet[edge.Key()] {
			color, width = highlightColor, highlightEdgeWidth
		}
		view.Edges = append(view.Edges, EdgeView{
			From:  edge.Source,
			To:    edge.Dest,
			Label: fmt.Sprintf("%.2f", edge.AvgLatencyMillis),
			Color: color,
			Width: width,
		})
	}

	return view
}

func loadRange(graph *models.CallGraph) (minLoad, maxLoad float64) {
	first := true
	for _, node := range graph.Nodes {
		if first || node.Load < minLoad {
			minLoad = node.Load
		}
		if first || node.Load > maxLoad {
			maxLoad = node.Load
		}
		first = false
	}
	return minLoad, maxLoad
}

// nodeSize scales the normalized load into the 10..60 range; all nodes get
// the minimum size when every load is equal.
func nodeSize(load, minLoad, maxLoad float64) float64 {
	if maxLoad <= minLoad {
		return minNodeSize
	}
	frac := (load - minLoad) / (maxLoad - minLoad)
	return minNodeSize + frac*(maxNodeSize-minNodeSize)
}

// nodeColor interpolates from light blue toward red as normalized load grows.
func nodeColor(load, minLoad, maxLoad float64) string {
	if maxLoad <= 0 || maxLoad <= minLoad {
		return defaultNodeColor
	}
	intensity := int(255 * (load - minLoad) / (maxLoad - minLoad))
	r := min(255, 100+intensity)
	g := max(50, 200-intensity)
	b := max(50, 200-intensity/2)
	return fmt.Sprintf("rgb(%d,%d,%d)", r, g, b)
}
