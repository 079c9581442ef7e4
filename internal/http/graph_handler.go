package http

import (
	"net/http"

	"github.com/dany0k/microservice-bottleneck-detector/internal/live"
	"github.com/dany0k/microservice-bottleneck-detector/internal/projections"
	"github.com/dany0k/microservice-bottleneck-detector/internal/stores"
)

type liveGraphHandler struct {
	resultStore stores.ResultStore
}

func NewLiveGraphHandler(resultStore stores.ResultStore) AppHttpHandler {
	return &liveGraphHandler{resultStore: resultStore}
}

// Handle processes GET /graph/live requests with the projection published by
// the most recent analysis cycle.
func (h *liveGraphHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	view := emptyGraphView()
	if bundle := h.resultStore.Latest(); bundle != nil && bundle.LiveView != nil {
		view = bundle.LiveView
	}
	return writeJSONResponse(w, view)
}

type fullGraphHandler struct {
	analysisService live.AnalysisService
}

func NewFullGraphHandler(analysisService live.AnalysisService) AppHttpHandler {
	return &fullGraphHandler{analysisService: analysisService}
}

// Handle processes GET /graph/full requests, projecting the whole accumulated
// record log on demand rather than the last published snapshot.
func (h *fullGraphHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	view := h.analysisService.FullView()
	if view == nil {
		view = emptyGraphView()
	}
	return writeJSONResponse(w, view)
}

func emptyGraphView() *projections.GraphView {
	return &projections.GraphView{
		Nodes: []projections.NodeView{},
		Edges: []projections.EdgeView{},
	}
}
