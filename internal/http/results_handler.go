package http

import (
	"net/http"
	"time"

	"github.com/dany0k/microservice-bottleneck-detector/internal/models"
	"github.com/dany0k/microservice-bottleneck-detector/internal/stores"
)

type AppHttpHandler interface {
	Handle(w http.ResponseWriter, r *http.Request) error
}

// WindowsResponse carries the window results of the latest analysis cycle.
// Before the first cycle completes the lists are empty and cycleId is "".
type WindowsResponse struct {
	CycleID    string                `json:"cycleId"`
	ComputedAt time.Time             `json:"computedAt"`
	Windows    []models.WindowResult `json:"windows"`
}

// BottlenecksResponse carries the aggregated bottlenecks of the latest cycle.
type BottlenecksResponse struct {
	CycleID     string                        `json:"cycleId"`
	ComputedAt  time.Time                     `json:"computedAt"`
	Bottlenecks []models.AggregatedBottleneck `json:"bottlenecks"`
}

type windowsHandler struct {
	resultStore stores.ResultStore
}

func NewWindowsHandler(resultStore stores.ResultStore) AppHttpHandler {
	return &windowsHandler{resultStore: resultStore}
}

// Handle processes GET /windows requests.
func (h *windowsHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	response := WindowsResponse{Windows: []models.WindowResult{}}
	if bundle := h.resultStore.Latest(); bundle != nil {
		response.CycleID = bundle.CycleID
		response.ComputedAt = bundle.ComputedAt
		if bundle.Windows != nil {
			response.Windows = bundle.Windows
		}
	}
	return writeJSONResponse(w, response)
}

type bottlenecksHandler struct {
	resultStore stores.ResultStore
}

func NewBottlenecksHandler(resultStore stores.ResultStore) AppHttpHandler {
	return &bottlenecksHandler{resultStore: resultStore}
}

// Handle processes GET /bottlenecks requests.
func (h *bottlenecksHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	response := BottlenecksResponse{Bottlenecks: []models.AggregatedBottleneck{}}
	if bundle := h.resultStore.Latest(); bundle != nil {
		response.CycleID = bundle.CycleID
		response.ComputedAt = bundle.ComputedAt
		if bundle.Bottlenecks != nil {
			response.Bottlenecks = bundle.Bottlenecks
		}
	}
	return writeJSONResponse(w, response)
}
