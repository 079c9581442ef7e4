package http

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dany0k/microservice-bottleneck-detector/internal/projections"
	"github.com/dany0k/microservice-bottleneck-detector/internal/shared/loggers"
	"github.com/dany0k/microservice-bottleneck-detector/internal/stores"

	"github.com/gorilla/websocket"
)

const (
	streamPollInterval = 1 * time.Second
	streamWriteTimeout = 5 * time.Second
)

var streamUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		host := strings.ToLower(strings.TrimSpace(r.Host))
		originHost := strings.ToLower(strings.TrimSpace(u.Host))
		return host == originHost
	},
}

// StreamPayload is one websocket frame: the projection published by a cycle.
type StreamPayload struct {
	CycleID    string                 `json:"cycleId"`
	ComputedAt time.Time              `json:"computedAt"`
	Graph      *projections.GraphView `json:"graph"`
}

// graphStreamHandler pushes each newly published live projection to connected
// websocket clients. Clients that fall behind only ever miss intermediate
// cycles, never parts of one.
type graphStreamHandler struct {
	resultStore stores.ResultStore
}

func NewGraphStreamHandler(resultStore stores.ResultStore) http.HandlerFunc {
	handler := &graphStreamHandler{resultStore: resultStore}
	return handler.serve
}

func (h *graphStreamHandler) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := streamUpgrader.Upgrade(w, r, nil)
	if err != nil {
		loggers.Ctx(r.Context()).Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	h.serveConnection(r, conn)
}

func (h *graphStreamHandler) serveConnection(r *http.Request, conn *websocket.Conn) {
	defer conn.Close()

	metricStreamClients.Inc()
	defer metricStreamClients.Dec()

	lastSentCycleID := ""
	if bundle := h.resultStore.Latest(); bundle != nil {
		if err := h.writePayload(conn, bundle); err != nil {
			return
		}
		lastSentCycleID = bundle.CycleID
	}

	ticker := time.NewTicker(streamPollInterval)
	defer ticker.Stop()

	// Reader goroutine surfaces client disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-done:
			return
		case <-ticker.C:
			bundle := h.resultStore.Latest()
			if bundle == nil || bundle.CycleID == lastSentCycleID {
				continue
			}
			if err := h.writePayload(conn, bundle); err != nil {
				return
			}
			lastSentCycleID = bundle.CycleID
		}
	}
}

func (h *graphStreamHandler) writePayload(conn *websocket.Conn, bundle *stores.ResultBundle) error {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	return conn.WriteJSON(StreamPayload{
		CycleID:    bundle.CycleID,
		ComputedAt: bundle.ComputedAt,
		Graph:      bundle.LiveView,
	})
}
