package http

import (
	"net/http"

	"github.com/dany0k/microservice-bottleneck-detector/internal/live"
	"github.com/dany0k/microservice-bottleneck-detector/internal/shared/loggers"
	"github.com/dany0k/microservice-bottleneck-detector/internal/shared/metrics"
	"github.com/dany0k/microservice-bottleneck-detector/internal/stores"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(resultStore stores.ResultStore, analysisService live.AnalysisService, httpLogger loggers.Logger) http.Handler {
	router := chi.NewRouter()
	setupMiddleware(router, httpLogger)

	// Initialize handlers
	windowsHandler := NewWindowsHandler(resultStore)
	bottlenecksHandler := NewBottlenecksHandler(resultStore)
	liveGraphHandler := NewLiveGraphHandler(resultStore)
	fullGraphHandler := NewFullGraphHandler(analysisService)
	graphStreamHandler := NewGraphStreamHandler(resultStore)

	// Routes
	router.Get("/healthz", healthHandler)
	router.Get("/windows", errorHandlingAdapter(windowsHandler))
	router.Get("/bottlenecks", errorHandlingAdapter(bottlenecksHandler))
	router.Get("/graph/live", errorHandlingAdapter(liveGraphHandler))
	router.Get("/graph/full", errorHandlingAdapter(fullGraphHandler))
	router.Get("/graph/stream", graphStreamHandler)
	router.Get("/metrics", metrics.PromHTTP.Handler().ServeHTTP)

	return router
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
