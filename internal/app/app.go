package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dany0k/microservice-bottleneck-detector/internal/analyzers"
	"github.com/dany0k/microservice-bottleneck-detector/internal/flows"
	"github.com/dany0k/microservice-bottleneck-detector/internal/graphs"
	internalhttp "github.com/dany0k/microservice-bottleneck-detector/internal/http"
	"github.com/dany0k/microservice-bottleneck-detector/internal/ingestors"
	"github.com/dany0k/microservice-bottleneck-detector/internal/live"
	"github.com/dany0k/microservice-bottleneck-detector/internal/models"
	"github.com/dany0k/microservice-bottleneck-detector/internal/projections"
	"github.com/dany0k/microservice-bottleneck-detector/internal/shared/configs"
	"github.com/dany0k/microservice-bottleneck-detector/internal/shared/loggers"
	"github.com/dany0k/microservice-bottleneck-detector/internal/stores"
)

// App holds all application dependencies and manages lifecycle.
type App struct {
	config    *configs.Config
	appLogger loggers.Logger
	server    *http.Server

	logTailer        ingestors.LogTailer
	analysisService  live.AnalysisService
	backgroundCtx    context.Context
	backgroundCancel context.CancelFunc
}

// New creates and initializes a new App instance.
func New(config *configs.Config) (*App, error) {
	appLogger, err := loggers.New(config.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger = appLogger.With().
		Str(loggers.FieldApp, "bottleneck-detector").
		Logger()

	capacityMetric, err := models.NewCapacityMetricFromString(config.Analysis.CapacityMetric)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize capacity metric: %w", err)
	}

	// Shared state between the tailer, the analysis loop and the handlers
	recordLog := stores.NewRecordLog()
	resultStore := stores.NewResultStore()

	// Initialize tailer
	pollInterval := time.Duration(config.Analysis.PollIntervalMillis) * time.Millisecond
	logTailer := ingestors.NewLogTailer(config.Analysis.LogPath, pollInterval, recordLog)

	// Initialize analysis pipeline
	builder := graphs.NewGraphBuilder()
	solver := flows.NewSolver()
	analysisService := live.NewAnalysisService(
		live.Params{
			Source:         config.Analysis.Source,
			Sink:           config.Analysis.Sink,
			WindowSeconds:  config.Analysis.WindowSeconds,
			StepSeconds:    config.Analysis.StepSeconds,
			CapacityMetric: capacityMetric,
			TopK:           config.Analysis.TopK,
			HighlightTopK:  config.Analysis.HighlightTopK,
		},
		time.Duration(config.Analysis.AnalyzeIntervalSeconds)*time.Second,
		recordLog,
		resultStore,
		builder,
		analyzers.NewWindowAnalyzer(builder, solver),
		analyzers.NewBottleneckAggregator(),
		projections.NewLiveProjector(),
	)

	// Initialize http router
	httpLogger := appLogger.With().Str(loggers.FieldComponent, "http").Logger()
	router := internalhttp.NewRouter(resultStore, analysisService, httpLogger)

	// Create HTTP server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: time.Duration(config.Server.ReadHeaderTimeout) * time.Second,
		ReadTimeout:       time.Duration(config.Server.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(config.Server.WriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(config.Server.IdleTimeout) * time.Second,
	}

	return &App{
		config:          config,
		appLogger:       appLogger,
		server:          server,
		logTailer:       logTailer,
		analysisService: analysisService,
	}, nil
}

// Start starts the tailer, the analysis loop and the HTTP server. Blocks on
// the server.
func (app *App) Start() error {
	app.appLogger.Info().
		Msgf("Starting bottleneck-detector on port %d (log_level=%s, call_log=%s, source=%s, sink=%s)",
			app.config.Server.Port,
			app.config.Log.Level,
			app.config.Analysis.LogPath,
			app.config.Analysis.Source,
			app.config.Analysis.Sink)

	// start background workers
	app.backgroundCtx, app.backgroundCancel = context.WithCancel(context.Background())
	backgroundCtx := app.appLogger.With().
		Str(loggers.FieldComponent, "background").
		Logger().WithContext(app.backgroundCtx)

	if err := app.logTailer.Start(backgroundCtx); err != nil {
		app.backgroundCancel()
		return fmt.Errorf("tailer start failed: %w", err)
	}
	app.analysisService.Start(backgroundCtx)

	return app.server.ListenAndServe()
}

// Shutdown gracefully shuts down the application.
func (app *App) Shutdown(ctx context.Context) error {
	// 1) Shutdown server
	app.appLogger.Info().Msg("Shutting down server...")
	if err := app.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	app.appLogger.Info().Msg("Server stopped")

	// 2) Cancel background workers
	if app.backgroundCancel != nil {
		app.backgroundCancel()
		app.appLogger.Info().Msg("Background workers cancelled")
	}

	// 3) Wait for background workers to finish
	app.analysisService.Stop()
	app.logTailer.Stop()
	app.appLogger.Info().Msg("Background workers stopped")

	return nil
}
