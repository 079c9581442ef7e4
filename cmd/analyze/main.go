package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dany0k/microservice-bottleneck-detector/internal/analyzers"
	"github.com/dany0k/microservice-bottleneck-detector/internal/flows"
	"github.com/dany0k/microservice-bottleneck-detector/internal/graphs"
	"github.com/dany0k/microservice-bottleneck-detector/internal/models"
	"github.com/dany0k/microservice-bottleneck-detector/internal/parsers"
	"github.com/dany0k/microservice-bottleneck-detector/internal/shared/filestorages"
	"github.com/dany0k/microservice-bottleneck-detector/internal/shared/loggers"
	"github.com/dany0k/microservice-bottleneck-detector/internal/stores"

	"github.com/spf13/pflag"
)

func main() {
	input := pflag.String("input", "", "call log to analyze (required)")
	source := pflag.String("source", "", "source service (required)")
	sink := pflag.String("sink", "", "sink service (required)")
	window := pflag.Int("window", 60, "window length in seconds")
	step := pflag.Int("step", 30, "window step in seconds")
	capacityField := pflag.String("capacity-field", "default", "edge capacity metric: default, throughput or latency")
	topK := pflag.Int("top-k", 10, "number of aggregated bottlenecks to report")
	output := pflag.String("output", "", "write the report to this file instead of stdout")
	logLevel := pflag.String("log-level", "warn", "log level")
	pflag.Parse()

	if *input == "" || *source == "" || *sink == "" {
		fmt.Fprintln(os.Stderr, "Usage: analyze --input <call.log> --source <service> --sink <service> [flags]")
		pflag.PrintDefaults()
		os.Exit(2)
	}
	if *window <= 0 || *step <= 0 {
		fmt.Fprintln(os.Stderr, "--window and --step must be positive")
		os.Exit(2)
	}

	logger, err := loggers.New(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level: %v\n", err)
		os.Exit(2)
	}
	ctx := logger.WithContext(context.Background())

	metric, err := models.NewCapacityMetricFromString(*capacityField)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid capacity field: %v\n", err)
		os.Exit(2)
	}

	records, err := parsers.ParseFile(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse call log: %v\n", err)
		os.Exit(1)
	}

	builder := graphs.NewGraphBuilder()

	// A source or sink absent from the whole log is fatal here, unlike the
	// per-window degradation inside the analyzer.
	if err := analyzers.VerifyEndpoints(builder.Build(records), *source, *sink); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to analyze: %v\n", err)
		os.Exit(1)
	}

	analyzer := analyzers.NewWindowAnalyzer(builder, flows.NewSolver())
	windows := analyzer.Analyze(records, *source, *sink, *window, *step, metric)
	bottlenecks := analyzers.NewBottleneckAggregator().Aggregate(windows, *topK)

	report := &models.AnalysisReport{
		Input:                 *input,
		Source:                *source,
		Sink:                  *sink,
		WindowSeconds:         *window,
		StepSeconds:           *step,
		CapacityField:         metric,
		Windows:               windows,
		AggregatedBottlenecks: bottlenecks,
	}

	if *output == "" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write report: %v\n", err)
			os.Exit(1)
		}
		return
	}

	outputDir := filepath.Dir(*output)
	fileStorage, err := filestorages.NewFileStorage(outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open output directory: %v\n", err)
		os.Exit(1)
	}
	reportStore := stores.NewReportStore(fileStorage)
	if err := reportStore.Save(ctx, filepath.Base(*output), report); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save report: %v\n", err)
		os.Exit(1)
	}
	loggers.Ctx(ctx).Info().Msgf("report written to %s", *output)
}
