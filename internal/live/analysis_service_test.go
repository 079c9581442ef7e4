package live

import (
	"context"
	"testing"
	"time"

	"github.com/dany0k/microservice-bottleneck-detector/internal/analyzers"
	"github.com/dany0k/microservice-bottleneck-detector/internal/flows"
	flowmocks "github.com/dany0k/microservice-bottleneck-detector/internal/flows/mocks"
	"github.com/dany0k/microservice-bottleneck-detector/internal/graphs"
	"github.com/dany0k/microservice-bottleneck-detector/internal/models"
	"github.com/dany0k/microservice-bottleneck-detector/internal/projections"
	"github.com/dany0k/microservice-bottleneck-detector/internal/stores"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func liveParams() Params {
	return Params{
		Source:         "gateway",
		Sink:           "postgres",
		WindowSeconds:  60,
		StepSeconds:    30,
		CapacityMetric: models.CapacityDefault,
		TopK:           10,
		HighlightTopK:  5,
	}
}

func liveRecords() []models.CallRecord {
	t0 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return []models.CallRecord{
		{Timestamp: t0, SourceService: "gateway", SourceEndpoint: "/login", DestService: "auth", DestEndpoint: "/verify", LatencyMillis: 12},
		{Timestamp: t0.Add(5 * time.Second), SourceService: "auth", SourceEndpoint: "/verify", DestService: "postgres", DestEndpoint: "/query", LatencyMillis: 4},
		{Timestamp: t0.Add(10 * time.Second), SourceService: "gateway", SourceEndpoint: "/items", DestService: "catalog", DestEndpoint: "/list", LatencyMillis: 20},
		{Timestamp: t0.Add(15 * time.Second), SourceService: "catalog", SourceEndpoint: "/list", DestService: "postgres", DestEndpoint: "/query", LatencyMillis: 6},
	}
}

func newTestService(recordLog *stores.RecordLog, resultStore stores.ResultStore, solver flows.Solver, interval time.Duration) *analysisService {
	builder := graphs.NewGraphBuilder()
	service := NewAnalysisService(
		liveParams(),
		interval,
		recordLog,
		resultStore,
		builder,
		analyzers.NewWindowAnalyzer(builder, solver),
		analyzers.NewBottleneckAggregator(),
		projections.NewLiveProjector(),
	)
	return service.(*analysisService)
}

func TestAnalysisService_RunCyclePublishesBundle(t *testing.T) {
	t.Parallel()

	recordLog := stores.NewRecordLog()
	for _, record := range liveRecords() {
		recordLog.Append(record)
	}
	resultStore := stores.NewResultStore()
	service := newTestService(recordLog, resultStore, flows.NewSolver(), time.Hour)

	service.runCycle(context.Background())

	bundle := resultStore.Latest()
	require.NotNil(t, bundle)
	assert.NotEmpty(t, bundle.CycleID)
	assert.False(t, bundle.ComputedAt.IsZero())
	require.NotEmpty(t, bundle.Windows)
	assert.Greater(t, bundle.Windows[0].FlowValue, 0.0)
	assert.NotEmpty(t, bundle.Bottlenecks)
	require.NotNil(t, bundle.LiveView)
	assert.Len(t, bundle.LiveView.Nodes, 4)
	assert.Len(t, bundle.LiveView.Edges, 4)
}

func TestAnalysisService_RunCycleOnEmptyLogPublishesEmptyBundle(t *testing.T) {
	t.Parallel()

	resultStore := stores.NewResultStore()
	service := newTestService(stores.NewRecordLog(), resultStore, flows.NewSolver(), time.Hour)

	service.runCycle(context.Background())

	bundle := resultStore.Latest()
	require.NotNil(t, bundle)
	assert.Empty(t, bundle.Windows)
	assert.Empty(t, bundle.Bottlenecks)
	require.NotNil(t, bundle.LiveView)
	assert.Empty(t, bundle.LiveView.Nodes)
	assert.Empty(t, bundle.LiveView.Edges)
}

func TestAnalysisService_PanickingCycleKeepsPreviousBundle(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	panicSolver := flowmocks.NewMockSolver(ctrl)
	panicSolver.EXPECT().
		MaxFlow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(*models.CallGraph, string, string, models.CapacityMetric) (*flows.FlowResult, error) {
			panic("solver blew up")
		}).
		AnyTimes()

	recordLog := stores.NewRecordLog()
	for _, record := range liveRecords() {
		recordLog.Append(record)
	}
	resultStore := stores.NewResultStore()

	previous := &stores.ResultBundle{CycleID: "01PREVIOUS"}
	resultStore.Publish(previous)

	service := newTestService(recordLog, resultStore, panicSolver, time.Hour)

	assert.NotPanics(t, func() {
		service.runCycle(context.Background())
	})

	bundle := resultStore.Latest()
	require.NotNil(t, bundle)
	assert.Equal(t, "01PREVIOUS", bundle.CycleID)
}

func TestAnalysisService_StartPublishesOnInterval(t *testing.T) {
	t.Parallel()

	recordLog := stores.NewRecordLog()
	for _, record := range liveRecords() {
		recordLog.Append(record)
	}
	resultStore := stores.NewResultStore()
	service := newTestService(recordLog, resultStore, flows.NewSolver(), 10*time.Millisecond)

	service.Start(context.Background())
	defer service.Stop()

	assert.Eventually(t, func() bool {
		return resultStore.Latest() != nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestAnalysisService_FullViewHighlightsLatestBottlenecks(t *testing.T) {
	t.Parallel()

	recordLog := stores.NewRecordLog()
	for _, record := range liveRecords() {
		recordLog.Append(record)
	}
	resultStore := stores.NewResultStore()
	service := newTestService(recordLog, resultStore, flows.NewSolver(), time.Hour)

	// Before any cycle there is nothing to highlight.
	view := service.FullView()
	require.NotNil(t, view)
	assert.Len(t, view.Edges, 4)
	for _, edge := range view.Edges {
		assert.Equal(t, "black", edge.Color)
	}

	service.runCycle(context.Background())

	view = service.FullView()
	highlighted := 0
	for _, edge := range view.Edges {
		if edge.Color == "red" {
			highlighted++
		}
	}
	assert.Greater(t, highlighted, 0)
}
