package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dany0k/microservice-bottleneck-detector/internal/models"
	"github.com/dany0k/microservice-bottleneck-detector/internal/stores"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func publishedBundle() *stores.ResultBundle {
	return &stores.ResultBundle{
		CycleID:    "01CYCLE1",
		ComputedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Windows: []models.WindowResult{
			{
				WindowStart: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
				WindowEnd:   time.Date(2025, 6, 1, 10, 1, 0, 0, time.UTC),
				FlowValue:   4.5,
				CutValue:    4.5,
				CutEdges:    []models.EdgeKey{{Source: "auth", Dest: "postgres"}},
			},
		},
		Bottlenecks: []models.AggregatedBottleneck{
			{Edge: models.EdgeKey{Source: "auth", Dest: "postgres"}, Count: 3},
		},
	}
}

func TestWindowsHandler_EmptyBeforeFirstCycle(t *testing.T) {
	t.Parallel()

	handler := errorHandlingAdapter(NewWindowsHandler(stores.NewResultStore()))

	req := httptest.NewRequest(http.MethodGet, "/windows", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var response WindowsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Empty(t, response.CycleID)
	assert.Empty(t, response.Windows)
}

func TestWindowsHandler_ReturnsLatestBundle(t *testing.T) {
	t.Parallel()

	resultStore := stores.NewResultStore()
	resultStore.Publish(publishedBundle())
	handler := errorHandlingAdapter(NewWindowsHandler(resultStore))

	req := httptest.NewRequest(http.MethodGet, "/windows", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var response WindowsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, "01CYCLE1", response.CycleID)
	require.Len(t, response.Windows, 1)
	assert.InDelta(t, 4.5, response.Windows[0].FlowValue, 1e-9)
	require.Len(t, response.Windows[0].CutEdges, 1)
	assert.Equal(t, "auth", response.Windows[0].CutEdges[0].Source)
}

func TestBottlenecksHandler_EmptyBeforeFirstCycle(t *testing.T) {
	t.Parallel()

	handler := errorHandlingAdapter(NewBottlenecksHandler(stores.NewResultStore()))

	req := httptest.NewRequest(http.MethodGet, "/bottlenecks", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var response BottlenecksResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Empty(t, response.Bottlenecks)
}

func TestBottlenecksHandler_ReturnsLatestBundle(t *testing.T) {
	t.Parallel()

	resultStore := stores.NewResultStore()
	resultStore.Publish(publishedBundle())
	handler := errorHandlingAdapter(NewBottlenecksHandler(resultStore))

	req := httptest.NewRequest(http.MethodGet, "/bottlenecks", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var response BottlenecksResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, "01CYCLE1", response.CycleID)
	require.Len(t, response.Bottlenecks, 1)
	assert.Equal(t, 3, response.Bottlenecks[0].Count)
	assert.Equal(t, "postgres", response.Bottlenecks[0].Edge.Dest)
}
