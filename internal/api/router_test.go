package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svssathvik7/crypto-token-metrics-api/internal/domain"
	"github.com/svssathvik7/crypto-token-metrics-api/internal/ingestion"
	"github.com/svssathvik7/crypto-token-metrics-api/internal/query"
	"github.com/svssathvik7/crypto-token-metrics-api/internal/storage/memory"
)

// emptySource satisfies ingestion.Source with no data, enough for
// exercising the backfill endpoints.
type emptySource struct{}

func (emptySource) FetchDepths(context.Context, string, string, int64, int64) ([]*domain.DepthSample, int64, error) {
	return nil, 0, nil
}
func (emptySource) FetchSwaps(context.Context, string, string, int64, int64) ([]*domain.SwapSample, int64, error) {
	return nil, 0, nil
}
func (emptySource) FetchEarnings(context.Context, string, int64, int64) ([]*domain.EarningsWindow, int64, error) {
	return nil, 0, nil
}
func (emptySource) FetchRunePool(context.Context, string, int64, int64) ([]*domain.RunePoolSample, int64, error) {
	return nil, 0, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *memory.DepthStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	depths := memory.NewDepthStore()
	swaps := memory.NewSwapStore()
	earnings := memory.NewEarningStore()
	runePool := memory.NewRunePoolStore()

	engine := query.NewEngine(query.EngineOptions{
		DepthStore:    depths,
		SwapStore:     swaps,
		EarningStore:  earnings,
		RunePoolStore: runePool,
	})
	syncer := ingestion.NewSyncer(ingestion.Options{
		Source:        emptySource{},
		DepthStore:    depths,
		SwapStore:     swaps,
		EarningStore:  earnings,
		RunePoolStore: runePool,
		Now:           func() time.Time { return time.Unix(domain.FeedStartTime+3600, 0) },
	})

	return NewRouter(Options{Engine: engine, Syncer: syncer}), depths
}

func seedDepth(t *testing.T, store *memory.DepthStore, start int64) {
	t.Helper()
	_, err := store.InsertBatch(context.Background(), []*domain.DepthSample{{
		Pool:      "BTC.BTC",
		Luvi:      0.001,
		StartTime: start,
		EndTime:   start + domain.BaseGranularity,
	}})
	require.NoError(t, err)
}

func TestDepthsEndpoint(t *testing.T) {
	router, depths := newTestRouter(t)
	seedDepth(t, depths, 0)
	seedDepth(t, depths, 3600)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/depths?interval=day", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp query.DepthHistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Intervals, 1)
	assert.Equal(t, int64(0), resp.Intervals[0].StartTime)
	assert.Equal(t, int64(86400), resp.Intervals[0].EndTime)
}

func TestDepthsEndpointBadInterval(t *testing.T) {
	router, depths := newTestRouter(t)
	seedDepth(t, depths, 0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/depths?interval=fortnight", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDepthsEndpointNonNumericCount(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/depths?count=ten", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunePoolEndpointRejectsPool(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/runepool?pool=BTC.BTC", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBackfillEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/depths/fetch-depths-all", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result ingestion.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, domain.FamilyDepths, result.Family)
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
