package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopsync/internal/catalog"
	"shopsync/internal/config"
	"shopsync/internal/database"
	"shopsync/internal/logger"
	"shopsync/internal/models"
)

type fakeTrigger struct {
	calls []string
	err   error
}

func (f *fakeTrigger) Trigger(_ context.Context, source string) error {
	f.calls = append(f.calls, source)
	return f.err
}

func newTestServer(t *testing.T) (*Server, *database.Store, *fakeTrigger) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.New("sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := database.NewStore(db.DB)
	trigger := &fakeTrigger{}
	cfg := &config.Config{APIHost: "127.0.0.1", APIPort: "0", Env: "test"}
	return New(cfg, logger.NewWithWriter("error", io.Discard), store, trigger), store, trigger
}

func do(t *testing.T, s *Server, method, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	var body map[string]any
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(rec.Body.Bytes(), &body)
	}
	return rec, body
}

func seedProduct(t *testing.T, store *database.Store, remoteID, title string) *models.Product {
	t.Helper()
	p := &models.Product{Title: title}
	p.RemoteID = remoteID
	require.NoError(t, store.Products.Save(context.Background(), p))
	return p
}

func TestHealthz(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec, body := do(t, s, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	s, _, _ := newTestServer(t)

	do(t, s, http.MethodGet, "/healthz")
	rec, _ := do(t, s, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestListProductsPaginates(t *testing.T) {
	s, store, _ := newTestServer(t)
	seedProduct(t, store, "1", "One")
	seedProduct(t, store, "2", "Two")
	seedProduct(t, store, "3", "Three")

	rec, body := do(t, s, http.MethodGet, "/api/v1/products?page=2&limit=2")
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].([]any)
	assert.Len(t, data, 1)
	pagination := body["pagination"].(map[string]any)
	assert.EqualValues(t, 3, pagination["total"])
	assert.EqualValues(t, 2, pagination["page"])
}

func TestGetProductWithRelations(t *testing.T) {
	s, store, _ := newTestServer(t)
	ctx := context.Background()
	p := seedProduct(t, store, "10", "Shirt")

	img := &models.Image{ProductID: &p.ID, OriginalSrc: "https://cdn.example.com/a.jpg"}
	img.RemoteID = "100"
	require.NoError(t, store.Images.Save(ctx, img))

	col := &models.Collection{Title: "Summer"}
	col.RemoteID = "20"
	require.NoError(t, store.Collections.Save(ctx, col))
	require.NoError(t, store.SaveMembership(ctx, &models.CollectionMembership{
		RemoteID:     "300",
		CollectionID: col.ID,
		ProductID:    p.ID,
	}))

	rec, body := do(t, s, http.MethodGet, "/api/v1/products/"+p.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["published"])
	assert.Len(t, body["images"].([]any), 1)
	assert.Len(t, body["collections"].([]any), 1)

	rec, body = do(t, s, http.MethodGet, "/api/v1/collections/"+col.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["products"].([]any), 1)
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec, _ := do(t, s, http.MethodGet, "/api/v1/products/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, s, http.MethodGet, "/api/v1/collections/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, s, http.MethodGet, "/api/v1/sync/runs/nope/issues")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSyncAccepted(t *testing.T) {
	s, _, trigger := newTestServer(t)

	rec, _ := do(t, s, http.MethodPost, "/api/v1/sync")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []string{"api"}, trigger.calls)
}

func TestSyncConflictWhileLocked(t *testing.T) {
	s, store, trigger := newTestServer(t)
	require.NoError(t, store.AcquireLock(context.Background(), catalog.LockName, "other", time.Hour))

	rec, body := do(t, s, http.MethodPost, "/api/v1/sync")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, database.ErrSyncInProgress.Error(), body["error"])
	assert.Empty(t, trigger.calls)
}

func TestSyncConflictFromTrigger(t *testing.T) {
	s, _, trigger := newTestServer(t)
	trigger.err = database.ErrSyncInProgress

	rec, _ := do(t, s, http.MethodPost, "/api/v1/sync")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRunsAndIssues(t *testing.T) {
	s, store, _ := newTestServer(t)
	ctx := context.Background()

	first, err := store.StartRun(ctx, "test")
	require.NoError(t, err)
	second, err := store.StartRun(ctx, "test")
	require.NoError(t, err)
	require.NoError(t, store.RecordIssue(ctx, &models.SyncIssue{
		RunID:       second.ID,
		Kind:        "product",
		RemoteID:    "7",
		Code:        models.IssueCodeValidation,
		Severity:    models.IssueSeverityHigh,
		Explanation: "product title is required",
	}))

	rec, body := do(t, s, http.MethodGet, "/api/v1/sync/runs")
	require.Equal(t, http.StatusOK, rec.Code)
	runs := body["data"].([]any)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].(map[string]any)["id"])

	rec, body = do(t, s, http.MethodGet, "/api/v1/sync/runs/"+first.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, first.ID, body["data"].(map[string]any)["id"])

	rec, body = do(t, s, http.MethodGet, "/api/v1/sync/runs/"+second.ID+"/issues")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["data"].([]any), 1)
}

func TestCORSPreflight(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/products", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
