package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"handscout/app"
	"handscout/config"
	"handscout/services"
	"handscout/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testApp(t *testing.T, store storage.Store) *app.App {
	t.Helper()
	cfg := &config.Config{
		EnabledDomains:   "hardware,papers",
		EnabledProviders: "model",
		ModelBackend:     "qwen",
		StoreBackend:     "file",
		DataDir:          t.TempDir(),
		SimSeed:          1,
	}
	if store == nil {
		store = storage.NewFileStore(cfg.DataDir)
	}
	a, err := app.NewWithStore(context.Background(), cfg, zap.NewNop(), store)
	require.NoError(t, err)
	return a
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	h.ServeHTTP(w, req)
	return w
}

func TestRoutes_EmptyCollectionsThenUpdate(t *testing.T) {
	a := testApp(t, nil)
	router := newRouter(a, zap.NewNop())

	w := get(t, router, "/api/hardware")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = get(t, router, "/api/update")
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Update completed successfully", body["message"])
	assert.NotEmpty(t, body["cycleId"])

	w = get(t, router, "/api/hardware")
	require.Equal(t, http.StatusOK, w.Code)
	var hardware []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hardware))
	assert.Len(t, hardware, 5)
	for _, h := range hardware {
		assert.NotEmpty(t, h["id"])
		assert.NotEmpty(t, h["lastUpdated"])
	}

	w = get(t, router, "/api/papers")
	require.Equal(t, http.StatusOK, w.Code)
	var papers []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &papers))
	assert.Len(t, papers, 5)

	w = get(t, router, "/api/papers/bibliography")
	require.Equal(t, http.StatusOK, w.Code)
	var refs []services.Reference
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refs))
	require.Len(t, refs, 5)
	for _, r := range refs {
		assert.NotEmpty(t, r.ID)
		assert.Contains(t, r.Reference, "). ")
	}

	w = get(t, router, "/api/papers/bibliography?category=no-such-category")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = get(t, router, "/api/stats")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hardware":{"total":5,"recent24h":5},"papers":{"total":5,"recent24h":5}}`, w.Body.String())
}

type failingCycle struct{}

func (failingCycle) RunCycle(context.Context, string) services.CycleReport {
	return services.CycleReport{
		CycleID: "c1",
		Domains: []services.DomainReport{{Domain: "hardware", Err: errors.New("disk full")}},
	}
}

func TestRoutes_UpdateFailure(t *testing.T) {
	router := gin.New()
	setupUpdateRoutes(router, failingCycle{}, zap.NewNop())

	w := get(t, router, "/api/update")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Update failed"}`, w.Body.String())
}

func TestRoutes_UpdateSurvivesClientDisconnect(t *testing.T) {
	cfg := &config.Config{
		EnabledDomains:   "papers",
		EnabledProviders: "arxiv",
		ModelBackend:     "qwen",
		StoreBackend:     "file",
		DataDir:          t.TempDir(),
		SimSeed:          1,
	}
	a, err := app.NewWithStore(context.Background(), cfg, zap.NewNop(), storage.NewFileStore(cfg.DataDir))
	require.NoError(t, err)
	router := newRouter(a, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/update", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Domains []struct {
			Discovered int  `json:"discovered"`
			Written    bool `json:"written"`
		} `json:"domains"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Domains, 1)
	assert.Positive(t, body.Domains[0].Discovered)
	assert.True(t, body.Domains[0].Written)

	w = get(t, router, "/api/papers")
	require.Equal(t, http.StatusOK, w.Code)
	var papers []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &papers))
	assert.NotEmpty(t, papers)
}

type unreachableStore struct{}

func (unreachableStore) Load(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}
func (unreachableStore) Save(context.Context, string, []byte) error {
	return errors.New("connection refused")
}
func (unreachableStore) Ensure(context.Context, string) error      { return nil }
func (unreachableStore) Domains(context.Context) ([]string, error) { return nil, nil }

func TestRoutes_BackendUnreachable(t *testing.T) {
	a := testApp(t, unreachableStore{})
	router := newRouter(a, zap.NewNop())

	w := get(t, router, "/api/hardware")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to read hardware data"}`, w.Body.String())

	w = get(t, router, "/api/update")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = get(t, router, "/api/stats")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRoutes_HealthMetricsAndPreflight(t *testing.T) {
	a := testApp(t, nil)
	a.Refresh.OnCycle = recordCycle
	router := newRouter(a, zap.NewNop())

	w := get(t, router, "/health")
	assert.Equal(t, http.StatusOK, w.Code)

	get(t, router, "/api/update")
	w = get(t, router, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `handscout_cycles_total{trigger="http"}`)
	assert.Contains(t, w.Body.String(), `handscout_collection_size{domain="hardware"} 5`)

	req := httptest.NewRequest(http.MethodOptions, "/api/hardware", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
