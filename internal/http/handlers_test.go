package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CHOCOLAnyo/pca-devops-lab/internal/config"
	"github.com/CHOCOLAnyo/pca-devops-lab/internal/model"
	"github.com/CHOCOLAnyo/pca-devops-lab/internal/notify"
	"github.com/CHOCOLAnyo/pca-devops-lab/internal/obs"
	"github.com/CHOCOLAnyo/pca-devops-lab/internal/store"
)

// setupApp builds an App over a hermetic in-process Redis and a disabled
// notifier (no credentials, so Notify is a no-op).
func setupApp(t *testing.T) (*miniredis.Miniredis, http.Handler) {
	t.Helper()
	obs.InitLogger()
	mr := miniredis.RunT(t)
	cfg := config.Config{
		Version:   "v1",
		RedisHost: "127.0.0.1",
		Hostname:  "test-pod",
	}
	st := store.New(mr.Addr())
	t.Cleanup(func() { _ = st.Close() })
	n := notify.New(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	n.Start(ctx)
	app := NewApp(cfg, st, n)
	return mr, NewRouter(app)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestVoteFreshKeyStartsAtOne(t *testing.T) {
	_, mux := setupApp(t)
	rr := get(t, mux, "/vote/apple")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var res model.VoteResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, "success", res.Status)
	assert.Equal(t, int64(1), res.CurrentCount)
	assert.Equal(t, "v1", res.Version)
}

func TestVoteTwiceIncrements(t *testing.T) {
	_, mux := setupApp(t)
	var res model.VoteResult

	rr := get(t, mux, "/vote/apple")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, int64(1), res.CurrentCount)

	rr = get(t, mux, "/vote/apple")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, int64(2), res.CurrentCount)
}

func TestListAggregatesCounts(t *testing.T) {
	_, mux := setupApp(t)
	for _, p := range []string{"apple", "banana", "banana"} {
		rr := get(t, mux, "/vote/"+p)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := get(t, mux, "/list")
	require.Equal(t, http.StatusOK, rr.Code)
	var res model.CountList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, map[string]int64{"apple": 1, "banana": 2}, res.Data)
	assert.Equal(t, "v1", res.Version)
}

func TestListEmptyStore(t *testing.T) {
	_, mux := setupApp(t)
	rr := get(t, mux, "/list")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":{},"version":"v1"}`, rr.Body.String())
}

func TestVoteStoreDownReturns500(t *testing.T) {
	mr, mux := setupApp(t)
	mr.Close()

	rr := get(t, mux, "/vote/apple")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var e struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &e))
	assert.NotEmpty(t, e.Error)

	rr = get(t, mux, "/list")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &e))
	assert.NotEmpty(t, e.Error)
}

func TestServiceRecoversWithStore(t *testing.T) {
	mr, mux := setupApp(t)
	mr.Close()

	rr := get(t, mux, "/vote/apple")
	require.Equal(t, http.StatusInternalServerError, rr.Code)

	require.NoError(t, mr.Restart())
	rr = get(t, mux, "/vote/apple")
	require.Equal(t, http.StatusOK, rr.Code)
	var res model.VoteResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, int64(1), res.CurrentCount)
}

func TestVoteEmptyProductNotFound(t *testing.T) {
	_, mux := setupApp(t)
	rr := get(t, mux, "/vote/")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestVoteNestedPathNotFound(t *testing.T) {
	_, mux := setupApp(t)
	rr := get(t, mux, "/vote/apple/extra")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestVoteMethodNotAllowed(t *testing.T) {
	_, mux := setupApp(t)
	req := httptest.NewRequest(http.MethodPost, "/vote/apple", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHomePageContents(t *testing.T) {
	_, mux := setupApp(t)
	rr := get(t, mux, "/")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")

	body := rr.Body.String()
	assert.Contains(t, body, "v1", "version tag must appear verbatim")
	assert.Contains(t, body, "test-pod")
	assert.Contains(t, body, "/vote/")
	assert.Contains(t, body, "/list")
}

func TestHomePageShowsStoreEndpoint(t *testing.T) {
	obs.InitLogger()
	mr := miniredis.RunT(t)
	cfg := config.Config{Version: "v2", RedisHost: "redis-service", Hostname: "pod-1"}
	st := store.New(mr.Addr())
	t.Cleanup(func() { _ = st.Close() })
	app := NewApp(cfg, st, notify.New(cfg))
	mux := NewRouter(app)

	rr := get(t, mux, "/")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "redis-service")
	assert.Contains(t, rr.Body.String(), "(v2)")
}

func TestUnknownPathNotFound(t *testing.T) {
	_, mux := setupApp(t)
	rr := get(t, mux, "/nope")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHealthzOK(t *testing.T) {
	_, mux := setupApp(t)
	rr := get(t, mux, "/healthz")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestMetricsExposed(t *testing.T) {
	_, mux := setupApp(t)
	rr := get(t, mux, "/vote/apple")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = get(t, mux, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "votes_total")
	assert.Contains(t, body, "http_requests_total")
}

func TestOpenAPIServed(t *testing.T) {
	_, mux := setupApp(t)
	rr := get(t, mux, "/openapi.yaml")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "openapi:")
}

func TestDocsServed(t *testing.T) {
	_, mux := setupApp(t)
	rr := get(t, mux, "/docs")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "swagger-ui")
}

func TestRequestIDEchoed(t *testing.T) {
	_, mux := setupApp(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, "req-42", rr.Header().Get("X-Request-Id"))
}
