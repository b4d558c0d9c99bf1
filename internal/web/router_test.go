package web

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonhttp "github.com/bienestar-institucional/backend/internal/common/http"
	"github.com/bienestar-institucional/backend/internal/common/httpmetrics"
	"github.com/bienestar-institucional/backend/internal/common/logger"
)

type fakeStore struct {
	err error
}

func (f fakeStore) Ping(context.Context) error { return f.err }

func newTestRouter(t *testing.T, store fakeStore) (*http.ServeMux, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "app.css"), []byte("body{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sw.js"), []byte("self.addEventListener('fetch',()=>{})"), 0o644))

	log := logger.NewWithWriter(&bytes.Buffer{}, "test", "ERROR")
	return NewRouter(log, RouterConfig{StaticDir: dir, Store: store}), dir
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRouter_Index(t *testing.T) {
	mux, _ := newTestRouter(t, fakeStore{})

	rec := serve(mux, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"service":"bienestar-institucional","status":"running"}`, rec.Body.String())
}

func TestRouter_Health(t *testing.T) {
	mux, _ := newTestRouter(t, fakeStore{})
	assert.Equal(t, http.StatusOK, serve(mux, http.MethodGet, "/health").Code)

	down, _ := newTestRouter(t, fakeStore{err: errors.New("db down")})
	assert.Equal(t, http.StatusServiceUnavailable, serve(down, http.MethodGet, "/health").Code)
}

func TestRouter_Metrics(t *testing.T) {
	mux, _ := newTestRouter(t, fakeStore{})

	rec := serve(mux, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRouter_Static(t *testing.T) {
	mux, _ := newTestRouter(t, fakeStore{})

	rec := serve(mux, http.MethodGet, "/static/css/app.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{}", rec.Body.String())

	assert.Equal(t, http.StatusNotFound, serve(mux, http.MethodGet, "/static/css/").Code)
	assert.Equal(t, http.StatusNotFound, serve(mux, http.MethodGet, "/static/missing.js").Code)
}

func TestRouter_ServiceWorker(t *testing.T) {
	mux, dir := newTestRouter(t, fakeStore{})

	rec := serve(mux, http.MethodGet, "/sw.js")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/javascript", rec.Header().Get("Content-Type"))
	assert.Equal(t, "/", rec.Header().Get("Service-Worker-Allowed"))
	assert.Contains(t, rec.Body.String(), "addEventListener")

	require.NoError(t, os.Remove(filepath.Join(dir, "sw.js")))
	assert.Equal(t, http.StatusNotFound, serve(mux, http.MethodGet, "/sw.js").Code)
}

func TestRouter_UnknownPath(t *testing.T) {
	mux, _ := newTestRouter(t, fakeStore{})

	rec := serve(mux, http.MethodGet, "/login")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"NOT_FOUND"`)
}

func TestRouter_RejectsOtherMethods(t *testing.T) {
	mux, _ := newTestRouter(t, fakeStore{})

	for _, path := range []string{"/", "/sw.js"} {
		rec := serve(mux, http.MethodPost, path)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, path)
		assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"), path)
		assert.Contains(t, rec.Body.String(), `"code":"METHOD_NOT_ALLOWED"`, path)
	}

	assert.Equal(t, http.StatusOK, serve(mux, http.MethodHead, "/").Code)
}

func TestRouter_UnknownPathsShareOneMetricSeries(t *testing.T) {
	const service = "unmatched-paths-test"
	mux, _ := newTestRouter(t, fakeStore{})
	log := logger.NewWithWriter(&bytes.Buffer{}, "test", "ERROR")
	h := commonhttp.BuildBaseHandler(service, log, commonhttp.BaseOptions{}, mux)

	for _, path := range []string{"/wp-admin", "/a/b", "/x.php", "/.env", "/phpmyadmin"} {
		assert.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, path).Code, path)
	}
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/health").Code)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	paths := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["service"] == service {
				paths[labels["path"]] += m.GetCounter().GetValue()
			}
		}
	}

	assert.Equal(t, map[string]float64{
		httpmetrics.UnmatchedPath: 5,
		"/health":                 1,
	}, paths)
}
