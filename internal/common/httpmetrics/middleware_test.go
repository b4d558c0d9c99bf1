package httpmetrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{"/health", "/health"},
		{"/metrics", "/metrics"},
		{"/sw.js", "/sw.js"},
		{"/static/css/app.css", "/static/{file}"},
		{"/static/", "/static/{file}"},
		{"/users/42", UnmatchedPath},
		{"/wp-admin", UnmatchedPath},
		{"/a/b", UnmatchedPath},
		{"/.env", UnmatchedPath},
		{"/health/", UnmatchedPath},
		{"/static", UnmatchedPath},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePath(tt.in), tt.in)
	}
}

func TestCollector_Wrap(t *testing.T) {
	var served bool
	h := New("metrics-test").Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served = true
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))

	assert.True(t, served)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestStatusRecorder(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	_, _ = rec.Write([]byte("body"))
	rec.WriteHeader(http.StatusInternalServerError)
	assert.Equal(t, http.StatusOK, rec.status, "status is fixed once the body is written")

	rec = &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	rec.WriteHeader(http.StatusNotFound)
	assert.Equal(t, http.StatusNotFound, rec.status)
}
