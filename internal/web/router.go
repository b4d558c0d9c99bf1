package web

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bienestar-institucional/backend/internal/common/constants"
	commonhttp "github.com/bienestar-institucional/backend/internal/common/http"
	"github.com/bienestar-institucional/backend/internal/common/logger"
)

const serviceName = "bienestar-institucional"

type RouterConfig struct {
	StaticDir string
	// Store backs the health check; nil reports healthy without a ping.
	Store commonhttp.Pinger
}

func NewRouter(log *logger.Logger, cfg RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /health", commonhttp.HealthHandler(log, cfg.Store, constants.HealthCheckTimeout))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /static/", http.StripPrefix("/static/", staticFiles(cfg.StaticDir)))
	getOnly := commonhttp.RequireMethod(http.MethodGet, http.MethodHead)
	mux.HandleFunc("/sw.js", getOnly(serviceWorker(cfg.StaticDir)))
	mux.HandleFunc("/{$}", getOnly(index))
	mux.HandleFunc("/", notFound)

	return mux
}

func index(w http.ResponseWriter, r *http.Request) {
	commonhttp.WriteJSON(w, http.StatusOK, map[string]string{
		"service": serviceName,
		"status":  "running",
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	commonhttp.WriteErrorEnvelope(w, http.StatusNotFound, commonhttp.CodeNotFound, "not found", nil, w.Header().Get("X-Trace-ID"))
}

// staticFiles serves files under dir without directory listings.
func staticFiles(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			notFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// serviceWorker serves dir/sw.js from the site root so its scope covers the
// whole application.
func serviceWorker(dir string) http.HandlerFunc {
	path := filepath.Join(dir, "sw.js")
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := os.Stat(path); err != nil {
			notFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/javascript")
		w.Header().Set("Service-Worker-Allowed", "/")
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, path)
	}
}
