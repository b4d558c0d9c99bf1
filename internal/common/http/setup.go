package http

import (
	"net/http"
	"time"

	"github.com/bienestar-institucional/backend/internal/common/constants"
	"github.com/bienestar-institucional/backend/internal/common/httpmetrics"
	"github.com/bienestar-institucional/backend/internal/common/logger"
)

type BaseOptions struct {
	// RateLimiter is optional; nil disables per-client limiting.
	RateLimiter    *RateLimiter
	RequestTimeout time.Duration
	MaxRequestSize int64
}

// BuildBaseHandler wraps handler with the shared middleware chain. Security
// headers are outermost so they are present on every response, including
// rate-limit and panic responses.
func BuildBaseHandler(appName string, log *logger.Logger, opts BaseOptions, handler http.Handler) http.Handler {
	if opts.MaxRequestSize <= 0 {
		opts.MaxRequestSize = constants.DefaultMaxRequestSize
	}

	metrics := httpmetrics.New(appName)
	h := metrics.Wrap(WithTimeout(opts.RequestTimeout)(handler))
	if opts.RateLimiter != nil {
		h = opts.RateLimiter.Middleware()(h)
	}
	h = MaxRequestSizeMiddleware(opts.MaxRequestSize)(h)
	h = RecoveryMiddleware(log)(h)
	h = TraceIDMiddleware(h)
	h = ContentSecurityPolicyMiddleware("")(h)
	return SecurityHeadersMiddleware(h)
}
