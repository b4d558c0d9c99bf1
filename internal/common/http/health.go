package http

import (
	"context"
	"net/http"
	"time"

	"github.com/bienestar-institucional/backend/internal/common/constants"
	commonerrors "github.com/bienestar-institucional/backend/internal/common/errors"
	"github.com/bienestar-institucional/backend/internal/common/logger"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports ok while db answers a ping within timeout, and 503
// otherwise. A nil db skips the check.
func HealthHandler(log *logger.Logger, db Pinger, timeout time.Duration) http.HandlerFunc {
	if timeout <= 0 {
		timeout = constants.HealthCheckTimeout
	}
	errs := NewErrorHandler(log)

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			WriteErrorEnvelope(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed", nil, "")
			return
		}

		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				errs.HandleError(w, r, commonerrors.ErrServiceUnavailable.WithCause(err))
				return
			}
		}

		log.Debugf("health check ok")
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
