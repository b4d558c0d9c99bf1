package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/bienestar-institucional/backend/internal/common/constants"
	"github.com/bienestar-institucional/backend/internal/common/logger"
)

type ShutdownHook func(ctx context.Context) error

// StartWithGracefulShutdownAndHooks serves until SIGINT, SIGTERM or the end
// of ctx, then shuts down gracefully.
func StartWithGracefulShutdownAndHooks(
	ctx context.Context,
	server *http.Server,
	log *logger.Logger,
	serviceName string,
	hooks []ShutdownHook,
) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return Run(ctx, server, log, serviceName, hooks)
}

// Run binds server.Addr and serves until ctx is done. A bind failure is
// returned immediately.
func Run(ctx context.Context, server *http.Server, log *logger.Logger, serviceName string, hooks []ShutdownHook) error {
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", server.Addr, err)
	}
	return Serve(ctx, ln, server, log, serviceName, hooks)
}

// Serve accepts on ln until ctx is done or the server fails. On shutdown new
// connections are refused, hooks run within the drain period, and in-flight
// requests get the rest of the shutdown timeout.
func Serve(ctx context.Context, ln net.Listener, server *http.Server, log *logger.Logger, serviceName string, hooks []ShutdownHook) error {
	serveErr := make(chan error, 1)
	go func() {
		log.Infof("%s service listening on %s", serviceName, ln.Addr())
		serveErr <- server.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("%s service failed: %w", serviceName, err)
	case <-ctx.Done():
	}

	log.Infof("shutting down %s service...", serviceName)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer shutdownCancel()

	drainCtx, drainCancel := context.WithTimeout(shutdownCtx, constants.DrainTimeout)
	defer drainCancel()

	server.SetKeepAlivesEnabled(false)

	shutdownErr := server.Shutdown(shutdownCtx)

	for i, hook := range hooks {
		if err := hook(drainCtx); err != nil {
			log.Errorf("%s service: shutdown hook %d failed: %v", serviceName, i, err)
		}
	}

	if shutdownErr != nil {
		log.Errorf("%s service forced to shutdown: %v", serviceName, shutdownErr)
		return shutdownErr
	}

	log.Infof("%s service stopped gracefully", serviceName)
	return nil
}
