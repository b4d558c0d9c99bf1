package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/bienestar-institucional/backend/internal/bootstrap"
	"github.com/bienestar-institucional/backend/internal/common/constants"
	commonhttp "github.com/bienestar-institucional/backend/internal/common/http"
	"github.com/bienestar-institucional/backend/internal/common/logger"
	srv "github.com/bienestar-institucional/backend/internal/common/server"
	"github.com/bienestar-institucional/backend/internal/web"
)

const serviceName = "bienestar"

func main() {
	if err := run(context.Background()); err != nil {
		log, logErr := logger.New(os.Getenv("LOG_DIR"), serviceName, os.Getenv("LOG_LEVEL"))
		if logErr != nil {
			fmt.Fprintf(os.Stderr, "failed to start %s: %v\n", serviceName, err)
			os.Exit(1)
		}
		log.Criticalf("failed to start %s: %v", serviceName, err)
		os.Exit(1)
	}
}

// run serves until SIGINT, SIGTERM or the end of ctx. Startup failures
// (configuration, database, migrations, bind) are returned.
func run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app, err := bootstrap.NewServerApp(ctx)
	if err != nil {
		return err
	}

	server := srv.NewServer(srv.DefaultServerConfig(app.Config.Addr()), newHandler(ctx, app))

	hooks := []srv.ShutdownHook{
		func(context.Context) error {
			return app.Close()
		},
	}

	if err := srv.StartWithGracefulShutdownAndHooks(ctx, server, app.Log, serviceName, hooks); err != nil {
		_ = app.Close()
		return err
	}
	return nil
}

func newHandler(ctx context.Context, app *bootstrap.ServerApp) http.Handler {
	limiter := commonhttp.NewRateLimiter(app.Config.RateLimitRPS, app.Config.RateLimitBurst)
	limiter.StartCleanup(ctx, constants.RateLimitCleanupInterval)

	router := web.NewRouter(app.Log, web.RouterConfig{
		StaticDir: app.Config.StaticDir,
		Store:     app.Store,
	})

	return commonhttp.BuildBaseHandler(serviceName, app.Log, commonhttp.BaseOptions{
		RateLimiter:    limiter,
		RequestTimeout: app.Config.RequestTimeout,
	}, router)
}
