package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bienestar-institucional/backend/internal/common/clock"
	"github.com/bienestar-institucional/backend/internal/common/config"
	"github.com/bienestar-institucional/backend/internal/common/constants"
	commoncrypto "github.com/bienestar-institucional/backend/internal/common/crypto"
	"github.com/bienestar-institucional/backend/internal/common/db"
	"github.com/bienestar-institucional/backend/internal/common/logger"
	userrepo "github.com/bienestar-institucional/backend/internal/user/repository"
)

type App struct {
	Log    *logger.Logger
	Store  userrepo.Store
	Hasher commoncrypto.PasswordHasher
	Clock  clock.Clock
	IDs    commoncrypto.IDGenerator
}

type ServerApp struct {
	App
	Config config.ServerConfig
}

type AdminApp struct {
	App
	Config config.AdminConfig
}

// NewServerApp loads the server configuration and opens the migrated store.
// Pool metrics for Postgres are sampled until ctx is done.
func NewServerApp(ctx context.Context) (*ServerApp, error) {
	log, err := initializeLogger(os.Stdout, "server", "INFO")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.LoadServerConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	app, err := initializeApp(ctx, log, cfg.Database, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	if pg, ok := app.Store.(*userrepo.PgStore); ok {
		db.StartPoolMetrics(ctx, pg.Pool(), constants.DBPoolMetricsInterval)
	}

	return &ServerApp{
		App:    *app,
		Config: cfg,
	}, nil
}

// NewAdminApp builds the credential tool's application. Log records go to
// console (stderr in the tool) so stdout carries only the operator dialogue.
func NewAdminApp(ctx context.Context, console io.Writer) (*AdminApp, error) {
	log, err := initializeLogger(console, "resetadmin", "WARNING")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.LoadAdminConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	app, err := initializeApp(ctx, log, cfg.Database, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	return &AdminApp{
		App:    *app,
		Config: cfg,
	}, nil
}

// OpenStore connects to the configured database and applies pending
// migrations before returning.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger, clk clock.Clock) (userrepo.Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		poolCfg, err := db.ParsePoolConfig(cfg.URL)
		if err != nil {
			return nil, err
		}
		pool, err := db.NewPool(ctx, log, poolCfg, cfg.ConnectAttempts)
		if err != nil {
			return nil, err
		}
		if err := db.MigratePostgres(poolCfg); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info("postgres schema up to date")
		return userrepo.NewPgStore(pool, clk), nil

	case config.DriverSQLite:
		conn, err := db.OpenSQLite(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		if err := db.MigrateSQLite(conn); err != nil {
			_ = conn.Close()
			return nil, err
		}
		log.Infof("sqlite database ready at %s", cfg.URL)
		return userrepo.NewSQLiteStore(conn, clk), nil
	}

	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

// NewApp assembles an App around an already opened store.
func NewApp(log *logger.Logger, store userrepo.Store, bcryptCost int, clk clock.Clock) *App {
	return &App{
		Log:    log,
		Store:  store,
		Hasher: commoncrypto.NewBcryptHasher(bcryptCost),
		Clock:  clk,
		IDs:    commoncrypto.NewUUIDGenerator(),
	}
}

func initializeApp(ctx context.Context, log *logger.Logger, database config.DatabaseConfig, bcryptCost int) (*App, error) {
	clk := clock.NewRealClock()

	store, err := OpenStore(ctx, database, log, clk)
	if err != nil {
		return nil, err
	}

	return NewApp(log, store, bcryptCost, clk), nil
}

func initializeLogger(console io.Writer, serviceName, defaultLevel string) (*logger.Logger, error) {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = defaultLevel
	}
	return logger.NewWithConsole(console, os.Getenv("LOG_DIR"), serviceName, level)
}
