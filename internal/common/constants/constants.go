package constants

import "time"

const (
	DefaultServerHost  = "0.0.0.0"
	DefaultServerPort  = 5001
	DefaultDatabaseURL = "sqlite://instance/bienestar.db"
	DefaultStaticDir   = "static"

	DefaultMaxRequestSize = 1 << 20

	UsernameMaxLength = 80
	FullNameMaxLength = 120

	DefaultBcryptCost = 12

	DBPoolMaxOpenConns     = 10
	DBPoolMinOpenConns     = 1
	DBPoolConnMaxLifetime  = time.Hour
	DBPoolConnMaxIdleTime  = 30 * time.Minute
	DBPoolHealthCheck      = 1 * time.Minute
	DBPoolConnectTimeout   = 5 * time.Second
	DBPoolRetryDelay       = 1 * time.Second
	DBPoolMetricsInterval  = 30 * time.Second
	DBQueryTimeout         = 30 * time.Second
	DefaultConnectAttempts = 1
	SQLiteBusyTimeoutMS    = 5000

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultRequestTimeout = 15 * time.Second
	HealthCheckTimeout    = 2 * time.Second

	DefaultRateLimitRPS      = 20
	DefaultRateLimitBurst    = 40
	RateLimitCleanupInterval = 5 * time.Minute

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
