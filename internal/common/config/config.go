package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bienestar-institucional/backend/internal/common/constants"
	commonerrors "github.com/bienestar-institucional/backend/internal/common/errors"
)

type DatabaseDriver string

const (
	DriverPostgres DatabaseDriver = "postgres"
	DriverSQLite   DatabaseDriver = "sqlite"
)

type DatabaseConfig struct {
	Driver DatabaseDriver
	// URL is the Postgres connection string or the SQLite file path.
	URL             string
	ConnectAttempts int
}

type ServerConfig struct {
	Host           string
	Port           int
	Database       DatabaseConfig
	StaticDir      string
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	BcryptCost     int
}

type AdminConfig struct {
	Database   DatabaseConfig
	BcryptCost int
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func LoadServerConfig() (ServerConfig, error) {
	port, err := portEnv("PORT", constants.DefaultServerPort)
	if err != nil {
		return ServerConfig{}, err
	}

	database, err := LoadDatabaseConfig()
	if err != nil {
		return ServerConfig{}, err
	}

	return ServerConfig{
		Host:           constants.DefaultServerHost,
		Port:           port,
		Database:       database,
		StaticDir:      getEnv("STATIC_DIR", constants.DefaultStaticDir),
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		RateLimitRPS:   getFloatEnv("RATE_LIMIT_RPS", constants.DefaultRateLimitRPS),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", constants.DefaultRateLimitBurst),
		BcryptCost:     getIntEnv("BCRYPT_COST", constants.DefaultBcryptCost),
	}, nil
}

func LoadAdminConfig() (AdminConfig, error) {
	database, err := LoadDatabaseConfig()
	if err != nil {
		return AdminConfig{}, err
	}

	return AdminConfig{
		Database:   database,
		BcryptCost: getIntEnv("BCRYPT_COST", constants.DefaultBcryptCost),
	}, nil
}

func LoadDatabaseConfig() (DatabaseConfig, error) {
	cfg, err := ParseDatabaseURL(getEnv("DATABASE_URL", constants.DefaultDatabaseURL))
	if err != nil {
		return DatabaseConfig{}, err
	}

	cfg.ConnectAttempts = getIntEnv("DB_CONNECT_ATTEMPTS", constants.DefaultConnectAttempts)
	if cfg.ConnectAttempts < 1 {
		cfg.ConnectAttempts = 1
	}

	return cfg, nil
}

// ParseDatabaseURL picks the driver from the URL scheme. postgres:// and
// postgresql:// URLs are kept verbatim; sqlite://path and file:path are reduced
// to the file path.
func ParseDatabaseURL(raw string) (DatabaseConfig, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DatabaseConfig{}, fmt.Errorf("%w: DATABASE_URL", commonerrors.ErrMissingRequiredEnv)
	}

	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		if _, err := url.Parse(raw); err != nil {
			return DatabaseConfig{}, commonerrors.ErrUnsupportedDatabase.WithCause(err)
		}
		return DatabaseConfig{Driver: DriverPostgres, URL: raw}, nil
	case strings.HasPrefix(raw, "sqlite://"):
		path := strings.TrimPrefix(raw, "sqlite://")
		if path == "" {
			return DatabaseConfig{}, commonerrors.ErrUnsupportedDatabase.WithCause(fmt.Errorf("empty sqlite path"))
		}
		return DatabaseConfig{Driver: DriverSQLite, URL: path}, nil
	case strings.HasPrefix(raw, "file:"):
		path := strings.TrimPrefix(raw, "file:")
		if path == "" {
			return DatabaseConfig{}, commonerrors.ErrUnsupportedDatabase.WithCause(fmt.Errorf("empty sqlite path"))
		}
		return DatabaseConfig{Driver: DriverSQLite, URL: path}, nil
	}

	return DatabaseConfig{}, commonerrors.ErrUnsupportedDatabase.WithCause(fmt.Errorf("unknown scheme in %q", redact(raw)))
}

// redact drops userinfo so passwords never reach logs or console output.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	u.User = nil
	return u.String()
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// portEnv is strict: a set but malformed port must stop the process.
func portEnv(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback, nil
	}
	port, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, commonerrors.ErrInvalidEnv.WithCause(fmt.Errorf("%s=%q is not an integer", key, v))
	}
	if port < 1 || port > 65535 {
		return 0, commonerrors.ErrInvalidEnv.WithCause(fmt.Errorf("%s=%d is out of range", key, port))
	}
	return port, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getFloatEnv(key string, fallback float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
