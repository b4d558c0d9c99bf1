package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	commonerrors "github.com/bienestar-institucional/backend/internal/common/errors"
	"github.com/bienestar-institucional/backend/internal/observability/metrics"
)

const pgUniqueViolation = "23505"

func extractTableFromOperation(operation string) string {
	operation = strings.ToLower(operation)
	if strings.Contains(operation, "user") || strings.Contains(operation, "admin") {
		return "usuarios"
	}
	if strings.Contains(operation, "migrat") {
		return "schema_migrations"
	}
	return "unknown"
}

// IsNoRows matches the no-rows sentinel of both pgx and database/sql.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}

// IsUniqueViolation matches Postgres 23505 and the SQLite extended codes for
// UNIQUE and PRIMARY KEY constraint failures.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

func HandleQueryError(err error, notFoundErr error, operation string, startTime time.Time) error {
	MeasureQueryDuration(operation, startTime)

	if err == nil {
		return nil
	}
	if IsNoRows(err) {
		return notFoundErr
	}
	countError(operation, err)
	return commonerrors.ErrDatabaseError.WithCause(fmt.Errorf("failed to %s: %w", operation, err))
}

func HandleExecError(err error, operation string, startTime time.Time) error {
	MeasureQueryDuration(operation, startTime)

	if err == nil {
		return nil
	}
	countError(operation, err)
	if IsUniqueViolation(err) {
		return commonerrors.ErrUsernameAlreadyExists.WithCause(err)
	}
	return commonerrors.ErrDatabaseError.WithCause(fmt.Errorf("failed to %s: %w", operation, err))
}

func MeasureQueryDuration(operation string, startTime time.Time) {
	table := extractTableFromOperation(operation)
	duration := time.Since(startTime).Seconds()
	metrics.DBQueryDurationSeconds.WithLabelValues(operation, table).Observe(duration)
}

func countError(operation string, err error) {
	table := extractTableFromOperation(operation)
	errorType := fmt.Sprintf("%T", err)
	metrics.DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
}
