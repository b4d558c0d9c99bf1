package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/bienestar-institucional/backend/internal/common/constants"
)

// SQLiteDSN builds a modernc.org/sqlite DSN for path with busy timeout and
// foreign keys enabled. An in-memory path (":memory:" or "mode=memory"
// URIs) skips the WAL pragma.
func SQLiteDSN(path string) string {
	pragmas := fmt.Sprintf("_pragma=busy_timeout(%d)&_pragma=foreign_keys(ON)", constants.SQLiteBusyTimeoutMS)
	if isMemoryPath(path) {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return "file:" + strings.TrimPrefix(path, "file:") + sep + pragmas
	}
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&%s", path, pragmas)
}

// OpenSQLite opens (and creates the parent directory of) the database at path.
// A single connection serializes writers.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if !isMemoryPath(path) {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	conn, err := sql.Open("sqlite", SQLiteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return conn, nil
}

func isMemoryPath(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}
