package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bienestar-institucional/backend/internal/common/clock"
	"github.com/bienestar-institucional/backend/internal/common/constants"
	"github.com/bienestar-institucional/backend/internal/common/db"
	commonerrors "github.com/bienestar-institucional/backend/internal/common/errors"
	"github.com/bienestar-institucional/backend/internal/user/domain"
)

type SQLiteStore struct {
	conn  *sql.DB
	clock clock.Clock
}

func NewSQLiteStore(conn *sql.DB, clk clock.Clock) *SQLiteStore {
	return &SQLiteStore{conn: conn, clock: clk}
}

func (s *SQLiteStore) Begin(ctx context.Context) (Session, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, commonerrors.ErrDatabaseError.WithCause(fmt.Errorf("failed to begin transaction: %w", err))
	}
	return &sqliteSession{tx: tx, clock: s.clock}, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

type sqliteSession struct {
	tx    *sql.Tx
	clock clock.Clock
}

func (s *sqliteSession) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	start := time.Now()
	row := s.tx.QueryRowContext(
		ctx,
		`SELECT `+selectUserColumns+` FROM usuarios WHERE username = ?`,
		username,
	)

	user, err := scanUser(row)
	if err != nil {
		return domain.User{}, db.HandleQueryError(err, commonerrors.ErrUserNotFound, "find user by username", start)
	}
	db.MeasureQueryDuration("find user by username", start)
	return user, nil
}

func (s *sqliteSession) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	now := s.clock.Now()
	start := time.Now()
	_, err := s.tx.ExecContext(
		ctx,
		`INSERT INTO usuarios (cedula, username, email, nombre_completo, rol, password_hash, password_changed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(user.Cedula),
		user.Username,
		user.Email,
		user.FullName,
		user.Role,
		user.PasswordHash,
		user.PasswordChanged,
		now,
		now,
	)
	if err := db.HandleExecError(err, "create user", start); err != nil {
		return err
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (s *sqliteSession) UpdatePassword(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	now := s.clock.Now()
	start := time.Now()
	res, err := s.tx.ExecContext(
		ctx,
		`UPDATE usuarios SET password_hash = ?, password_changed = ?, updated_at = ? WHERE username = ?`,
		user.PasswordHash,
		user.PasswordChanged,
		now,
		user.Username,
	)
	if err := db.HandleExecError(err, "update user password", start); err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return commonerrors.ErrUserNotFound
	}

	user.UpdatedAt = now
	return nil
}

// Commit and Rollback ignore ctx; database/sql binds the transaction to the
// context passed to BeginTx.
func (s *sqliteSession) Commit(context.Context) error {
	if err := s.tx.Commit(); err != nil {
		return commonerrors.ErrDatabaseError.WithCause(fmt.Errorf("failed to commit: %w", err))
	}
	return nil
}

func (s *sqliteSession) Rollback(context.Context) error {
	err := s.tx.Rollback()
	if err == nil || errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return commonerrors.ErrDatabaseError.WithCause(fmt.Errorf("failed to rollback: %w", err))
}
