package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/bienestar-institucional/backend/internal/common/clock"
	"github.com/bienestar-institucional/backend/internal/common/constants"
	"github.com/bienestar-institucional/backend/internal/common/db"
	commonerrors "github.com/bienestar-institucional/backend/internal/common/errors"
	"github.com/bienestar-institucional/backend/internal/user/domain"
)

type PgStore struct {
	pool  *pgxpool.Pool
	clock clock.Clock
}

// Pool exposes the underlying pool for metrics sampling.
func (s *PgStore) Pool() *pgxpool.Pool {
	return s.pool
}

func NewPgStore(pool *pgxpool.Pool, clk clock.Clock) *PgStore {
	return &PgStore{pool: pool, clock: clk}
}

func (s *PgStore) Begin(ctx context.Context) (Session, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, commonerrors.ErrDatabaseError.WithCause(fmt.Errorf("failed to begin transaction: %w", err))
	}
	return &pgSession{tx: tx, clock: s.clock}, nil
}

func (s *PgStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PgStore) Close() error {
	s.pool.Close()
	return nil
}

type pgSession struct {
	tx    pgx.Tx
	clock clock.Clock
}

func (s *pgSession) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	start := time.Now()
	row := s.tx.QueryRow(
		ctx,
		`SELECT `+selectUserColumns+` FROM usuarios WHERE username = $1`,
		username,
	)

	user, err := scanUser(row)
	if err != nil {
		return domain.User{}, db.HandleQueryError(err, commonerrors.ErrUserNotFound, "find user by username", start)
	}
	db.MeasureQueryDuration("find user by username", start)
	return user, nil
}

func (s *pgSession) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	now := s.clock.Now()
	start := time.Now()
	_, err := s.tx.Exec(
		ctx,
		`INSERT INTO usuarios (cedula, username, email, nombre_completo, rol, password_hash, password_changed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
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

func (s *pgSession) UpdatePassword(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	now := s.clock.Now()
	start := time.Now()
	tag, err := s.tx.Exec(
		ctx,
		`UPDATE usuarios SET password_hash = $1, password_changed = $2, updated_at = $3 WHERE username = $4`,
		user.PasswordHash,
		user.PasswordChanged,
		now,
		user.Username,
	)
	if err := db.HandleExecError(err, "update user password", start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return commonerrors.ErrUserNotFound
	}

	user.UpdatedAt = now
	return nil
}

func (s *pgSession) Commit(ctx context.Context) error {
	if err := s.tx.Commit(ctx); err != nil {
		return commonerrors.ErrDatabaseError.WithCause(fmt.Errorf("failed to commit: %w", err))
	}
	return nil
}

func (s *pgSession) Rollback(ctx context.Context) error {
	err := s.tx.Rollback(ctx)
	if err == nil || errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return commonerrors.ErrDatabaseError.WithCause(fmt.Errorf("failed to rollback: %w", err))
}
