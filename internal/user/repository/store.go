package repository

import (
	"context"

	"github.com/bienestar-institucional/backend/internal/common/db"
	"github.com/bienestar-institucional/backend/internal/user/domain"
)

// Store hands out Sessions against the user table.
type Store interface {
	Begin(ctx context.Context) (Session, error)
	Ping(ctx context.Context) error
	Close() error
}

// Session is a single unit of work. Nothing it writes is visible to other
// sessions until Commit. Rollback after Commit is a no-op.
type Session interface {
	db.Tx
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	// Create inserts user and stamps CreatedAt and UpdatedAt on it.
	Create(ctx context.Context, user *domain.User) error
	// UpdatePassword persists PasswordHash and PasswordChanged and stamps
	// UpdatedAt.
	UpdatePassword(ctx context.Context, user *domain.User) error
}

const selectUserColumns = `cedula, username, email, nombre_completo, rol, password_hash, password_changed, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var user domain.User
	var cedula string
	err := row.Scan(
		&cedula,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.Role,
		&user.PasswordHash,
		&user.PasswordChanged,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	user.Cedula = domain.Cedula(cedula)
	return user, nil
}
