package domain

import (
	"time"

	commoncrypto "github.com/bienestar-institucional/backend/internal/common/crypto"
	commonerrors "github.com/bienestar-institucional/backend/internal/common/errors"
)

const RoleAdmin = "admin"

// Cedula is the national ID number that identifies a user account.
type Cedula string

type User struct {
	Cedula          Cedula `validate:"required,numeric,max=20"`
	Username        string `validate:"required,max=80"`
	Email           string `validate:"required,email"`
	FullName        string `validate:"required,max=120"`
	Role            string `validate:"required"`
	PasswordHash    string `json:"-" validate:"required"`
	PasswordChanged bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SetPassword replaces the stored hash with a hash of plain. It is the only
// way PasswordHash is written outside of loading a row.
func (u *User) SetPassword(hasher commoncrypto.PasswordHasher, plain string) error {
	if plain == "" {
		return commonerrors.ErrEmptyPassword
	}
	hash, err := hasher.Hash(plain)
	if err != nil {
		return commonerrors.ErrInternalError.WithCause(err)
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(hasher commoncrypto.PasswordHasher, plain string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return hasher.Compare(u.PasswordHash, plain) == nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
