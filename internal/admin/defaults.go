package admin

import "github.com/bienestar-institucional/backend/internal/user/domain"

const (
	Username        = "admin"
	DefaultCedula   = "1234567890"
	DefaultEmail    = "admin@instituto.edu"
	DefaultFullName = "Administrador del Sistema"
	DefaultPassword = "admin123"
)

// NewAdmin returns the bootstrap account without a password hash. It is
// created with PasswordChanged set, so no rotation is forced on first login.
func NewAdmin() domain.User {
	return domain.User{
		Cedula:          DefaultCedula,
		Username:        Username,
		Email:           DefaultEmail,
		FullName:        DefaultFullName,
		Role:            domain.RoleAdmin,
		PasswordChanged: true,
	}
}
