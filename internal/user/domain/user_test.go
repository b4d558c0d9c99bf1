package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/bienestar-institucional/backend/internal/common/errors"
)

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Compare(hash, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

func validUser() User {
	return User{
		Cedula:       "1234567890",
		Username:     "admin",
		Email:        "admin@instituto.edu",
		FullName:     "Administrador del Sistema",
		Role:         RoleAdmin,
		PasswordHash: "hashed:admin123",
	}
}

func TestUser_SetPassword(t *testing.T) {
	u := validUser()
	h := &mockHasher{}

	require.NoError(t, u.SetPassword(h, "NewPass1"))

	assert.Equal(t, "hashed:NewPass1", u.PasswordHash)
	assert.True(t, u.CheckPassword(h, "NewPass1"))
	assert.False(t, u.CheckPassword(h, "admin123"))
}

func TestUser_SetPassword_Empty(t *testing.T) {
	u := validUser()

	err := u.SetPassword(&mockHasher{}, "")

	assert.True(t, errors.Is(err, commonerrors.ErrEmptyPassword))
	assert.Equal(t, "hashed:admin123", u.PasswordHash)
}

func TestUser_SetPassword_HashFailureKeepsHash(t *testing.T) {
	u := validUser()
	h := &mockHasher{hashFunc: func(string) (string, error) {
		return "", errors.New("boom")
	}}

	err := u.SetPassword(h, "NewPass1")

	assert.True(t, errors.Is(err, commonerrors.ErrInternalError))
	assert.Equal(t, "hashed:admin123", u.PasswordHash)
}

func TestUser_CheckPassword_NoHash(t *testing.T) {
	u := User{}
	assert.False(t, u.CheckPassword(&mockHasher{}, ""))
}

func TestUser_IsAdmin(t *testing.T) {
	u := validUser()
	assert.True(t, u.IsAdmin())

	u.Role = "estudiante"
	assert.False(t, u.IsAdmin())
}

func TestUser_Validate(t *testing.T) {
	assert.NoError(t, validUser().Validate())

	testCases := []struct {
		name   string
		mutate func(u *User)
		field  string
	}{
		{"non numeric cedula", func(u *User) { u.Cedula = "12A" }, "Cedula"},
		{"missing username", func(u *User) { u.Username = "" }, "Username"},
		{"bad email", func(u *User) { u.Email = "admin-at-instituto" }, "Email"},
		{"missing role", func(u *User) { u.Role = "" }, "Role"},
		{"missing hash", func(u *User) { u.PasswordHash = "" }, "PasswordHash"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u := validUser()
			tc.mutate(&u)

			err := u.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, commonerrors.ErrInvalidUser))
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}
