package commonerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_WithCauseKeepsIdentity(t *testing.T) {
	cause := errors.New("connection refused")
	err := ErrDatabaseError.WithCause(cause)

	assert.True(t, errors.Is(err, ErrDatabaseError))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrUserNotFound))
	assert.Equal(t, "database operation failed: connection refused", err.Error())
}

func TestDomainError_NestedWithCause(t *testing.T) {
	err := ErrInvalidEnv.WithCause(errors.New("first")).WithCause(errors.New("second"))

	assert.True(t, errors.Is(err, ErrInvalidEnv))
	assert.Equal(t, "invalid environment variable: second", err.Error())
}

func TestAsDomainError_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("lookup admin: %w", ErrUserNotFound)

	de, ok := AsDomainError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "USER_NOT_FOUND", de.Code())
	assert.Equal(t, CategoryNotFound, de.Category())
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus())
	assert.True(t, IsDomainError(wrapped))
}

func TestAsDomainError_PlainError(t *testing.T) {
	_, ok := AsDomainError(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsDomainError(nil))
}
