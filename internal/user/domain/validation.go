package domain

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	commonerrors "github.com/bienestar-institucional/backend/internal/common/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func userValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the account before it is written. The error wraps
// ErrInvalidUser and names every failing field.
func (u User) Validate() error {
	err := userValidator().Struct(u)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return commonerrors.ErrInvalidUser.WithCause(err)
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return commonerrors.ErrInvalidUser.WithCause(errors.New(strings.Join(parts, ", ")))
}
