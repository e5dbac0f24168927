package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAPIError_WithDetailsKeepsKind(t *testing.T) {
	err := ErrNotFound.WithDetails("Startup not found.")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))
	assert.Nil(t, ErrNotFound.Details, "shared sentinel must not be mutated")
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
}

func TestIsAPIError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("apply: %w", ErrDuplicateApplication)

	apiErr, ok := IsAPIError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "DUPLICATE_APPLICATION", apiErr.Code)

	_, ok = IsAPIError(errors.New("plain"))
	assert.False(t, ok)
}

func TestIsDuplicateKeyError(t *testing.T) {
	assert.True(t, IsDuplicateKeyError(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKeyError(errors.New("UNIQUE constraint failed: users.email")))
	assert.True(t, IsDuplicateKeyError(errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email"`)))
	assert.False(t, IsDuplicateKeyError(errors.New("connection refused")))
	assert.False(t, IsDuplicateKeyError(nil))
}

func TestBindError_ValidationFailuresUseValidationCode(t *testing.T) {
	type loginInput struct {
		Email string `validate:"required,email"`
	}
	verr := validator.New().Struct(loginInput{Email: "not-an-email"})
	require.Error(t, verr)

	apiErr := BindError(verr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.NotEmpty(t, apiErr.Details)

	malformed := BindError(errors.New("unexpected EOF"))
	assert.Equal(t, "BAD_REQUEST", malformed.Code)
}
