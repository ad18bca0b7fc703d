package validator

import (
	"testing"

	domainerrors "shoponline/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username string  `json:"username" validate:"required"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Bio      string  `json:"bio" validate:"max=5"`
}

func TestRequestValidator_ReportsJSONFieldNames(t *testing.T) {
	v := New()
	bad := "not-an-email"

	err := v.Validate(&signup{Email: &bad, Bio: "too long"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	var validation *domainerrors.ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Equal(t, []domainerrors.FieldError{
		{Field: "bio", Message: "bio must be at most 5 characters long"},
		{Field: "email", Message: "email must be a valid email address"},
		{Field: "username", Message: "username is required"},
	}, validation.Fields())
}

func TestRequestValidator_AcceptsValidInput(t *testing.T) {
	assert.NoError(t, New().Validate(&signup{Username: "bob"}))
}
