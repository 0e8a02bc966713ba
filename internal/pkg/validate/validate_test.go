package validate

import (
	"errors"
	"testing"

	"github.com/go-otp-auth/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(&domain.VerifyOTPRequest{Email: "a@x.com", Code: "123456"}))
}

func TestStruct_FieldErrorsKeyedByJSONName(t *testing.T) {
	err := Struct(&domain.VerifyOTPRequest{Email: "nope", Code: "123"})
	require.Error(t, err)

	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, []string{"must be a valid email address"}, fe["email"])
	assert.Equal(t, []string{"must be exactly 6 characters"}, fe["code"])
}

func TestStruct_Required(t *testing.T) {
	err := Struct(&domain.RegisterRequest{})
	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, []string{"is required"}, fe["name"])
	assert.Contains(t, err.Error(), "name: is required")
}
