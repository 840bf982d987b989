package validation

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/unievents/unievents-api/internal/errors"
)

func TestRequired(t *testing.T) {
	v := Required("Name", 5)
	assert.Equal(t, "Name is required.", v("   "))
	assert.Equal(t, "Name cannot exceed 5 characters.", v("abcdef"))
	assert.Empty(t, v(" ab "))
	assert.Empty(t, v("ééééé"))
}

func TestMinLength(t *testing.T) {
	v := MinLength("Password must be at least 6 characters", 6)
	assert.NotEmpty(t, v("12345"))
	assert.Empty(t, v("123456"))
	assert.Empty(t, v("      "))
}

func TestDigits(t *testing.T) {
	v := Digits("Id must be a numeric value")
	assert.Empty(t, v("2021001"))
	assert.NotEmpty(t, v("20a1001"))
	assert.NotEmpty(t, v(""))
	assert.NotEmpty(t, v(" 2021001"))
}

func TestEmail(t *testing.T) {
	v := Email("Email")
	assert.Empty(t, v(""))
	assert.Empty(t, v("ada@uni.edu"))
	assert.NotEmpty(t, v("Ada <ada@uni.edu>"))
	assert.NotEmpty(t, v("not-an-email"))
}

func TestPattern(t *testing.T) {
	v := Pattern("Slug", regexp.MustCompile(`^[a-z]+$`))
	assert.Empty(t, v(""))
	assert.Empty(t, v("abc"))
	assert.Equal(t, "Slug has an invalid format.", v("ABC"))
}

func TestUUID(t *testing.T) {
	v := UUID("workspaceID")
	assert.Empty(t, v("6f1c1f7e-3c1e-4a8e-9d1e-0c6a6a0b5b11"))
	assert.NotEmpty(t, v("not-a-uuid"))
	assert.NotEmpty(t, v(""))
}

func TestMaxLength(t *testing.T) {
	v := MaxLength("Description", 3)
	assert.Empty(t, v("abc"))
	assert.NotEmpty(t, v(strings.Repeat("a", 4)))
}

func TestFieldValidator_OrderAndFirstErrorOnly(t *testing.T) {
	fv := New().
		Validate("universityId", "abc", MinLength("ID is required", 7), Digits("Id must be a numeric value")).
		Validate("password", "123", MinLength("Password must be at least 6 characters", 6)).
		Validate("name", "ok", Required("Name", 10))

	require.Len(t, fv.Errors(), 2)
	assert.Equal(t, apperrors.FieldError{Field: "universityId", Message: "ID is required"}, fv.Errors()[0])
	assert.Equal(t, "password", fv.Errors()[1].Field)

	err := fv.Err("Invalid input data")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Len(t, apperrors.GetDetails(err), 2)
}

func TestFieldValidator_NoErrors(t *testing.T) {
	fv := New().Validate("name", "ok", Required("Name", 10))
	assert.Empty(t, fv.Errors())
	assert.NoError(t, fv.Err("Invalid input data"))
}
