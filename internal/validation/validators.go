package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	apperrors "github.com/unievents/unievents-api/internal/errors"
)

// Validator is a function that validates a string value and returns an error message if invalid.
type Validator func(v string) string

var digitsRe = regexp.MustCompile(`^\d+$`)

// Required validates that a field is not empty and does not exceed maxLen characters.
// Uses rune count for proper Unicode support.
func Required(fieldName string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return fieldName + " is required."
		}
		if utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		return ""
	}
}

// MinLength validates that a field has at least minLen characters. The value is
// not trimmed, so whitespace counts, matching how passwords are compared.
func MinLength(message string, minLen int) Validator {
	return func(v string) string {
		if utf8.RuneCountInString(v) < minLen {
			return message
		}
		return ""
	}
}

// MaxLength validates that a field does not exceed maxLen characters.
func MaxLength(fieldName string, maxLen int) Validator {
	return func(v string) string {
		if utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		return ""
	}
}

// Digits validates that a field consists only of ASCII digits.
func Digits(message string) Validator {
	return func(v string) string {
		if !digitsRe.MatchString(v) {
			return message
		}
		return ""
	}
}

// Email validates a bare address such as "ada@uni.edu". Empty values pass; pair
// with Required when the field is mandatory.
func Email(fieldName string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		addr, err := mail.ParseAddress(v)
		if err != nil || addr.Address != v {
			return fieldName + " must be a valid email address."
		}
		return ""
	}
}

// Pattern validates that a field matches the provided regular expression.
func Pattern(fieldName string, re *regexp.Regexp) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		if !re.MatchString(v) {
			return fieldName + " has an invalid format."
		}
		return ""
	}
}

// UUID validates that a field is a canonical UUID.
func UUID(fieldName string) Validator {
	return func(v string) string {
		if err := uuid.Validate(strings.TrimSpace(v)); err != nil {
			return fieldName + " must be a valid UUID."
		}
		return ""
	}
}

// FieldValidator provides a fluent API for validating multiple fields.
// Failures are reported in the order fields were validated.
type FieldValidator struct {
	errors []apperrors.FieldError
}

// New creates a new FieldValidator instance.
func New() *FieldValidator {
	return &FieldValidator{}
}

// Validate validates a field with one or more validators.
// It stops at the first error for each field.
func (fv *FieldValidator) Validate(field, value string, validators ...Validator) *FieldValidator {
	for _, v := range validators {
		if msg := v(value); msg != "" {
			fv.errors = append(fv.errors, apperrors.FieldError{Field: field, Message: msg})
			break
		}
	}
	return fv
}

// Errors returns the accumulated validation errors.
func (fv *FieldValidator) Errors() []apperrors.FieldError {
	return fv.errors
}

// Err returns a validation AppError carrying every field failure, or nil.
func (fv *FieldValidator) Err(message string) error {
	if len(fv.errors) == 0 {
		return nil
	}
	return apperrors.ValidationDetails(message, fv.errors)
}
