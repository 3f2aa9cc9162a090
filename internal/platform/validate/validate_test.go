// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

package validate_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docvault/docvault/internal/platform/apperr"
	"github.com/docvault/docvault/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "name", "DocVault", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, http.StatusBadRequest, ae.StatusCode)
				assert.Equal(t, tt.field, ae.Errors[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "test@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_Username checks the username character-set rule.
*/
func TestValidator_Username(t *testing.T) {
	tests := []struct {
		name     string
		username string
		isValid  bool
	}{
		{"alphanumeric", "sender01", true},
		{"with_underscore", "doc_sender", true},
		{"with_space", "doc sender", false},
		{"with_dash", "doc-sender", false},
		{"with_emoji", "sender💾", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Username("username", tt.username)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Password checks the letter-plus-digit composition rule.
*/
func TestValidator_Password(t *testing.T) {
	tests := []struct {
		name       string
		password   string
		errorCount int
	}{
		{"letters_and_digits", "S3curePassword", 0},
		{"letters_only", "OnlyLetters", 1},
		{"digits_only", "12345678", 1},
		{"neither", "!!!!!!", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Password("password", tt.password)

			if tt.errorCount == 0 {
				assert.False(t, v.HasErrors())
				return
			}
			ae := apperr.As(v.Err())
			require.NotNil(t, ae)
			assert.Len(t, ae.Errors, tt.errorCount)
		})
	}
}

/*
TestValidator_UUID checks identifier format validation for both v4 and v7.
*/
func TestValidator_UUID(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"uuid_v4", "9b2d7c0a-0f3e-4d26-9d9a-1c2b3a4d5e6f", true},
		{"uuid_v7", "0198f2c2-54a1-7b77-8a51-7f3d2e1c0b9a", true},
		{"uppercase", "0198F2C2-54A1-7B77-8A51-7F3D2E1C0B9A", true},
		{"truncated", "0198f2c2-54a1-7b77", false},
		{"not_a_uuid", "record-123", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.UUID("recordId", tt.value)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_OneOf checks closed-set membership validation.
*/
func TestValidator_OneOf(t *testing.T) {
	allowed := []string{"sender", "receiver"}

	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"first_member", "sender", true},
		{"second_member", "receiver", true},
		{"outsider", "admin", false},
		{"case_sensitive", "Sender", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.OneOf("role", tt.value, allowed...)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("username", "dev").
		MinLen("username", "dev", 3).
		MaxLen("username", "dev", 10).
		Email("email", "dev@docvault.app").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("username", "").       // Fails
		MinLen("username", "a", 5).     // Fails
		Email("email", "not-an-email"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Errors, 3)
}
