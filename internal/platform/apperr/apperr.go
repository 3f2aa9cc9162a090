// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

/*
Package apperr defines the centralized error handling framework for DocVault.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct carrying the HTTP status code and a client-safe message.
  - Taxonomy: BadRequest, Unauthenticated, Forbidden, NotFound, Conflict, Internal.
  - Mapping: Every error leaving the service layer is one of these kinds.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"net/http"
)

// AppError is the canonical error type for the DocVault API.
//
// It carries an HTTP status code, a client-safe message, and an optional
// slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int `json:"statusCode"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"message"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Errors holds per-field validation failures for 400 responses.
	Errors []FieldError `json:"errors,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// BadRequest creates a 400 [AppError] for malformed or missing input,
// with optional per-field details.
func BadRequest(msg string, errs ...FieldError) *AppError {
	return &AppError{
		StatusCode: http.StatusBadRequest,
		Message:    msg,
		Errors:     errs,
	}
}

// Unauthenticated creates a 401 [AppError] for missing, invalid, or
// expired credentials.
func Unauthenticated(msg string) *AppError {
	return &AppError{
		StatusCode: http.StatusUnauthorized,
		Message:    msg,
	}
}

// Forbidden creates a 403 [AppError] for a valid identity with the wrong role.
func Forbidden(msg string) *AppError {
	return &AppError{
		StatusCode: http.StatusForbidden,
		Message:    msg,
	}
}

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Record") // Returns "Record not found"
func NotFound(resource string) *AppError {
	return &AppError{
		StatusCode: http.StatusNotFound,
		Message:    resource + " not found",
	}
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return &AppError{
		StatusCode: http.StatusConflict,
		Message:    msg,
	}
}

// TooManyRequests creates a 429 [AppError] for rate-limited clients.
func TooManyRequests(msg string) *AppError {
	return &AppError{
		StatusCode: http.StatusTooManyRequests,
		Message:    msg,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected downstream failure.
// The cause is stored for logging but is never sent to the client.
func Internal(msg string, cause error) *AppError {
	if msg == "" {
		msg = "An unexpected error occurred"
	}
	return &AppError{
		StatusCode: http.StatusInternalServerError,
		Message:    msg,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
