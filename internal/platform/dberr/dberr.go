// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/docvault/docvault/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// # Mapping
//
//   - pgx.ErrNoRows          → 404 NotFound for the named resource.
//   - SQLSTATE 23505         → 409 Conflict (unique constraint).
//   - anything else          → 500 Internal with the cause retained for logs.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == pgerrcode.UniqueViolation {
		return apperr.Conflict(resource + " already exists")
	}

	return apperr.Internal("", err)
}

// NotFound reports a missing resource for statements where "zero rows
// affected" is the only signal, such as a conditional UPDATE.
func NotFound(resource string) error {
	return apperr.NotFound(resource)
}
