// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

/*
Package auth (Postgres) implements the storage layer for user accounts.

# Schema Table Mapping
  - users.account: Master identity, credentials, and token state.

# Error Mapping

Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
[apperr.AppError] types to avoid leaking storage implementation details.
*/
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docvault/docvault/internal/platform/database/schema"
	"github.com/docvault/docvault/internal/platform/dberr"
	"github.com/docvault/docvault/pkg/pointer"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users.account table.

Description: Deep-persists account data, ensuring timestamps are initialized
if not provided.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate identity or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
		schema.UserAccount.FullName, schema.UserAccount.Password, schema.UserAccount.Role,
		schema.UserAccount.AvatarURL, schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.FullName,
		user.PasswordHash,
		user.Role,
		user.AvatarURL,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "User")
	}

	return nil
}

/*
FindByID retrieves a user record by their unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.ID, id)
}

/*
FindByEmail retrieves a user record by their unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.Email, email)
}

/*
FindByUsername retrieves a user record by their unique username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.Username, username)
}

// findBy resolves a single account by an exact match on one column.
func (repository *PostgresUserRepository) findBy(context context.Context, column, value string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
		schema.UserAccount.FullName, schema.UserAccount.Password, schema.UserAccount.Role,
		schema.UserAccount.AvatarURL, schema.UserAccount.RefreshToken,
		schema.UserAccount.ResetPasswordToken, schema.UserAccount.ResetPasswordExpiry,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
		schema.UserAccount.Table, column,
	)

	user := &User{}
	var refreshToken, resetToken *string

	err := repository.pool.QueryRow(context, query, value).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.Role,
		&user.AvatarURL,
		&refreshToken,
		&resetToken,
		&user.ResetPasswordExpiry,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	user.RefreshToken = pointer.Val(refreshToken)
	user.ResetPasswordToken = pointer.Val(resetToken)

	return user, nil
}

/*
SetRefreshToken replaces the account's active refresh token.

Parameters:
  - context: context.Context
  - userID: string
  - refreshToken: string

Returns:
  - error: apperr.NotFound when the account is gone, or database errors
*/
func (repository *PostgresUserRepository) SetRefreshToken(context context.Context, userID, refreshToken string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = NOW()
		WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.RefreshToken,
		schema.UserAccount.UpdatedAt, schema.UserAccount.ID,
	)

	tag, err := repository.pool.Exec(context, query, userID, refreshToken)
	if err != nil {
		return dberr.Wrap(err, "User")
	}
	if tag.RowsAffected() == 0 {
		return dberr.NotFound("User")
	}

	return nil
}

/*
RotateRefreshToken swaps oldToken for newToken with a compare-and-set UPDATE.

Description: The WHERE clause matches both the account and the exact stored
token, so concurrent rotations of the same token resolve to exactly one
winner at the database level. No row lock is held beyond the statement.

Parameters:
  - context: context.Context
  - userID: string
  - oldToken: string
  - newToken: string

Returns:
  - bool: whether this caller won the swap
  - error: Database errors
*/
func (repository *PostgresUserRepository) RotateRefreshToken(context context.Context, userID, oldToken, newToken string) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $3, %s = NOW()
		WHERE %s = $1 AND %s = $2`,
		schema.UserAccount.Table, schema.UserAccount.RefreshToken,
		schema.UserAccount.UpdatedAt, schema.UserAccount.ID,
		schema.UserAccount.RefreshToken,
	)

	tag, err := repository.pool.Exec(context, query, userID, oldToken, newToken)
	if err != nil {
		return false, dberr.Wrap(err, "User")
	}

	return tag.RowsAffected() == 1, nil
}

/*
ClearRefreshToken invalidates the account's refresh token on logout.

Description: Idempotent. Clearing an already-cleared token affects zero rows
and that is fine.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Database errors
*/
func (repository *PostgresUserRepository) ClearRefreshToken(context context.Context, userID string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = NULL, %s = NOW()
		WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.RefreshToken,
		schema.UserAccount.UpdatedAt, schema.UserAccount.ID,
	)

	if _, err := repository.pool.Exec(context, query, userID); err != nil {
		return dberr.Wrap(err, "User")
	}

	return nil
}

/*
UpdatePassword replaces only the user's password hash.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = NOW()
		WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.Password,
		schema.UserAccount.UpdatedAt, schema.UserAccount.ID,
	)

	tag, err := repository.pool.Exec(context, query, userID, newHash)
	if err != nil {
		return dberr.Wrap(err, "User")
	}
	if tag.RowsAffected() == 0 {
		return dberr.NotFound("User")
	}

	return nil
}

/*
SetResetToken stores the hashed reset token and its expiry on the account.

Parameters:
  - context: context.Context
  - userID: string
  - tokenHash: string
  - expiresAt: time.Time

Returns:
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) SetResetToken(context context.Context, userID, tokenHash string, expiresAt time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = NOW()
		WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.ResetPasswordToken,
		schema.UserAccount.ResetPasswordExpiry, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	tag, err := repository.pool.Exec(context, query, userID, tokenHash, expiresAt)
	if err != nil {
		return dberr.Wrap(err, "User")
	}
	if tag.RowsAffected() == 0 {
		return dberr.NotFound("User")
	}

	return nil
}

/*
ConsumeResetToken applies a password reset in one atomic statement.

Description: Matches only an unexpired token hash. The statement writes the
new password hash, clears both reset columns, and revokes the refresh token,
so the reset link is single-use and every open session dies with it.

Parameters:
  - context: context.Context
  - tokenHash: string
  - newPasswordHash: string

Returns:
  - bool: whether an unexpired token matched
  - error: Database errors
*/
func (repository *PostgresUserRepository) ConsumeResetToken(context context.Context, tokenHash, newPasswordHash string) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = NULL, %s = NULL, %s = NULL, %s = NOW()
		WHERE %s = $1 AND %s > NOW()`,
		schema.UserAccount.Table,
		schema.UserAccount.Password, schema.UserAccount.ResetPasswordToken,
		schema.UserAccount.ResetPasswordExpiry, schema.UserAccount.RefreshToken,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ResetPasswordToken, schema.UserAccount.ResetPasswordExpiry,
	)

	tag, err := repository.pool.Exec(context, query, tokenHash, newPasswordHash)
	if err != nil {
		return false, dberr.Wrap(err, "User")
	}

	return tag.RowsAffected() == 1, nil
}

/*
UpdateDetails persists changes to the mutable profile fields.

Parameters:
  - context: context.Context
  - userID: string
  - fullName: string
  - email: string

Returns:
  - *User: The updated entity
  - error: apperr.NotFound, apperr.Conflict on a taken email, or database errors
*/
func (repository *PostgresUserRepository) UpdateDetails(context context.Context, userID, fullName, email string) (*User, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = NOW()
		WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.FullName,
		schema.UserAccount.Email, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	tag, err := repository.pool.Exec(context, query, userID, fullName, email)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	if tag.RowsAffected() == 0 {
		return nil, dberr.NotFound("User")
	}

	return repository.FindByID(context, userID)
}

/*
UpdateAvatar replaces the account's avatar URL.

Parameters:
  - context: context.Context
  - userID: string
  - avatarURL: string

Returns:
  - *User: The updated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) UpdateAvatar(context context.Context, userID, avatarURL string) (*User, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = NOW()
		WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.AvatarURL,
		schema.UserAccount.UpdatedAt, schema.UserAccount.ID,
	)

	tag, err := repository.pool.Exec(context, query, userID, avatarURL)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	if tag.RowsAffected() == 0 {
		return nil, dberr.NotFound("User")
	}

	return repository.FindByID(context, userID)
}
