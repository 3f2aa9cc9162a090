// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		SetRefreshToken replaces the account's active refresh token.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - refreshToken: string

		Returns:
		  - error: Persistence failures
	*/
	SetRefreshToken(context context.Context, userID, refreshToken string) error

	/*
		RotateRefreshToken swaps oldToken for newToken in a single compare-and-set
		statement. When two refresh attempts race on the same token, exactly one
		swap succeeds; the loser observes rotated=false.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - oldToken: string (the token presented by the client)
		  - newToken: string (the freshly issued replacement)

		Returns:
		  - bool: true when the stored token matched oldToken and was replaced
		  - error: Persistence failures
	*/
	RotateRefreshToken(context context.Context, userID, oldToken, newToken string) (bool, error)

	/*
		ClearRefreshToken invalidates the account's refresh token on logout.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	ClearRefreshToken(context context.Context, userID string) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error

	/*
		SetResetToken stores the hash of an outstanding password reset token
		together with its expiry. A newer request overwrites any earlier one.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - tokenHash: string (SHA-256 hex of the plaintext token)
		  - expiresAt: time.Time

		Returns:
		  - error: Persistence failures
	*/
	SetResetToken(context context.Context, userID, tokenHash string, expiresAt time.Time) error

	/*
		ConsumeResetToken completes a password reset in one atomic statement: it
		matches the unexpired token hash, writes the new password hash, clears
		the reset columns, and revokes the refresh token.

		Parameters:
		  - context: context.Context
		  - tokenHash: string
		  - newPasswordHash: string

		Returns:
		  - bool: true when an unexpired token matched; false means the token is
		    unknown, expired, or already used
		  - error: Persistence failures
	*/
	ConsumeResetToken(context context.Context, tokenHash, newPasswordHash string) (bool, error)

	/*
		UpdateDetails persists changes to the mutable profile fields.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - fullName: string
		  - email: string

		Returns:
		  - *User: The updated entity
		  - error: Persistence failures
	*/
	UpdateDetails(context context.Context, userID, fullName, email string) (*User, error)

	/*
		UpdateAvatar replaces the account's avatar URL.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - avatarURL: string

		Returns:
		  - *User: The updated entity
		  - error: Persistence failures
	*/
	UpdateAvatar(context context.Context, userID, avatarURL string) (*User, error)
}
