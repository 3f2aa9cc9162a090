// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

/*
Package auth implements the core identity and access management system.

It handles everything from user registration and secure password hashing to
refresh-token rotation and password recovery.

Architecture:

  - Service: Orchestrates business logic (Register, Login, Refresh).
  - Repository: Abstracted interface over Postgres (users.account).
  - Security: Leverages bcrypt hashing and HMAC-signed JWT pairs.

The package ensures that identity data remains consistent and secure
throughout the platform's lifecycle.
*/
package auth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/docvault/docvault/internal/platform/apperr"
	"github.com/docvault/docvault/internal/platform/blob"
	"github.com/docvault/docvault/internal/platform/sec"
	"github.com/docvault/docvault/internal/platform/upload"
	"github.com/docvault/docvault/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer defines the contract for minting the access/refresh token pair.
type TokenIssuer interface {
	// IssueAccessToken creates a signed, short-lived JWT carrying the user's
	// public claims.
	IssueAccessToken(userID, email, username, fullName string) (string, error)

	// IssueRefreshToken creates a signed, long-lived JWT carrying only the
	// user ID.
	IssueRefreshToken(userID string) (string, error)

	// RefreshTokenTTL reports the configured refresh token lifetime.
	RefreshTokenTTL() time.Duration
}

// BlobStore defines the contract for durable avatar storage.
type BlobStore interface {
	Upload(context context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(context context.Context, fileURL string) error
}

// ResetMailer defines the contract for delivering password reset links.
type ResetMailer interface {
	Configured() bool
	SendPasswordReset(to, resetURL string) error
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or token rotation logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	tokenIssuer    TokenIssuer
	blobStore      BlobStore
	mailer         ResetMailer

	frontendBaseURL string
	development     bool
	logger          *slog.Logger
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	tokenIssuer TokenIssuer,
	blobStore BlobStore,
	mailer ResetMailer,
	frontendBaseURL string,
	development bool,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository:  userRepo,
		tokenIssuer:     tokenIssuer,
		blobStore:       blobStore,
		mailer:          mailer,
		frontendBaseURL: frontendBaseURL,
		development:     development,
		logger:          logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Password string
	Role     sec.UserRole
	Avatar   *upload.File
}

/*
Register validates, hashes, and persists a brand new user account.

Description: The avatar is uploaded to blob storage BEFORE the account row is
created. When the upload fails, no user row exists; when the insert fails,
the uploaded avatar is removed again. Either way the system never holds a
half-registered account.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: Conflict (if identity exists), upload failures, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Usernames and emails are case-insensitive. Normalized once here so
	// "Alice" and "alice" resolve to the same account everywhere downstream.
	input.Username = strings.ToLower(input.Username)
	input.Email = strings.ToLower(input.Email)

	// Verify email uniqueness. Return a client-safe Conflict error.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Verify username uniqueness. Return a client-safe Conflict error.
	_, err = service.userRepository.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Upload the avatar first. A failed upload aborts the whole registration.
	avatarReader, err := input.Avatar.Open()
	if err != nil {
		return nil, apperr.Internal("Failed to read uploaded avatar", err)
	}
	defer avatarReader.Close()

	avatarKey := objectKeyForAvatar(input.Avatar.OriginalName)
	avatarURL, err := service.blobStore.Upload(context, avatarKey, input.Avatar.ContentType, avatarReader)
	if err != nil {
		return nil, apperr.Internal("Avatar upload failed", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: hashedPassword,
		AvatarURL:    avatarURL,
		Role:         input.Role,
	}

	// Persist the user to the database. On failure the orphaned avatar is
	// removed so the bucket does not accumulate unreferenced objects.
	if err := service.userRepository.Create(context, user); err != nil {
		_ = service.blobStore.Delete(context, avatarURL)
		return nil, err
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login    string // Can be Username or Email
	Password string
}

// TokenPair represents a successfully established session.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	User         *User
}

/*
Login validates user credentials and issues a fresh token pair.

Description: Verifies identity via constant-time password comparison, then
stores the new refresh token on the account row, displacing any previous
session.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *TokenPair: Transport-ready session credentials
  - error: NotFound for an unknown login, BadRequest for a wrong password
*/
func (service *Service) Login(context context.Context, input LoginInput) (*TokenPair, error) {

	// Flexible login: look up by Email or Username. Lowercased to match the
	// normalized form stored at registration.
	login := strings.ToLower(input.Login)
	user, err := service.userRepository.FindByEmail(context, login)
	if err != nil {
		user, err = service.userRepository.FindByUsername(context, login)
	}
	if err != nil {
		return nil, apperr.NotFound("User")
	}

	// Constant-time comparison in bcrypt prevents timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.BadRequest("Incorrect password")
	}

	return service.issueTokenPair(context, user, "")
}

/*
Logout invalidates the caller's refresh token.

Description: Idempotent. A missing account or an already-cleared token still
counts as a successful logout.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Storage failures only
*/
func (service *Service) Logout(context context.Context, userID string) error {
	if err := service.userRepository.ClearRefreshToken(context, userID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

// # Session Management

/*
Refresh implements the refresh-token rotation mechanism.

Description: Verifies the presented token's signature and expiry, confirms it
is the exact token stored on the account, and swaps it for a fresh pair via a
compare-and-set update. A token that fails the stored-token comparison was
either already rotated or stolen; both cases yield the same 401.

Parameters:
  - context: context.Context
  - refreshToken: string (verbatim token from cookie or body)
  - verify: func to validate the token signature and extract the subject

Returns:
  - *TokenPair: New session credentials
  - error: Unauthenticated on any verification or rotation failure
*/
func (service *Service) Refresh(context context.Context, refreshToken string, verify func(string) (*sec.RefreshClaims, error)) (*TokenPair, error) {

	claims, err := verify(refreshToken)
	if err != nil {
		return nil, apperr.Unauthenticated("Invalid or expired refresh token")
	}

	user, err := service.userRepository.FindByID(context, claims.UserID)
	if err != nil {
		return nil, apperr.Unauthenticated("Invalid or expired refresh token")
	}

	// Exact-equality check against the stored token. A signature-valid token
	// that is not the stored one has been rotated out from under the caller.
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		service.logger.Warn("refresh token reuse detected", slog.String("user_id", user.ID))
		return nil, apperr.Unauthenticated("Refresh token has already been used")
	}

	return service.issueTokenPair(context, user, refreshToken)
}

// issueTokenPair mints both tokens and persists the refresh token.
//
// When previousToken is non-empty the persist step is a compare-and-set swap,
// so two concurrent refreshes of the same token produce exactly one winner.
func (service *Service) issueTokenPair(context context.Context, user *User, previousToken string) (*TokenPair, error) {
	accessToken, err := service.tokenIssuer.IssueAccessToken(user.ID, user.Email, user.Username, user.FullName)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokenIssuer.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	if previousToken == "" {
		if err := service.userRepository.SetRefreshToken(context, user.ID, refreshToken); err != nil {
			return nil, fmt.Errorf("auth_service_store_refresh_token_failed: %w", err)
		}
	} else {
		rotated, err := service.userRepository.RotateRefreshToken(context, user.ID, previousToken, refreshToken)
		if err != nil {
			return nil, fmt.Errorf("auth_service_rotate_refresh_token_failed: %w", err)
		}
		if !rotated {
			// Lost the race: another request already swapped this token.
			return nil, apperr.Unauthenticated("Refresh token has already been used")
		}
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

/*
CurrentUser resolves the full account behind an authenticated identity.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *User: Hydrated entity
  - error: NotFound or storage failures
*/
func (service *Service) CurrentUser(context context.Context, userID string) (*User, error) {
	return service.userRepository.FindByID(context, userID)
}

// ResolveIdentity implements the session middleware's identity lookup.
// Deleted accounts resolve to an error, which the middleware turns into 401.
func (service *Service) ResolveIdentity(context context.Context, userID string) (*sec.Identity, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user.Identity(), nil
}

// # Password Management

/*
ChangePassword allows an authenticated user to update their credentials.

Parameters:
  - context: context.Context
  - userID: string
  - oldPassword: string
  - newPassword: string

Returns:
  - error: BadRequest on a wrong old password, or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, oldPassword, newPassword string) error {

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	// Verify the current password before allowing change
	if !sec.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return apperr.BadRequest("Incorrect old password")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	return nil
}

// # Password Recovery

// ResetRequestResult carries the outcome of a forgot-password request.
//
// DevToken is populated ONLY in development when no mailer is configured; it
// lets local clients complete the flow without an SMTP server. It is never
// set in production.
type ResetRequestResult struct {
	DevToken string
}

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Generates a secure token, stores only its SHA-256 hash with a
one-hour expiry, and emails the plaintext link. Whether the email exists or
not, the caller gets the same successful result, preventing enumeration.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *ResetRequestResult: Always non-nil on success
  - error: Token generation or storage failures
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) (*ResetRequestResult, error) {

	// Unknown email: identical outcome, nothing stored.
	user, err := service.userRepository.FindByEmail(context, strings.ToLower(email))
	if err != nil {
		return &ResetRequestResult{}, nil
	}

	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	// Only the hash is persisted; a database leak does not expose live links.
	expiresAt := time.Now().Add(ResetTokenTTL)
	if err := service.userRepository.SetResetToken(context, user.ID, sec.HashToken(token), expiresAt); err != nil {
		return nil, fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	if service.mailer.Configured() {
		resetURL := service.frontendBaseURL + "/reset-password/" + token
		if err := service.mailer.SendPasswordReset(user.Email, resetURL); err != nil {
			service.logger.Error("reset email delivery failed",
				slog.String("user_id", user.ID),
				slog.Any("error", err),
			)
		}
		return &ResetRequestResult{}, nil
	}

	if service.development {
		return &ResetRequestResult{DevToken: token}, nil
	}

	service.logger.Warn("password reset requested but no mailer configured",
		slog.String("user_id", user.ID),
	)
	return &ResetRequestResult{}, nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Hashes the presented token and consumes it atomically. The
consuming UPDATE also revokes the refresh token, so every open session dies
with the old password.

Parameters:
  - context: context.Context
  - token: string (plaintext token from the emailed link)
  - newPassword: string

Returns:
  - error: BadRequest on an unknown, expired, or already-used token
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	consumed, err := service.userRepository.ConsumeResetToken(context, sec.HashToken(token), hashedPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}
	if !consumed {
		return apperr.BadRequest("Reset token is invalid or has expired")
	}

	return nil
}

// # Profile Management

/*
UpdateDetails changes the account's full name and email.

Parameters:
  - context: context.Context
  - userID: string
  - fullName: string
  - email: string

Returns:
  - *User: The updated entity
  - error: Conflict on a taken email, NotFound, or storage failures
*/
func (service *Service) UpdateDetails(context context.Context, userID, fullName, email string) (*User, error) {
	return service.userRepository.UpdateDetails(context, userID, fullName, strings.ToLower(email))
}

/*
UpdateAvatar replaces the account's profile image.

Description: Uploads the new image first, then swaps the URL on the row. The
displaced image is deleted in the background; a failed cleanup only leaks one
orphaned object and is not worth failing the request over.

Parameters:
  - context: context.Context
  - userID: string
  - avatar: *upload.File

Returns:
  - *User: The updated entity
  - error: Upload or storage failures
*/
func (service *Service) UpdateAvatar(context context.Context, userID string, avatar *upload.File) (*User, error) {

	current, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	avatarReader, err := avatar.Open()
	if err != nil {
		return nil, apperr.Internal("Failed to read uploaded avatar", err)
	}
	defer avatarReader.Close()

	avatarKey := objectKeyForAvatar(avatar.OriginalName)
	avatarURL, err := service.blobStore.Upload(context, avatarKey, avatar.ContentType, avatarReader)
	if err != nil {
		return nil, apperr.Internal("Avatar upload failed", err)
	}

	updated, err := service.userRepository.UpdateAvatar(context, userID, avatarURL)
	if err != nil {
		_ = service.blobStore.Delete(context, avatarURL)
		return nil, err
	}

	if previous := current.AvatarURL; previous != "" && previous != avatarURL {
		go func() {
			cleanupCtx, cancel := stdContextWithTimeout()
			defer cancel()
			if err := service.blobStore.Delete(cleanupCtx, previous); err != nil {
				service.logger.Warn("old avatar cleanup failed",
					slog.String("user_id", userID),
					slog.Any("error", err),
				)
			}
		}()
	}

	return updated, nil
}

// stdContextWithTimeout bounds background blob cleanup independently of the
// originating request context, which is already canceled by then.
func stdContextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// objectKeyForAvatar namespaces avatar uploads inside the bucket.
func objectKeyForAvatar(originalName string) string {
	return blob.ObjectKey(AvatarFolder, originalName)
}
