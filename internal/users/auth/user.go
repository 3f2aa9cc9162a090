// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

/*
Package auth implements the user identity and session management layer.

It defines the core domain entity (User) and logic for registration, login,
refresh-token rotation, and password recovery.

# Architecture

This layer is the "Truth" of the system. The entity defined here has no
external dependencies and encapsulates all business rules related to user
identity.
*/
package auth

import (
	"time"

	"github.com/docvault/docvault/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the DocVault platform.
//
// RefreshToken holds the single active refresh token for the account; a
// login or rotation replaces it wholesale, which caps every account at one
// live session chain.
type User struct {
	ID                  string       `json:"id"`
	Username            string       `json:"username"`
	Email               string       `json:"email"`
	FullName            string       `json:"fullName"`
	PasswordHash        string       `json:"-"` // Explicitly omitted from JSON for security.
	AvatarURL           string       `json:"avatar"`
	Role                sec.UserRole `json:"role"`
	RefreshToken        string       `json:"-"` // Current refresh token. Omitted for security.
	ResetPasswordToken  string       `json:"-"` // SHA-256 hash of the outstanding reset token.
	ResetPasswordExpiry *time.Time   `json:"-"`
	CreatedAt           time.Time    `json:"createdAt"`
	UpdatedAt           time.Time    `json:"updatedAt"`
}

// Identity maps the user to the request-scoped identity attached by the
// session middleware. Secrets never cross this boundary.
func (user *User) Identity() *sec.Identity {
	return &sec.Identity{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		AvatarURL: user.AvatarURL,
		Role:      user.Role,
	}
}

// # Field Identifiers

// Global field names for validation and identity mapping in the
// authentication domain.
const (
	FieldUsername    = "username"
	FieldLogin       = "login"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldFullName    = "fullName"
	FieldRole        = "role"
	FieldAvatar      = "avatar"
	FieldToken       = "token"
	FieldOldPassword = "oldPassword"
	FieldNewPassword = "newPassword"
)
