// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

package sec

import "strings"

// # User Roles

// UserRole represents the authorization level granted to an account.
//
// DocVault has exactly two roles with no hierarchy between them: senders
// publish documents, receivers browse them. Authorization is therefore set
// membership, never a numeric comparison.
type UserRole string

const (
	// Uploads and manages their own document records
	RoleSender UserRole = "sender"

	// Browses every published document record
	RoleReceiver UserRole = "receiver"
)

// ParseRole normalizes a raw string into a [UserRole].
// The boolean result reports whether the value is a known role.
func ParseRole(raw string) (UserRole, bool) {
	role := UserRole(strings.ToLower(strings.TrimSpace(raw)))
	switch role {
	case RoleSender, RoleReceiver:
		return role, true
	}
	return "", false
}

// In reports whether the role is a member of the allowed set.
func (r UserRole) In(allowed ...UserRole) bool {
	for _, candidate := range allowed {
		if r == candidate {
			return true
		}
	}
	return false
}

// # Resolved Identity

// Identity is the authenticated principal attached to a request context by
// the session middleware. It mirrors the user record WITHOUT secret fields:
// the password hash and the stored refresh token never enter the context.
type Identity struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FullName  string   `json:"fullname"`
	AvatarURL string   `json:"avatar"`
	Role      UserRole `json:"role"`
}
