// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

package auth

import "time"

// # Authentication Constraints

const (
	// ResetTokenTTL is the duration a password reset token remains valid.
	// Short-lived (1 hour) for security.
	ResetTokenTTL = 1 * time.Hour

	// ResetTokenLength is the byte length of the random password reset token.
	ResetTokenLength = 20

	// AvatarFolder is the blob storage prefix for profile images.
	AvatarFolder = "avatars"
)
