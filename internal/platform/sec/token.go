// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns a cryptographically random hex string of
// byteLength random bytes (the string is twice that long).
//
// It is used for password-reset tokens, where the plaintext is delivered
// out-of-band and only its hash is persisted.
func GenerateSecureToken(byteLength int) (string, error) {
	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}

// HashToken returns the hex-encoded SHA-256 digest of a token.
//
// Reset tokens are high-entropy random values, so a fast unsalted hash is
// sufficient at rest; bcrypt is reserved for low-entropy user passwords.
func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}
