// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

package sec

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// Cookie signing detects tampering before any JWT parsing happens. The
// cookie value is "payload.signature" where the signature is an HMAC-SHA256
// of the payload under the cookie secret.

// SignValue returns the signed cookie representation of value.
func SignValue(secret, value string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(value))
	signature := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return value + "." + signature
}

// UnsignValue validates a signed cookie and returns the embedded value.
// The boolean result is false when the signature is missing or does not
// match, in which case the value must be discarded.
func UnsignValue(secret, signed string) (string, bool) {
	separator := strings.LastIndex(signed, ".")
	if separator < 0 {
		return "", false
	}

	value := signed[:separator]
	expected := SignValue(secret, value)

	// Constant-time comparison of the full signed string.
	if !hmac.Equal([]byte(expected), []byte(signed)) {
		return "", false
	}

	return value, true
}
