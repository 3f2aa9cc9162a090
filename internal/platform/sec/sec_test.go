// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

package sec_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docvault/docvault/internal/platform/sec"
)

func newTokenService(accessTTL, refreshTTL time.Duration) *sec.TokenService {
	return sec.NewTokenService("access-secret", "refresh-secret", "docvault.app", accessTTL, refreshTTL)
}

/*
TestTokenService_AccessRoundTrip verifies that an issued access token carries
the identity claims back through verification.
*/
func TestTokenService_AccessRoundTrip(t *testing.T) {
	service := newTokenService(15*time.Minute, 7*24*time.Hour)

	token, err := service.IssueAccessToken("user-1", "dev@docvault.app", "sender01", "Dev Sender")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "dev@docvault.app", claims.Email)
	assert.Equal(t, "sender01", claims.Username)
	assert.Equal(t, "Dev Sender", claims.FullName)
	assert.Equal(t, "docvault.app", claims.Issuer)
}

/*
TestTokenService_Expiry verifies that an expired token is rejected with
ErrTokenExpired rather than a generic failure.
*/
func TestTokenService_Expiry(t *testing.T) {
	service := newTokenService(-1*time.Minute, -1*time.Minute)

	token, err := service.IssueAccessToken("user-1", "dev@docvault.app", "sender01", "Dev Sender")
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sec.ErrTokenExpired))
	assert.False(t, errors.Is(err, sec.ErrTokenInvalid))
}

/*
TestTokenService_SecretSeparation verifies that tokens signed with one secret
are rejected by the other verifier: a refresh token must never pass as an
access token.
*/
func TestTokenService_SecretSeparation(t *testing.T) {
	service := newTokenService(15*time.Minute, 7*24*time.Hour)

	refreshToken, err := service.IssueRefreshToken("user-1")
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(refreshToken)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sec.ErrTokenInvalid))

	claims, err := service.VerifyRefreshToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

/*
TestTokenService_UniqueTokens verifies that tokens minted back-to-back for
the same user are distinct strings. JWT timestamps have second granularity,
so without a per-token jti a login followed by an immediate refresh would
"rotate" to the identical value and the old token would stay valid.
*/
func TestTokenService_UniqueTokens(t *testing.T) {
	service := newTokenService(15*time.Minute, 7*24*time.Hour)

	firstRefresh, err := service.IssueRefreshToken("user-1")
	require.NoError(t, err)
	secondRefresh, err := service.IssueRefreshToken("user-1")
	require.NoError(t, err)
	assert.NotEqual(t, firstRefresh, secondRefresh)

	firstAccess, err := service.IssueAccessToken("user-1", "dev@docvault.app", "sender01", "Dev Sender")
	require.NoError(t, err)
	secondAccess, err := service.IssueAccessToken("user-1", "dev@docvault.app", "sender01", "Dev Sender")
	require.NoError(t, err)
	assert.NotEqual(t, firstAccess, secondAccess)

	// Both must still verify independently.
	for _, token := range []string{firstRefresh, secondRefresh} {
		claims, err := service.VerifyRefreshToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
	}
}

/*
TestTokenService_Tampering verifies rejection of forged and malformed tokens.
*/
func TestTokenService_Tampering(t *testing.T) {
	service := newTokenService(15*time.Minute, 7*24*time.Hour)
	forger := sec.NewTokenService("wrong-secret", "wrong-secret", "docvault.app", 15*time.Minute, time.Hour)

	forged, err := forger.IssueAccessToken("user-1", "dev@docvault.app", "sender01", "Dev Sender")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"wrong_secret", forged},
		{"garbage", "not-a-jwt"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.VerifyAccessToken(tt.token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, sec.ErrTokenInvalid))
		})
	}
}

/*
TestSignValue_RoundTrip verifies the signed cookie envelope: signing then
unsigning with the same secret yields the original value.
*/
func TestSignValue_RoundTrip(t *testing.T) {
	signed := sec.SignValue("cookie-secret", "token-value")
	require.NotEqual(t, "token-value", signed)

	value, ok := sec.UnsignValue("cookie-secret", signed)
	assert.True(t, ok)
	assert.Equal(t, "token-value", value)
}

/*
TestUnsignValue_Rejection verifies that tampered or foreign-secret cookie
values fail verification.
*/
func TestUnsignValue_Rejection(t *testing.T) {
	signed := sec.SignValue("cookie-secret", "token-value")

	tests := []struct {
		name   string
		secret string
		input  string
	}{
		{"wrong_secret", "other-secret", signed},
		{"tampered_value", "cookie-secret", "forged" + signed},
		{"no_signature", "cookie-secret", "token-value"},
		{"empty", "cookie-secret", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := sec.UnsignValue(tt.secret, tt.input)
			assert.False(t, ok)
		})
	}
}

/*
TestHashPassword verifies bcrypt hashing and comparison behavior.
*/
func TestHashPassword(t *testing.T) {
	hash, err := sec.HashPassword("S3curePassword!")
	require.NoError(t, err)
	require.NotEqual(t, "S3curePassword!", hash)

	assert.True(t, sec.CheckPasswordHash("S3curePassword!", hash))
	assert.False(t, sec.CheckPasswordHash("wrong-password", hash))
	assert.False(t, sec.CheckPasswordHash("S3curePassword!", "not-a-hash"))
}

/*
TestGenerateSecureToken verifies token generation length and uniqueness, and
that HashToken is deterministic and one-way shaped.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(20)
	require.NoError(t, err)
	second, err := sec.GenerateSecureToken(20)
	require.NoError(t, err)

	// 20 bytes hex-encoded
	assert.Len(t, first, 40)
	assert.NotEqual(t, first, second)

	assert.Equal(t, sec.HashToken(first), sec.HashToken(first))
	assert.NotEqual(t, sec.HashToken(first), sec.HashToken(second))
	assert.NotEqual(t, first, sec.HashToken(first))
}
