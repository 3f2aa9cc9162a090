// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docvault/docvault/internal/platform/constants"
	"github.com/docvault/docvault/internal/users/auth"
)

// cookiesFromRecorder parses the Set-Cookie headers into a name-keyed map.
func cookiesFromRecorder(recorder *httptest.ResponseRecorder) map[string]*http.Cookie {
	result := make(map[string]*http.Cookie)
	for _, cookie := range recorder.Result().Cookies() {
		result[cookie.Name] = cookie
	}
	return result
}

/*
TestCookieBaker_SetTokenPair verifies both auth cookies are written signed,
httpOnly, and with the environment-appropriate SameSite policy.
*/
func TestCookieBaker_SetTokenPair(t *testing.T) {
	tests := []struct {
		name         string
		production   bool
		wantSecure   bool
		wantSameSite http.SameSite
	}{
		{"development", false, false, http.SameSiteLaxMode},
		{"production", true, true, http.SameSiteNoneMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baker := auth.NewCookieBaker("cookie-secret", tt.production)

			recorder := httptest.NewRecorder()
			baker.SetTokenPair(recorder, "access-value", "refresh-value")

			cookies := cookiesFromRecorder(recorder)
			require.Contains(t, cookies, constants.AccessTokenCookieName)
			require.Contains(t, cookies, constants.RefreshTokenCookieName)

			for _, cookie := range cookies {
				assert.True(t, cookie.HttpOnly)
				assert.Equal(t, "/", cookie.Path)
				assert.Equal(t, tt.wantSecure, cookie.Secure)
				assert.Equal(t, tt.wantSameSite, cookie.SameSite)
				assert.Positive(t, cookie.MaxAge)
			}

			// Raw token values never appear on the wire unsigned.
			access := cookies[constants.AccessTokenCookieName]
			assert.NotEqual(t, "access-value", access.Value)
		})
	}
}

/*
TestCookieBaker_ReadSigned verifies the sign/verify round trip and the
rejection of tampered values.
*/
func TestCookieBaker_ReadSigned(t *testing.T) {
	baker := auth.NewCookieBaker("cookie-secret", false)

	recorder := httptest.NewRecorder()
	baker.SetTokenPair(recorder, "access-value", "refresh-value")
	signed := cookiesFromRecorder(recorder)[constants.RefreshTokenCookieName].Value

	t.Run("round_trip", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		request.AddCookie(&http.Cookie{Name: constants.RefreshTokenCookieName, Value: signed})

		value, ok := baker.ReadSigned(request, constants.RefreshTokenCookieName)
		assert.True(t, ok)
		assert.Equal(t, "refresh-value", value)
	})

	t.Run("tampered", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		request.AddCookie(&http.Cookie{Name: constants.RefreshTokenCookieName, Value: "forged" + signed})

		_, ok := baker.ReadSigned(request, constants.RefreshTokenCookieName)
		assert.False(t, ok)
	})

	t.Run("missing", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		_, ok := baker.ReadSigned(request, constants.RefreshTokenCookieName)
		assert.False(t, ok)
	})

	t.Run("foreign_secret", func(t *testing.T) {
		other := auth.NewCookieBaker("other-secret", false)
		request := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		request.AddCookie(&http.Cookie{Name: constants.RefreshTokenCookieName, Value: signed})

		_, ok := other.ReadSigned(request, constants.RefreshTokenCookieName)
		assert.False(t, ok)
	})
}

/*
TestCookieBaker_Clear verifies both cookies are expired on logout.
*/
func TestCookieBaker_Clear(t *testing.T) {
	baker := auth.NewCookieBaker("cookie-secret", true)

	recorder := httptest.NewRecorder()
	baker.Clear(recorder)

	cookies := cookiesFromRecorder(recorder)
	require.Len(t, cookies, 2)
	for _, cookie := range cookies {
		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge)
	}
}
