// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

package auth

import (
	"net/http"
	"time"

	"github.com/docvault/docvault/internal/platform/constants"
	"github.com/docvault/docvault/internal/platform/sec"
)

// # Cookie Handling

// CookieBaker writes and clears the signed, httpOnly auth cookies.
//
// Values are HMAC-signed before they leave the server; a tampered cookie
// fails the signature check and reads as absent. In production the cookies
// are Secure with SameSite=None so the browser sends them from the
// cross-origin frontend; in development they fall back to Lax over plain
// HTTP.
type CookieBaker struct {
	secret string
	secure bool
	maxAge time.Duration
}

// NewCookieBaker builds the baker for the current environment.
func NewCookieBaker(secret string, production bool) CookieBaker {
	return CookieBaker{
		secret: secret,
		secure: production,
		maxAge: constants.AuthCookieMaxAge,
	}
}

// SetTokenPair writes both auth cookies for the session.
func (baker CookieBaker) SetTokenPair(writer http.ResponseWriter, accessToken, refreshToken string) {
	baker.set(writer, constants.AccessTokenCookieName, accessToken)
	baker.set(writer, constants.RefreshTokenCookieName, refreshToken)
}

// Clear expires both auth cookies on the client.
func (baker CookieBaker) Clear(writer http.ResponseWriter) {
	baker.clear(writer, constants.AccessTokenCookieName)
	baker.clear(writer, constants.RefreshTokenCookieName)
}

// ReadSigned extracts and verifies a signed cookie value.
func (baker CookieBaker) ReadSigned(request *http.Request, name string) (string, bool) {
	cookie, err := request.Cookie(name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return sec.UnsignValue(baker.secret, cookie.Value)
}

// Secret exposes the signing secret for the session middleware.
func (baker CookieBaker) Secret() string {
	return baker.secret
}

func (baker CookieBaker) set(writer http.ResponseWriter, name, value string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    sec.SignValue(baker.secret, value),
		Path:     "/",
		MaxAge:   int(baker.maxAge / time.Second),
		Secure:   baker.secure,
		HttpOnly: true,
		SameSite: baker.sameSite(),
	})
}

func (baker CookieBaker) clear(writer http.ResponseWriter, name string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   baker.secure,
		HttpOnly: true,
		SameSite: baker.sameSite(),
	})
}

// SameSite=None requires Secure; browsers drop the cookie otherwise.
func (baker CookieBaker) sameSite() http.SameSite {
	if baker.secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
