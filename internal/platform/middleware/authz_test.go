// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docvault/docvault/internal/platform/constants"
	"github.com/docvault/docvault/internal/platform/ctxutil"
	"github.com/docvault/docvault/internal/platform/middleware"
	"github.com/docvault/docvault/internal/platform/sec"
)

const cookieSecret = "test-cookie-secret"

// fakeVerifier accepts exactly one token string.
type fakeVerifier struct {
	validToken string
	claims     *sec.AccessClaims
}

func (verifier *fakeVerifier) VerifyAccessToken(tokenString string) (*sec.AccessClaims, error) {
	if tokenString != verifier.validToken {
		return nil, sec.ErrTokenInvalid
	}
	return verifier.claims, nil
}

// fakeResolver maps user IDs to identities.
type fakeResolver struct {
	identities map[string]*sec.Identity
}

func (resolver *fakeResolver) ResolveIdentity(_ context.Context, userID string) (*sec.Identity, error) {
	identity, ok := resolver.identities[userID]
	if !ok {
		return nil, errors.New("user not found")
	}
	return identity, nil
}

func newSessionGuard(role sec.UserRole) func(http.Handler) http.Handler {
	verifier := &fakeVerifier{
		validToken: "valid-token",
		claims:     &sec.AccessClaims{UserID: "user-1"},
	}
	resolver := &fakeResolver{
		identities: map[string]*sec.Identity{
			"user-1": {ID: "user-1", Username: "sender01", Role: role},
		},
	}
	return middleware.Authenticate(verifier, resolver, cookieSecret)
}

// okHandler reports whether the identity reached the protected handler.
func okHandler(sawIdentity *bool) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*sawIdentity = ctxutil.GetIdentity(request.Context()) != nil
		writer.WriteHeader(http.StatusOK)
	})
}

func decodeMessage(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	return body.Message
}

/*
TestAuthenticate walks the guard's failure ladder: no token, bad token,
unresolvable subject, then success via cookie and via bearer header.
*/
func TestAuthenticate(t *testing.T) {
	guard := newSessionGuard(sec.RoleSender)

	tests := []struct {
		name       string
		prepare    func(request *http.Request)
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "missing_token",
			prepare:    func(request *http.Request) {},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Authentication required",
		},
		{
			name: "invalid_bearer_token",
			prepare: func(request *http.Request) {
				request.Header.Set(constants.HeaderAuthorization, "Bearer forged-token")
			},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Invalid or expired token",
		},
		{
			name: "unsigned_cookie_ignored",
			prepare: func(request *http.Request) {
				// Raw token without the HMAC envelope must not authenticate.
				request.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: "valid-token"})
			},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Authentication required",
		},
		{
			name: "valid_signed_cookie",
			prepare: func(request *http.Request) {
				request.AddCookie(&http.Cookie{
					Name:  constants.AccessTokenCookieName,
					Value: sec.SignValue(cookieSecret, "valid-token"),
				})
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "valid_bearer_header",
			prepare: func(request *http.Request) {
				request.Header.Set(constants.HeaderAuthorization, "Bearer valid-token")
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sawIdentity := false
			request := httptest.NewRequest(http.MethodGet, "/protected", nil)
			tt.prepare(request)

			recorder := httptest.NewRecorder()
			guard(okHandler(&sawIdentity)).ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantStatus == http.StatusOK {
				assert.True(t, sawIdentity, "identity must be injected into context")
			} else {
				assert.Equal(t, tt.wantMsg, decodeMessage(t, recorder))
			}
		})
	}
}

/*
TestAuthenticate_DeletedUser verifies that a valid token for a vanished
account is rejected: resolution happens on every request.
*/
func TestAuthenticate_DeletedUser(t *testing.T) {
	verifier := &fakeVerifier{
		validToken: "valid-token",
		claims:     &sec.AccessClaims{UserID: "ghost"},
	}
	guard := middleware.Authenticate(verifier, &fakeResolver{identities: map[string]*sec.Identity{}}, cookieSecret)

	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.Header.Set(constants.HeaderAuthorization, "Bearer valid-token")

	recorder := httptest.NewRecorder()
	sawIdentity := false
	guard(okHandler(&sawIdentity)).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.False(t, sawIdentity)
}

/*
TestRequireRole checks the 403 in both directions plus the anonymous 401.
*/
func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		identity   *sec.Identity
		allowed    []sec.UserRole
		wantStatus int
	}{
		{"sender_allowed", &sec.Identity{ID: "u1", Role: sec.RoleSender}, []sec.UserRole{sec.RoleSender}, http.StatusOK},
		{"receiver_allowed", &sec.Identity{ID: "u2", Role: sec.RoleReceiver}, []sec.UserRole{sec.RoleReceiver}, http.StatusOK},
		{"sender_blocked_from_receiver", &sec.Identity{ID: "u1", Role: sec.RoleSender}, []sec.UserRole{sec.RoleReceiver}, http.StatusForbidden},
		{"receiver_blocked_from_sender", &sec.Identity{ID: "u2", Role: sec.RoleReceiver}, []sec.UserRole{sec.RoleSender}, http.StatusForbidden},
		{"either_role_passes", &sec.Identity{ID: "u2", Role: sec.RoleReceiver}, []sec.UserRole{sec.RoleSender, sec.RoleReceiver}, http.StatusOK},
		{"anonymous", nil, []sec.UserRole{sec.RoleSender}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/guarded", nil)
			if tt.identity != nil {
				request = request.WithContext(ctxutil.WithIdentity(request.Context(), tt.identity))
			}

			recorder := httptest.NewRecorder()
			sawIdentity := false
			middleware.RequireRole(tt.allowed...)(okHandler(&sawIdentity)).ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}

/*
TestRequireRole_Message verifies the 403 body names the required and actual
roles so clients can explain the denial.
*/
func TestRequireRole_Message(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	request = request.WithContext(ctxutil.WithIdentity(request.Context(), &sec.Identity{ID: "u1", Role: sec.RoleSender}))

	recorder := httptest.NewRecorder()
	sawIdentity := false
	middleware.RequireRole(sec.RoleReceiver)(okHandler(&sawIdentity)).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, "This action requires the receiver role, but your role is sender", decodeMessage(t, recorder))
}
