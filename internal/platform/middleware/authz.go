// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/docvault/docvault/internal/platform/apperr"
	"github.com/docvault/docvault/internal/platform/constants"
	"github.com/docvault/docvault/internal/platform/ctxutil"
	"github.com/docvault/docvault/internal/platform/respond"
	"github.com/docvault/docvault/internal/platform/sec"
)

// AccessVerifier defines the interface needed to verify access tokens
// in middleware.
//
// # Why an interface?
//
// Defining AccessVerifier here decouples the middleware from the token
// service implementation, allowing us to easily inject mocks during
// unit testing.
type AccessVerifier interface {
	VerifyAccessToken(tokenString string) (*sec.AccessClaims, error)
}

// IdentityResolver loads the current identity for a verified token subject.
//
// Resolution happens on every request so that deleted users lose access the
// moment their row disappears, regardless of how long their token lives.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID string) (*sec.Identity, error)
}

/*
Authenticate establishes the caller's identity for protected routes.

# Flow
 1. Read the signed access token cookie; fall back to 'Authorization:
    Bearer <token>' for non-browser clients.
 2. Verify the JWT signature and expiry via [AccessVerifier].
 3. Resolve the token subject to a live [*sec.Identity] via
    [IdentityResolver].
 4. Inject the identity into the request context for downstream use.

Every failure exit is a normalized 401; the response never distinguishes a
missing token from a bad one.
*/
func Authenticate(verifier AccessVerifier, resolver IdentityResolver, cookieSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Token Extraction ───────────────────────────────────────────
			tokenString, found := extractAccessToken(request, cookieSecret)
			if !found {
				respond.Error(writer, request, apperr.Unauthenticated("Authentication required"))
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyAccessToken(tokenString)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthenticated("Invalid or expired token"))
				return
			}

			// ── 3. Identity Resolution ────────────────────────────────────────
			identity, err := resolver.ResolveIdentity(request.Context(), claims.UserID)
			if err != nil || identity == nil {
				respond.Error(writer, request, apperr.Unauthenticated("Invalid or expired token"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireRole blocks requests whose authenticated identity carries none of
// the allowed roles.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.Identity] exists in context.
//  2. Check set membership of the identity's role among the allowed roles.
//  3. If excluded, abort with HTTP 403 Forbidden naming both sides.
func RequireRole(allowed ...sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthenticated("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !identity.Role.In(allowed...) {
				respond.Error(writer, request, apperr.Forbidden(
					"This action requires the "+roleList(allowed)+" role, but your role is "+string(identity.Role),
				))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// extractAccessToken pulls the raw JWT from the signed cookie or, failing
// that, the Authorization header.
func extractAccessToken(request *http.Request, cookieSecret string) (string, bool) {
	if cookie, err := request.Cookie(constants.AccessTokenCookieName); err == nil {
		if value, ok := sec.UnsignValue(cookieSecret, cookie.Value); ok && value != "" {
			return value, true
		}
	}

	authHeader := request.Header.Get(constants.HeaderAuthorization)
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}

	return parts[1], true
}

func roleList(roles []sec.UserRole) string {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	return strings.Join(names, " or ")
}
