// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Security: JWT issuer and cookie names.
  - Uploads: Spool directory and body size caps.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "docvault-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	// Generous because document uploads arrive through the same server.
	DefaultReadTimeout = 60 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 60 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout caps the total handler time for any single request.
	// Matches the read timeout so slow uploads are not cut off mid-transfer.
	GlobalRequestTimeout = 60 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "docvault.app"

	// AccessTokenCookieName is the cookie that carries the short-lived access token.
	AccessTokenCookieName = "accessToken"

	// RefreshTokenCookieName is the cookie that carries the long-lived refresh token.
	RefreshTokenCookieName = "refreshToken"

	// AuthCookieMaxAge matches the refresh token lifetime (7 days).
	AuthCookieMaxAge = 7 * 24 * time.Hour
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldSuccess    = "success"
	FieldStatusCode = "statusCode"
	FieldMessage    = "message"
	FieldData       = "data"
	FieldErrors     = "errors"
	FieldStatus     = "status"
	FieldApp        = "app"
	FieldVersion    = "version"
	FieldChecks     = "checks"
)

// # Rate Limiting

const (
	// RateLimitKeyPrefix namespaces fixed-window counters in Redis.
	RateLimitKeyPrefix = "ratelimit:"
)

// # Database Schemas

const (
	SchemaUsers   = "users"
	SchemaRecords = "records"
)
