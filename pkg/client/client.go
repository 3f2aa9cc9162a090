// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

/*
Package client provides a session-aware HTTP client for the DocVault API.

It keeps the auth cookies in a jar and transparently recovers from access
token expiry: when a request comes back 401, the client refreshes the session
once and replays the original request once.

# Refresh Coalescing

Many in-flight requests can hit 401 at the same moment when the access token
expires. The client performs exactly ONE refresh call per such storm; every
other request blocks on the in-flight refresh and then replays. If the
refresh itself fails, all waiters receive the failure, the local session is
discarded, and the OnSessionExpired hook fires once.
*/
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"
)

// # Types

// Client talks to a DocVault API server on behalf of one session.
//
// It is safe for concurrent use by multiple goroutines.
type Client struct {
	httpClient *http.Client
	baseURL    string

	// refreshMu serializes refresh attempts; inflight carries the shared
	// outcome of the one refresh call per storm.
	refreshMu sync.Mutex
	inflight  *refreshAttempt

	onSessionExpired func()
}

// refreshAttempt is the shared state of one coalesced refresh call.
type refreshAttempt struct {
	done chan struct{}
	err  error
}

// Option customizes a [Client].
type Option func(*Client)

// WithHTTPClient substitutes the underlying transport, keeping the cookie
// jar the client was built with.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) {
		jar := client.httpClient.Jar
		client.httpClient = httpClient
		if client.httpClient.Jar == nil {
			client.httpClient.Jar = jar
		}
	}
}

// WithOnSessionExpired registers a hook invoked once per failed refresh,
// after local session state is discarded. UIs use it to force a login screen.
func WithOnSessionExpired(hook func()) Option {
	return func(client *Client) {
		client.onSessionExpired = hook
	}
}

// New constructs a [Client] for the given API base URL
// (e.g. "https://api.docvault.app").
func New(baseURL string, options ...Option) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("client: cookie jar: %w", err)
	}

	client := &Client{
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 60 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}

	for _, option := range options {
		option(client)
	}

	return client, nil
}

// # Envelope Types

// Envelope is the standard DocVault response wrapper.
type Envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Errors     []FieldError    `json:"errors,omitempty"`
	Meta       json.RawMessage `json:"meta,omitempty"`
}

// FieldError mirrors the server's per-field validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("docvault: %d %s", e.StatusCode, e.Message)
}

// IsAuthError reports whether err is an [*APIError] with status 401.
func IsAuthError(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusUnauthorized
}

// # Request Execution

/*
Get performs a GET request and decodes the envelope's data into out.

Parameters:
  - context: context.Context
  - path: API path including the version prefix (e.g. "/api/v1/users/me").
  - out: destination for the envelope's data field; may be nil.

Returns:
  - error: *APIError for server-reported failures, transport errors otherwise.
*/
func (client *Client) Get(context context.Context, path string, out any) error {
	return client.do(context, http.MethodGet, path, nil, out)
}

// Post performs a POST request with a JSON body, decoding data into out.
func (client *Client) Post(context context.Context, path string, body, out any) error {
	return client.do(context, http.MethodPost, path, body, out)
}

// Put performs a PUT request with a JSON body, decoding data into out.
func (client *Client) Put(context context.Context, path string, body, out any) error {
	return client.do(context, http.MethodPut, path, body, out)
}

// do runs the request once, and on a 401 refreshes the session and replays
// exactly once. Session lifecycle endpoints are exempt from auto-refresh:
// a 401 from login or refresh is final.
func (client *Client) do(ctx context.Context, method, path string, body, out any) error {
	envelope, err := client.send(ctx, method, path, body)
	if err != nil {
		return err
	}

	if envelope.StatusCode == http.StatusUnauthorized && !isSessionEndpoint(path) {
		if refreshErr := client.refreshSession(ctx); refreshErr != nil {
			return refreshErr
		}

		// Replay once with the rotated cookies.
		envelope, err = client.send(ctx, method, path, body)
		if err != nil {
			return err
		}
	}

	return decodeEnvelope(envelope, out)
}

// send executes one HTTP round trip and parses the response envelope.
func (client *Client) send(ctx context.Context, method, path string, body any) (*Envelope, error) {
	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("client: encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Accept", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	envelope := &Envelope{}
	if err := json.NewDecoder(response.Body).Decode(envelope); err != nil {
		return nil, fmt.Errorf("client: decode response: %w", err)
	}

	// Older proxies can strip the envelope's status; trust the wire status.
	if envelope.StatusCode == 0 {
		envelope.StatusCode = response.StatusCode
	}

	return envelope, nil
}

// decodeEnvelope converts a failure envelope into *APIError, or unpacks the
// data field on success.
func decodeEnvelope(envelope *Envelope, out any) error {
	if !envelope.Success {
		return &APIError{
			StatusCode: envelope.StatusCode,
			Message:    envelope.Message,
			Errors:     envelope.Errors,
		}
	}

	if out == nil || len(envelope.Data) == 0 {
		return nil
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("client: decode data: %w", err)
	}

	return nil
}

// # Session Refresh

/*
refreshSession coalesces concurrent refresh attempts into one network call.

The first caller in a storm becomes the leader: it performs the refresh and
publishes the outcome on the shared attempt. Every other caller finds the
in-flight attempt and blocks on it. The attempt slot is cleared before the
outcome is published, so a later 401 starts a fresh storm.
*/
func (client *Client) refreshSession(ctx context.Context) error {
	client.refreshMu.Lock()

	if attempt := client.inflight; attempt != nil {
		// Follower: wait for the leader's outcome.
		client.refreshMu.Unlock()
		select {
		case <-attempt.done:
			return attempt.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	attempt := &refreshAttempt{done: make(chan struct{})}
	client.inflight = attempt
	client.refreshMu.Unlock()

	err := client.callRefresh(ctx)

	client.refreshMu.Lock()
	client.inflight = nil
	client.refreshMu.Unlock()

	if err != nil {
		client.expireSession()
	}

	attempt.err = err
	close(attempt.done)
	return err
}

// callRefresh performs the actual refresh-token exchange. Cookies rotate
// inside the jar as a side effect of the Set-Cookie response headers.
func (client *Client) callRefresh(ctx context.Context) error {
	envelope, err := client.send(ctx, http.MethodPost, "/api/v1/users/refresh-token", nil)
	if err != nil {
		return err
	}
	return decodeEnvelope(envelope, nil)
}

// expireSession discards local session state and fires the expiry hook.
func (client *Client) expireSession() {
	if jar, err := cookiejar.New(nil); err == nil {
		client.httpClient.Jar = jar
	}
	if client.onSessionExpired != nil {
		client.onSessionExpired()
	}
}

// isSessionEndpoint reports whether path manages the session itself.
func isSessionEndpoint(path string) bool {
	switch {
	case strings.HasSuffix(path, "/users/login"),
		strings.HasSuffix(path, "/users/logout"),
		strings.HasSuffix(path, "/users/refresh-token"):
		return true
	}
	return false
}
