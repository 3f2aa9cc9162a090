// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docvault/docvault/pkg/client"
)

// fakeAPI is an in-memory DocVault API that tracks refresh traffic.
//
// /api/v1/users/me answers 401 until /api/v1/users/refresh-token has been
// called; the refresh handler sleeps so concurrent 401s pile into one storm.
type fakeAPI struct {
	refreshed    atomic.Bool
	refreshCalls atomic.Int64
	refreshFails bool
	refreshDelay time.Duration

	// storm holds /me responses until stormSize requests have arrived, so
	// every goroutine observes the 401 at the same moment.
	stormSize  int64
	stormCount atomic.Int64
	stormGate  chan struct{}
	stormOnce  sync.Once
}

func (api *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/users/refresh-token", func(writer http.ResponseWriter, request *http.Request) {
		api.refreshCalls.Add(1)
		if api.refreshDelay > 0 {
			time.Sleep(api.refreshDelay)
		}
		if api.refreshFails {
			writeEnvelope(writer, http.StatusUnauthorized, false, "Refresh token has already been used", nil)
			return
		}
		api.refreshed.Store(true)
		writeEnvelope(writer, http.StatusOK, true, "Access token refreshed", nil)
	})

	mux.HandleFunc("/api/v1/users/me", func(writer http.ResponseWriter, request *http.Request) {
		if api.stormGate != nil && !api.refreshed.Load() {
			if api.stormCount.Add(1) >= api.stormSize {
				api.stormOnce.Do(func() { close(api.stormGate) })
			}
			<-api.stormGate
		}
		if !api.refreshed.Load() {
			writeEnvelope(writer, http.StatusUnauthorized, false, "Invalid or expired token", nil)
			return
		}
		writeEnvelope(writer, http.StatusOK, true, "Current user fetched successfully", map[string]string{
			"id":       "0198f2c2-0000-7000-8000-000000000001",
			"username": "sender01",
			"role":     "sender",
		})
	})

	mux.HandleFunc("/api/v1/users/login", func(writer http.ResponseWriter, request *http.Request) {
		writeEnvelope(writer, http.StatusNotFound, false, "User not found", nil)
	})

	return mux
}

func writeEnvelope(writer http.ResponseWriter, status int, success bool, message string, data any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(map[string]any{
		"success":    success,
		"statusCode": status,
		"message":    message,
		"data":       data,
	})
}

/*
TestClient_RefreshCoalescing proves that an expiry storm produces exactly one
refresh call: concurrent 401s block on the in-flight refresh, then every
original request is replayed once and succeeds.
*/
func TestClient_RefreshCoalescing(t *testing.T) {
	const goroutines = 10

	api := &fakeAPI{
		refreshDelay: 50 * time.Millisecond,
		stormSize:    goroutines,
		stormGate:    make(chan struct{}),
	}
	server := httptest.NewServer(api.handler())
	defer server.Close()

	c, err := client.New(server.URL)
	require.NoError(t, err)

	var group sync.WaitGroup
	errs := make([]error, goroutines)
	for i := 0; i < goroutines; i++ {
		group.Add(1)
		go func(i int) {
			defer group.Done()
			_, errs[i] = c.Me(context.Background())
		}(i)
	}
	group.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "request %d", i)
	}
	assert.Equal(t, int64(1), api.refreshCalls.Load(), "one refresh per storm")
}

/*
TestClient_RefreshFailure checks that a failed refresh propagates to every
waiter, clears the session, and fires the expiry hook exactly once.
*/
func TestClient_RefreshFailure(t *testing.T) {
	const goroutines = 5

	api := &fakeAPI{
		refreshFails: true,
		refreshDelay: 50 * time.Millisecond,
		stormSize:    goroutines,
		stormGate:    make(chan struct{}),
	}
	server := httptest.NewServer(api.handler())
	defer server.Close()

	var expired atomic.Int64
	c, err := client.New(server.URL, client.WithOnSessionExpired(func() {
		expired.Add(1)
	}))
	require.NoError(t, err)

	var group sync.WaitGroup
	errs := make([]error, goroutines)
	for i := 0; i < goroutines; i++ {
		group.Add(1)
		go func(i int) {
			defer group.Done()
			_, errs[i] = c.Me(context.Background())
		}(i)
	}
	group.Wait()

	for i, err := range errs {
		require.Error(t, err, "request %d", i)
		assert.True(t, client.IsAuthError(err), "request %d", i)
	}
	assert.Equal(t, int64(1), api.refreshCalls.Load())
	assert.Equal(t, int64(1), expired.Load())
}

/*
TestClient_SessionEndpointsNotRetried verifies that a 401 from a session
lifecycle endpoint is final: the client must not attempt a refresh for it.
*/
func TestClient_SessionEndpointsNotRetried(t *testing.T) {
	api := &fakeAPI{}
	server := httptest.NewServer(api.handler())
	defer server.Close()

	c, err := client.New(server.URL)
	require.NoError(t, err)

	_, err = c.Login(context.Background(), "ghost", "password123")
	require.Error(t, err)

	apiErr, ok := err.(*client.APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "User not found", apiErr.Message)
	assert.Equal(t, int64(0), api.refreshCalls.Load(), "login 401/404 must not trigger refresh")
}

/*
TestClient_EnvelopeDecoding covers the translation of failure envelopes into
APIError values, including per-field validation details.
*/
func TestClient_EnvelopeDecoding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusBadRequest)
		_, _ = writer.Write([]byte(`{
			"success": false,
			"statusCode": 400,
			"message": "Validation failed",
			"errors": [{"field": "email", "message": "Invalid email format"}]
		}`))
	}))
	defer server.Close()

	c, err := client.New(server.URL)
	require.NoError(t, err)

	err = c.Post(context.Background(), "/api/v1/users/register", map[string]string{}, nil)
	require.Error(t, err)

	apiErr, ok := err.(*client.APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Validation failed", apiErr.Message)
	require.Len(t, apiErr.Errors, 1)
	assert.Equal(t, "email", apiErr.Errors[0].Field)
	assert.False(t, client.IsAuthError(err))
}
