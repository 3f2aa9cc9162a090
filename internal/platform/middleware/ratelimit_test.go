// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/docvault/docvault/internal/platform/middleware"
)

// scriptedRedis answers INCR, EXPIRE, and DEL in-process through the go-redis
// hook chain, so limiter behavior can be pinned without a Redis server.
type scriptedRedis struct {
	count      atomic.Int64
	failIncr   bool
	failExpire bool
	armed      atomic.Bool
	deleted    atomic.Bool
}

func (script *scriptedRedis) DialHook(next redis.DialHook) redis.DialHook { return next }

func (script *scriptedRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (script *scriptedRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		switch cmd.Name() {
		case "incr":
			if script.failIncr {
				return errors.New("connection refused")
			}
			cmd.(*redis.IntCmd).SetVal(script.count.Add(1))
		case "expire":
			if script.failExpire {
				return errors.New("connection reset by peer")
			}
			script.armed.Store(true)
			cmd.(*redis.BoolCmd).SetVal(true)
		case "del":
			script.deleted.Store(true)
			script.count.Store(0)
			cmd.(*redis.IntCmd).SetVal(1)
		}
		return nil
	}
}

func newLimitedHandler(script *scriptedRedis, maxRequests int) http.Handler {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	client.AddHook(script)

	limited := middleware.RateLimit(client, time.Minute, maxRequests)
	return limited(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNoContent)
	}))
}

func hitLimiter(handler http.Handler) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))
	return recorder
}

/*
TestRateLimit_WindowCounting verifies that requests under the limit pass, the
request over the limit is rejected with 429, and the first hit arms the
window expiry.
*/
func TestRateLimit_WindowCounting(t *testing.T) {
	script := &scriptedRedis{}
	handler := newLimitedHandler(script, 2)

	first := hitLimiter(handler)
	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.True(t, script.armed.Load())

	second := hitLimiter(handler)
	assert.Equal(t, http.StatusNoContent, second.Code)

	third := hitLimiter(handler)
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
}

/*
TestRateLimit_FailsOpenOnIncr verifies that an unreachable Redis lets the
request through instead of taking the API down with the limiter.
*/
func TestRateLimit_FailsOpenOnIncr(t *testing.T) {
	script := &scriptedRedis{failIncr: true}
	handler := newLimitedHandler(script, 1)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, hitLimiter(handler).Code)
	}
}

/*
TestRateLimit_FailsOpenOnExpire verifies the first-hit failure mode: when the
expiry cannot be armed after a successful INCR, the counter key is dropped and
the request passes. An unexpired counter would otherwise throttle the caller
forever.
*/
func TestRateLimit_FailsOpenOnExpire(t *testing.T) {
	script := &scriptedRedis{failExpire: true}
	handler := newLimitedHandler(script, 1)

	assert.Equal(t, http.StatusNoContent, hitLimiter(handler).Code)
	assert.True(t, script.deleted.Load())
	assert.False(t, script.armed.Load())
}
