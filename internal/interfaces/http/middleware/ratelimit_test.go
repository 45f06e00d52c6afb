package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLimiter 记录收到的限流 key 并返回预设结果
type fakeLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (l *fakeLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	l.keys = append(l.keys, key)
	return l.allowed, l.err
}

func newRateLimitRouter(cfg RateLimitConfig, limiter RateLimiter, pre ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	for _, h := range pre {
		r.Use(h)
	}
	r.Use(RateLimit(cfg, limiter))
	r.GET("/v1/chat/messages", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRateLimitAllows(t *testing.T) {
	limiter := &fakeLimiter{allowed: true}
	r := newRateLimitRouter(RateLimitConfig{Enabled: true, RequestsPerSecond: 10}, limiter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/chat/messages", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, limiter.keys, 1)
}

func TestRateLimitRejectsWith429(t *testing.T) {
	limiter := &fakeLimiter{allowed: false}
	r := newRateLimitRouter(RateLimitConfig{Enabled: true, RequestsPerSecond: 1}, limiter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/chat/messages", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
}

func TestRateLimitFailsOpenOnLimiterError(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis down")}
	r := newRateLimitRouter(RateLimitConfig{Enabled: true, RequestsPerSecond: 10}, limiter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/chat/messages", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitKeyPrefersUserID(t *testing.T) {
	limiter := &fakeLimiter{allowed: true}
	setUser := func(c *gin.Context) {
		c.Set("user_id", "user-42")
		c.Next()
	}
	r := newRateLimitRouter(RateLimitConfig{Enabled: true, RequestsPerSecond: 10}, limiter, setUser)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/chat/messages", nil))

	require.Len(t, limiter.keys, 1)
	assert.Equal(t, "ratelimit:user-42:/v1/chat/messages", limiter.keys[0])
}

func TestRateLimitKeyFallsBackToClientIP(t *testing.T) {
	limiter := &fakeLimiter{allowed: true}
	r := newRateLimitRouter(RateLimitConfig{Enabled: true, RequestsPerSecond: 10}, limiter)

	req := httptest.NewRequest(http.MethodGet, "/v1/chat/messages", nil)
	req.RemoteAddr = "203.0.113.9:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Len(t, limiter.keys, 1)
	assert.Equal(t, "ratelimit:203.0.113.9:/v1/chat/messages", limiter.keys[0])
}

func TestRateLimitDisabledSkipsLimiter(t *testing.T) {
	limiter := &fakeLimiter{allowed: false}
	r := newRateLimitRouter(RateLimitConfig{Enabled: false}, limiter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/chat/messages", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, limiter.keys)
}
