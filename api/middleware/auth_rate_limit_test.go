package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeLimiterStore struct {
	counts map[string]int64
	err    error
}

func (f *fakeLimiterStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[key]++
	return f.counts[key], nil
}

func loginRequest(ip string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/admin/auth", nil)
	r.RemoteAddr = ip + ":51234"
	return r
}

func TestAuthRateLimitBlocksAfterLimit(t *testing.T) {
	store := &fakeLimiterStore{}
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2)
	handler := AuthRateLimit(policy, store, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest("203.0.113.5"))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("203.0.113.5"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different client is unaffected.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("198.51.100.7"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRateLimitDisabledWithoutStore(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 1)
	handler := AuthRateLimit(policy, nil, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest("203.0.113.5"))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	r := loginRequest("203.0.113.5")
	r.Header.Set("X-Forwarded-For", "198.51.100.9, 10.0.0.1")
	assert.Equal(t, "198.51.100.9", clientIP(r))

	r = loginRequest("203.0.113.5")
	r.Header.Set("X-Real-IP", "198.51.100.10")
	assert.Equal(t, "198.51.100.10", clientIP(r))

	r = loginRequest("203.0.113.5")
	assert.Equal(t, "203.0.113.5", clientIP(r))
}
