package middleware_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anandbhagyawant/messconnect-backend/api/middleware"
	"github.com/anandbhagyawant/messconnect-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	counts map[string]int64
	err    error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: map[string]int64{}}
}

func (f *fakeCounter) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeCounter) RateLimitKey(scope string, parts ...string) string {
	return strings.Join(append([]string{scope}, parts...), ":")
}

func echoBody() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Write(body)
	})
}

func loginRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.7:51000"
	return req
}

func TestAuthRateLimitBlocksAfterIPLimit(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	counter := newFakeCounter()
	handler := middleware.AuthRateLimit("login", counter, time.Minute, 2, 10, logg)(echoBody())

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest(`{"email":"a@b.com"}`))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest(`{"email":"a@b.com"}`))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "RATE_LIMIT_EXCEEDED")
}

func TestAuthRateLimitTracksEmailAcrossIPs(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	counter := newFakeCounter()
	handler := middleware.AuthRateLimit("login", counter, time.Minute, 100, 2, logg)(echoBody())

	for i, addr := range []string{"198.51.100.1:1", "198.51.100.2:1", "198.51.100.3:1"} {
		req := loginRequest(`{"email":"Asha@Example.com"}`)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if i < 2 {
			require.Equal(t, http.StatusOK, rec.Code)
		} else {
			assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		}
	}

	// email keys are normalized
	assert.Equal(t, int64(3), counter.counts["login:email:asha@example.com"])
}

func TestAuthRateLimitPreservesBodyForHandler(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	handler := middleware.AuthRateLimit("login", newFakeCounter(), time.Minute, 10, 10, logg)(echoBody())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest(`{"email":"a@b.com","password":"hunter22"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"email":"a@b.com","password":"hunter22"}`, rec.Body.String())
}

func TestAuthRateLimitFailsOpenOnCounterError(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	counter := newFakeCounter()
	counter.err = errors.New("redis down")
	handler := middleware.AuthRateLimit("login", counter, time.Minute, 1, 1, logg)(echoBody())

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest(`{"email":"a@b.com"}`))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestAuthRateLimitNilCounterPassesThrough(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	handler := middleware.AuthRateLimit("login", nil, time.Minute, 1, 1, logg)(echoBody())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest(`{"email":"a@b.com"}`))
	assert.Equal(t, http.StatusOK, rec.Code)
}
