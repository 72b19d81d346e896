package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/anandbhagyawant/messconnect-backend/api/responses"
	pkgerrors "github.com/anandbhagyawant/messconnect-backend/pkg/errors"
	"github.com/anandbhagyawant/messconnect-backend/pkg/logger"
	redispkg "github.com/anandbhagyawant/messconnect-backend/pkg/redis"
)

const maxPeekBytes = 1 << 20

// AuthRateLimit applies fixed-window counters per client IP and per
// submitted email to an auth endpoint. Redis outages fail open: losing the
// limiter must not lock everyone out.
func AuthRateLimit(scope string, counter redispkg.Counter, window time.Duration, ipLimit, emailLimit int, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if counter == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()

			if ip := clientIP(r); ip != "" && ipLimit > 0 {
				count, err := counter.IncrWithTTL(ctx, counter.RateLimitKey(scope, "ip", ip), window)
				if err != nil {
					logg.Warn(logg.WithField(ctx, "scope", scope), "rate limit counter unavailable")
				} else if count > int64(ipLimit) {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
					return
				}
			}

			if email := peekEmail(r); email != "" && emailLimit > 0 {
				count, err := counter.IncrWithTTL(ctx, counter.RateLimitKey(scope, "email", email), window)
				if err != nil {
					logg.Warn(logg.WithField(ctx, "scope", scope), "rate limit counter unavailable")
				} else if count > int64(emailLimit) {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// peekEmail reads the email field out of the body without consuming it.
func peekEmail(r *http.Request) string {
	if r.Body == nil {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPeekBytes))
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var probe struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(probe.Email))
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first, _, ok := strings.Cut(forwarded, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(forwarded)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
