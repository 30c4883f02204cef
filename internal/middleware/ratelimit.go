package middleware

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/flavorgraph/core/internal/errors"
	"github.com/flavorgraph/core/internal/handlers"
	"github.com/flavorgraph/core/internal/logger"
)

// Limiter decides whether a request for key may proceed.
// *ratelimit.KeyedRateLimiter satisfies it.
type Limiter interface {
	Allow(key string) bool
}

// RateLimit rejects clients that exceed limiter with 429 and a RATE_LIMITED
// envelope. onLimited may be nil.
func RateLimit(limiter Limiter, log *logger.Logger, onLimited func()) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Discard()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)

			if !limiter.Allow(key) {
				log.Warn("Rate limit exceeded", "ip", key, "path", r.URL.Path)
				if onLimited != nil {
					onLimited()
				}

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(handlers.Envelope{
					Success: false,
					Error:   "Too many requests. Please try again later.",
					Code:    string(errors.CodeRateLimited),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP keys on the connection address. Forwarding headers are only
// honoured when the server runs chi's RealIP, which rewrites RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
