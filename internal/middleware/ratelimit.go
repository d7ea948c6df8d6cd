package middleware

import (
	"net/http"
	"time"

	"noous-backend/pkg/ratelimit"
)

// LocalRateLimit is a best-effort in-memory pre-check applied before the
// authoritative database-backed limiter. It keeps obviously hammering
// clients from reaching the database; the real decision is made downstream.
func LocalRateLimit(limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := GetUserID(r.Context())
			if key == "" {
				key = r.RemoteAddr
			}
			if !limiter.Allow(key, time.Now()) {
				respondError(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
