package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Throttle limits a route to perMinute requests across all clients, with a
// burst of the same size. Zero or less disables the limit.
//
// Manual warmup triggers are cheap to call and expensive to serve, so the
// server wraps /api/warmup with this.
func Throttle(perMinute int, onError ErrorHandler) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if onError == nil {
		onError = DefaultErrorHandler
	}

	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	retryAfter := strconv.Itoa(max(1, int((time.Minute / time.Duration(perMinute)).Seconds())))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", retryAfter)
				onError(w, r, ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
