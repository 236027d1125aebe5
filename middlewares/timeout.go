package middlewares

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 60 * time.Second

// Timeout bounds the request context. Handlers observe the deadline through
// r.Context(); when one returns without writing after the deadline passed,
// a TimeoutError response is sent.
func Timeout(timeout time.Duration, onError ErrorHandler) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if onError == nil {
		onError = DefaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			sw := wrapStatus(w)
			next.ServeHTTP(sw, r.WithContext(ctx))

			if !sw.wroteHeader && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				onError(w, r, &TimeoutError{Duration: timeout})
			}
		})
	}
}
