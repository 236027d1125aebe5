package middlewares

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrRateLimited is passed to the ErrorHandler when Throttle rejects a request.
var ErrRateLimited = errors.New("middlewares: rate limit exceeded")

// PanicError represents a recovered panic.
type PanicError struct {
	Value any
	Stack []byte // nil when stack capture is disabled
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// TimeoutError represents a request whose deadline passed.
type TimeoutError struct {
	Duration time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout after %s", e.Duration)
}

// ErrorHandler writes the response for a request a middleware refused or
// could not complete.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// StatusFor maps middleware errors to HTTP status codes.
func StatusFor(err error) int {
	var (
		pe *PanicError
		te *TimeoutError
	)
	switch {
	case errors.As(err, &pe):
		return http.StatusInternalServerError
	case errors.As(err, &te):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// DefaultErrorHandler responds with the service's JSON error shape.
// Panic details never reach the client.
func DefaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	status := StatusFor(err)
	msg := err.Error()
	var pe *PanicError
	if errors.As(err, &pe) {
		msg = http.StatusText(http.StatusInternalServerError)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "error",
		"message": msg,
	})
}
