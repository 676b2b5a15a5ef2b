package groq

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sony/gobreaker/v2"
)

// APIError is a non-2xx response from the provider.
type APIError struct {
	StatusCode int
	Model      string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("groq API error (model %s, status %d): %s", e.Model, e.StatusCode, e.Body)
}

// IsRateLimit reports whether err is a provider quota or rate limit failure.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests {
			return true
		}
		return strings.Contains(strings.ToLower(apiErr.Body), "limit")
	}
	return strings.Contains(strings.ToLower(err.Error()), "rate limit")
}

func shouldFallback(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return IsRateLimit(err) ||
		errors.Is(err, gobreaker.ErrOpenState) ||
		errors.Is(err, gobreaker.ErrTooManyRequests)
}

// countsAsFailure decides which errors move a breaker towards open. Caller
// cancellations and request-shape errors say nothing about provider health.
func countsAsFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests {
			return true
		}
		return apiErr.StatusCode >= 500
	}
	return true
}
