package tmdb

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid tmdb configuration")
	// ErrInvalidImageSize indicates an image size TMDB does not serve
	ErrInvalidImageSize = errors.New("invalid image size")
	// ErrAuthenticationFailed indicates TMDB rejected the configured token
	ErrAuthenticationFailed = errors.New("tmdb authentication failed")
)

// APIError represents a non-2xx TMDB response
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("tmdb API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("tmdb API error: status %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized checks if the error indicates a missing or invalid token
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsRateLimited checks if the error indicates TMDB throttled the request
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}
