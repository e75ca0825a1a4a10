package search

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/s0up4200/reelsearch/tmdb"
)

// Category classifies a failed search for presentation
type Category int

const (
	// CategoryUnexpected covers non-2xx statuses other than 401/429 and malformed responses
	CategoryUnexpected Category = iota
	// CategoryAuth means TMDB rejected the credential (HTTP 401)
	CategoryAuth
	// CategoryRateLimit means TMDB throttled the request (HTTP 429)
	CategoryRateLimit
	// CategoryTransport means no response was received
	CategoryTransport
)

// String returns the string representation of a Category
func (c Category) String() string {
	switch c {
	case CategoryAuth:
		return "AUTH"
	case CategoryRateLimit:
		return "RATE_LIMIT"
	case CategoryTransport:
		return "TRANSPORT"
	default:
		return "UNEXPECTED"
	}
}

// Failure is a classified search error ready for display
type Failure struct {
	Category Category
	Message  string
	Err      error
}

// Error implements the error interface
func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Message, f.Err)
}

// Unwrap returns the underlying error
func (f *Failure) Unwrap() error {
	return f.Err
}

// Classify maps a search error onto a Category
func Classify(err error) Category {
	var apiErr *tmdb.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.IsUnauthorized():
			return CategoryAuth
		case apiErr.IsRateLimited():
			return CategoryRateLimit
		default:
			return CategoryUnexpected
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTransport
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return CategoryTransport
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return CategoryTransport
	}

	return CategoryUnexpected
}

// NewFailure classifies err and attaches the catalogue message for its category
func NewFailure(err error, messages Messages) Failure {
	category := Classify(err)
	return Failure{
		Category: category,
		Message:  messages.For(category),
		Err:      err,
	}
}
