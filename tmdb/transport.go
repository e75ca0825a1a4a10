package tmdb

import (
	"net/http"
)

// headerOption sets a single header on an outgoing request
type headerOption func(func(key string, value string))

type headerRoundTripper struct {
	roundTripper http.RoundTripper
	options      []headerOption
}

// newHeaderRoundTripper adds the given headers to every request.
func newHeaderRoundTripper(rt http.RoundTripper, opts ...headerOption) http.RoundTripper {
	if rt == nil {
		rt = http.DefaultTransport
	}
	return &headerRoundTripper{roundTripper: rt, options: opts}
}

func (rt *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request
	req = req.Clone(req.Context())
	for _, opt := range rt.options {
		opt(req.Header.Set)
	}
	return rt.roundTripper.RoundTrip(req)
}

func withBearerToken(token string) headerOption {
	return func(f func(key string, value string)) {
		f("Authorization", "Bearer "+token)
	}
}

func withJSONContent() headerOption {
	return func(f func(key string, value string)) {
		f("Content-Type", "application/json")
		f("Accept", "application/json")
	}
}

func withUserAgent(userAgent string) headerOption {
	return func(f func(key string, value string)) {
		if userAgent != "" {
			f("User-Agent", userAgent)
		}
	}
}
