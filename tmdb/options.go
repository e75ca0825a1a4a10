package tmdb

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL    string
	language   string
	timeout    time.Duration
	userAgent  string
	httpClient *http.Client
}

func defaultOptions() clientOptions {
	return clientOptions{
		baseURL:   DefaultBaseURL,
		language:  DefaultLanguage,
		timeout:   30 * time.Second,
		userAgent: "reelsearch",
	}
}

// WithBaseURL overrides the API root, mostly useful for tests and proxies.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

// WithLanguage sets the default locale for queries that do not carry one.
func WithLanguage(language string) Option {
	return func(o *clientOptions) {
		if language != "" {
			o.language = language
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithHTTPClient uses the given client as the base for outgoing requests.
// Its transport is wrapped to add the authentication headers.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = httpClient
	}
}
