package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// maxErrorBody caps how much of an error response is kept on APIError
const maxErrorBody = 4096

// Client represents a TMDB API client
type Client struct {
	baseURL    string
	language   string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client.
// An empty token is accepted; TMDB will reject the requests with a 401.
func NewClient(token string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	baseURL := strings.TrimRight(o.baseURL, "/")
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q must be an absolute http(s) URL", ErrInvalidConfig, o.baseURL)
	}

	httpClient := &http.Client{Timeout: o.timeout}
	if o.httpClient != nil {
		clone := *o.httpClient
		httpClient = &clone
	}
	httpClient.Transport = newHeaderRoundTripper(httpClient.Transport,
		withBearerToken(token),
		withJSONContent(),
		withUserAgent(o.userAgent),
	)

	return &Client{
		baseURL:    baseURL,
		language:   o.language,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Language returns the default locale used for queries without one
func (c *Client) Language() string {
	return c.language
}

// doRequest performs an authenticated GET and returns the body of a 2xx response
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("query", params.Get("query")).
		Msg("Making TMDB API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, newAPIError(resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

// newAPIError builds an APIError, using TMDB's status_message when the body has one
func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Message:    http.StatusText(statusCode),
		Body:       string(body),
	}

	var status authenticationResponse
	if err := json.Unmarshal(body, &status); err == nil && status.StatusMessage != "" {
		apiErr.Message = status.StatusMessage
	}

	return apiErr
}

// Search searches movies by free text
func (c *Client) Search(ctx context.Context, query SearchQuery) (*SearchResult, error) {
	query = query.normalize(c.language)
	if query.Text == "" {
		empty := EmptyResult()
		return &empty, nil
	}

	params := url.Values{}
	params.Set("query", query.Text)
	params.Set("include_adult", "false")
	params.Set("page", strconv.Itoa(query.Page))
	params.Set("language", query.Language)

	body, err := c.doRequest(ctx, "/search/movie", params)
	if err != nil {
		return nil, err
	}

	var response searchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	result := response.toResult()

	c.logger.Debug().
		Str("query", query.Text).
		Int("page", result.Page).
		Int("count", len(result.Items)).
		Int("total", result.TotalResults).
		Msg("Retrieved search results from TMDB")

	return result, nil
}

// TestConnection verifies the token against the /authentication endpoint
func (c *Client) TestConnection(ctx context.Context) error {
	body, err := c.doRequest(ctx, "/authentication", nil)
	if err != nil {
		return err
	}

	var status authenticationResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return fmt.Errorf("failed to parse authentication response: %w", err)
	}

	if !status.Success {
		return fmt.Errorf("%w: %s", ErrAuthenticationFailed, status.StatusMessage)
	}

	return nil
}
