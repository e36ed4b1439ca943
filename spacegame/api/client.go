// Package api is the authenticated HTTP client for the game backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	httpCallTimeout = 10 * time.Second

	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerRequestID     = "X-Request-ID"
)

// TokenSource supplies the bearer token for outgoing requests. An empty token
// means the request is sent unauthenticated.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// RequestOptions mirrors the subset of fetch options the client uses.
type RequestOptions struct {
	Method  string
	Headers map[string]string
	Body    io.Reader
}

// Client sends requests to the game API rooted at a base URL.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: httpCallTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Fetch sends a request to path under the base URL. Caller headers are
// copied and a bearer token is added when one is available. The caller owns
// the response body.
func (c *Client) Fetch(ctx context.Context, path string, opts *RequestOptions) (*http.Response, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, opts.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set(headerAuthorization, "Bearer "+token)
		}
	}
	requestID := uuid.NewString()
	req.Header.Set(headerRequestID, requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.DebugContext(ctx, "API request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	slog.DebugContext(ctx, "API request", "method", method, "path", path, "status", resp.StatusCode, "request_id", requestID)
	return resp, nil
}

// JSON sends in (if non-nil) as a JSON body and returns the response. The
// caller owns the response body.
func (c *Client) JSON(ctx context.Context, method, path string, in any) (*http.Response, error) {
	opts := &RequestOptions{Method: method}
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		opts.Body = bytes.NewReader(body)
		opts.Headers = map[string]string{headerContentType: "application/json"}
	}
	return c.Fetch(ctx, path, opts)
}

// OK reports whether the response has a 2xx status.
func OK(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Decode reads a JSON response body into out and closes it.
func Decode(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
