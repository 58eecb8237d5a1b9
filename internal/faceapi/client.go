// Package faceapi is the HTTP client for the face-recognition backend. It
// attaches bearer tokens, recovers transparently from access-token expiry
// (one refresh, one retry), and normalizes every failure into *APIError.
package faceapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// TokenSource supplies and persists the credential pair the client acts on.
// The session manager implements it for the CLI; the web layer implements it
// per browser session. Update and Clear must persist, not just cache.
type TokenSource interface {
	Tokens() (access, refresh string)
	Update(pair TokenPair) error
	Clear() error
}

// StaticTokens is a TokenSource backed by plain fields, for callers that
// manage persistence themselves.
type StaticTokens struct {
	Access  string
	Refresh string
}

func (s *StaticTokens) Tokens() (string, string) { return s.Access, s.Refresh }

func (s *StaticTokens) Update(pair TokenPair) error {
	s.Access = pair.AccessToken
	if pair.RefreshToken != "" {
		s.Refresh = pair.RefreshToken
	}
	return nil
}

func (s *StaticTokens) Clear() error {
	s.Access, s.Refresh = "", ""
	return nil
}

// Client talks to the recognition backend.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     TokenSource

	// refreshGroup collapses concurrent refresh attempts into a single
	// /auth/refresh call; every waiter receives the same outcome.
	refreshGroup singleflight.Group
}

// Option customises Client construction.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client (used in tests and by callers
// that need custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the global request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient creates a backend client. tokens may be nil for clients that
// only call unauthenticated endpoints (login, register, health).
func NewClient(rawURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(rawURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q: scheme and host required", rawURL)
	}

	c := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// resolveURL builds a full URL from the base URL and the endpoint path. If
// the endpoint carries a query string (e.g. "recognition/logs?page=2"), it
// is split so JoinPath only receives the path portion.
func (c *Client) resolveURL(endpoint string) string {
	if pathPart, query, ok := strings.Cut(endpoint, "?"); ok {
		result := c.baseURL.JoinPath(pathPart)
		result.RawQuery = query
		return result.String()
	}
	return c.baseURL.JoinPath(endpoint).String()
}

// send performs one HTTP round trip. A transport failure maps to
// *APIError{Status: 0}.
func (c *Client) send(ctx context.Context, method, endpoint, contentType string, body []byte, accessToken string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolveURL(endpoint), reader)
	if err != nil {
		return 0, nil, fmt.Errorf("could not create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, &APIError{Message: err.Error(), Status: 0}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("could not read response body: %w", err)
	}

	return resp.StatusCode, respBody, nil
}

// do performs an authenticated request. On the first 401 it refreshes the
// access token (single-flight across goroutines) and retries the request
// exactly once; a 401 on the retried request surfaces as ErrAuthExpired
// without another refresh attempt.
func (c *Client) do(ctx context.Context, method, endpoint, contentType string, body []byte, expected ...int) ([]byte, error) {
	access := ""
	if c.tokens != nil {
		access, _ = c.tokens.Tokens()
	}

	status, respBody, err := c.send(ctx, method, endpoint, contentType, body, access)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized && c.tokens != nil {
		newAccess, refreshErr := c.refreshAccessToken(ctx)
		if refreshErr != nil {
			return nil, refreshErr
		}

		status, respBody, err = c.send(ctx, method, endpoint, contentType, body, newAccess)
		if err != nil {
			return nil, err
		}
		if status == http.StatusUnauthorized {
			_ = c.tokens.Clear()
			return nil, fmt.Errorf("%w: token rejected after refresh", ErrAuthExpired)
		}
	}

	if !statusExpected(status, expected) {
		return nil, newAPIError(status, respBody)
	}
	return respBody, nil
}

// refreshAccessToken exchanges the refresh token for a new pair. Concurrent
// callers share a single backend call; on failure the stored credentials are
// cleared so no stale token survives.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	v, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		_, refresh := c.tokens.Tokens()
		if refresh == "" {
			_ = c.tokens.Clear()
			return nil, fmt.Errorf("%w: no refresh token available", ErrAuthExpired)
		}

		pair, err := c.Refresh(ctx, refresh)
		if err != nil {
			_ = c.tokens.Clear()
			return nil, fmt.Errorf("%w: refresh failed: %v", ErrAuthExpired, err)
		}

		if err := c.tokens.Update(*pair); err != nil {
			return nil, fmt.Errorf("could not persist refreshed tokens: %w", err)
		}
		return pair.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func statusExpected(status int, expected []int) bool {
	if len(expected) == 0 {
		return status == http.StatusOK
	}
	for _, s := range expected {
		if s == status {
			return true
		}
	}
	return false
}
