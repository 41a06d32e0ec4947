// ABOUTME: HTTP client for the Solace backend with bearer auth injection
// ABOUTME: Handles 401 responses by clearing stored credentials and signaling forced logout

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// TokenSource provides the stored credential pair to outbound requests.
// Both the client and the session layer may clear it, but only in
// response to explicit login/logout/invalidation events.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// APIError is a non-2xx response from the backend. Detail carries the
// server's "detail" field when present, so callers can classify failures
// the same way the backend reports them.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server returned status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

// ErrorDetail extracts the backend detail message from err, falling back
// to fallback when err is not an APIError or carries no detail.
func ErrorDetail(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Client is the single point of outbound communication with the backend.
// It attaches the stored access token as a bearer credential when one is
// present; requests without a token proceed unauthenticated.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *slog.Logger

	// onAuthExpired fires after stored credentials are cleared in
	// response to a 401. The UI uses it to route back to login.
	onAuthExpired func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithAuthExpiredHook registers fn to run when a 401 forces credential
// invalidation. At most one hook is held; later calls replace it.
func WithAuthExpiredHook(fn func()) Option {
	return func(c *Client) { c.onAuthExpired = fn }
}

// OnAuthExpired registers fn to run when a 401 forces credential
// invalidation. Used when the hook target is constructed after the
// client; at most one hook is held.
func (c *Client) OnAuthExpired(fn func()) {
	c.onAuthExpired = fn
}

// New creates a Client for the backend at baseURL. Trailing slashes on
// baseURL are ignored.
func New(baseURL string, tokens TokenSource, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		tokens:  tokens,
		logger:  logger.With("component", "api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues a single JSON request and decodes the response into out when
// out is non-nil. Non-2xx responses become *APIError. A 401 additionally
// triggers the one-shot invalidation path: if a refresh token is stored,
// both tokens are cleared and the auth-expired hook fires. No refresh
// exchange is attempted; the backend exposes none, so any 401 is
// terminal for the stored credentials.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if token, err := c.tokens.AccessToken(ctx); err != nil {
		c.logger.Warn("reading access token", "error", err)
	} else if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.invalidateCredentials(ctx)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			Status: resp.StatusCode,
			Detail: decodeDetail(resp.Body),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// invalidateCredentials clears the stored token pair and fires the
// auth-expired hook. It only acts when a refresh token is present, which
// distinguishes an expired login from an unauthenticated request (e.g. a
// failed login attempt, which is also a 401).
func (c *Client) invalidateCredentials(ctx context.Context) {
	refresh, err := c.tokens.RefreshToken(ctx)
	if err != nil {
		c.logger.Warn("reading refresh token", "error", err)
		return
	}
	if refresh == "" {
		return
	}

	if err := c.tokens.Clear(ctx); err != nil {
		c.logger.Error("clearing credentials", "error", err)
	}
	c.logger.Info("credentials invalidated by 401 response")

	if c.onAuthExpired != nil {
		c.onAuthExpired()
	}
}

// decodeDetail pulls the "detail" field out of an error response body.
// Returns "" when the body is not JSON or has no detail.
func decodeDetail(r io.Reader) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return ""
	}
	return body.Detail
}
