// Package client is a typed Go client for the job portal admin API.
// Dashboards and internal tooling use it instead of hand-rolled HTTP calls.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"jobportal_backend/pkg/apperrors"
)

const defaultTimeout = 30 * time.Second

// APIError is the error payload the server returns inside its envelope.
type APIError struct {
	Code    apperrors.ErrorCode `json:"code"`
	Domain  string              `json:"domain,omitempty"`
	Message string              `json:"message"`
	Details interface{}         `json:"details,omitempty"`

	// HTTPStatus is filled in by the client from the response.
	HTTPStatus int `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%s): %s", e.Code, e.Domain, e.Message)
}

type errorEnvelope struct {
	Error *APIError `json:"error"`
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client, useful for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the initial bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithSessionExpiredHandler registers a callback fired on any 401 response.
// The client clears its token before invoking it; the path of the failed
// request is passed so the caller can resume after re-login.
func WithSessionExpiredHandler(fn func(path string)) Option {
	return func(c *Client) { c.onSessionExpired = fn }
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu               sync.RWMutex
	token            string
	onSessionExpired func(path string)
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token, typically after login.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) clearToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// do executes one API call and decodes a successful body into out. A nil out
// discards the body. Error responses come back as *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.clearToken()
		c.mu.RLock()
		handler := c.onSessionExpired
		c.mu.RUnlock()
		if handler != nil {
			handler(path)
		}
	}

	if resp.StatusCode >= 400 {
		return c.decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var envelope errorEnvelope
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error != nil {
		envelope.Error.HTTPStatus = resp.StatusCode
		return envelope.Error
	}

	return &APIError{
		Code:       apperrors.CodeInternalError,
		Message:    fmt.Sprintf("unexpected response %d: %s", resp.StatusCode, string(data)),
		HTTPStatus: resp.StatusCode,
	}
}

func paginationQuery(page, pageSize int) url.Values {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		query.Set("page_size", strconv.Itoa(pageSize))
	}
	return query
}

// IsNotFound reports whether err is a NOT_FOUND API error.
func IsNotFound(err error) bool { return hasCode(err, apperrors.CodeNotFound) }

// IsConflict reports whether err is a lost-update CONFLICT API error.
func IsConflict(err error) bool { return hasCode(err, apperrors.CodeConflict) }

// IsInvalidState reports whether err is an INVALID_STATE API error.
func IsInvalidState(err error) bool { return hasCode(err, apperrors.CodeInvalidState) }

func hasCode(err error, code apperrors.ErrorCode) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Code == code
}
