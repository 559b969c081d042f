// Package api is a thin authenticated client for the experiments API.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/abexport/abexport/internal/config"
)

// bodySnippetLimit caps how much of an error response body ends up in error
// messages.
const bodySnippetLimit = 500

// AuthError means the server rejected the credential (401 or 403).
type AuthError struct {
	StatusCode int
	Body       string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed (status %d): check your API key: %s", e.StatusCode, e.Body)
}

// NotFoundError means the requested resource does not exist (404).
type NotFoundError struct {
	Path       string
	StatusCode int
	Body       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found (status %d): %s", e.Path, e.StatusCode, e.Body)
}

// APIError covers any other non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("request failed (status %d): %s", e.StatusCode, e.Body)
}

// TransportError wraps network-level failures (DNS, timeout, refused
// connections) that never produced an HTTP status.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client performs authenticated GETs against a fixed base endpoint. The
// credential is set once at construction; there is no refresh or rotation.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a client from a loaded config.
func NewClient(cfg config.Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: http.DefaultClient,
	}
}

// get issues an authenticated GET for path (with optional query parameters)
// and returns the response body on 2xx.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}

	logrus.Debugf("GET %s", req.URL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &AuthError{StatusCode: resp.StatusCode, Body: snippet(body)}
	case resp.StatusCode == http.StatusNotFound:
		return nil, &NotFoundError{Path: path, StatusCode: resp.StatusCode, Body: snippet(body)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &APIError{StatusCode: resp.StatusCode, Body: snippet(body)}
	}

	if readErr != nil {
		return nil, fmt.Errorf("failed to read response body for %s: %w", path, readErr)
	}
	return body, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > bodySnippetLimit {
		s = s[:bodySnippetLimit] + "..."
	}
	return s
}
