// Package api is the thin request layer over the remote topicwise-MCQ
// service. It attaches the bearer token from the token store when one is
// present and maps transport and status failures onto a small error
// taxonomy the screens can branch on.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var (
	// ErrNetwork wraps failures to reach the API at all.
	ErrNetwork = errors.New("api: network error")

	// ErrUnauthorized marks a 401 on an authenticated call. The quiz
	// screens demote the attempt to guest-equivalent rather than hiding
	// the score behind it.
	ErrUnauthorized = errors.New("api: unauthorized")
)

// StatusError is a non-2xx response other than 401.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: unexpected status %d", e.Code)
}

// TokenReader is the read-side slice of the token store the client needs.
type TokenReader interface {
	AccessToken() (string, error)
}

// Client calls the remote API.
type Client struct {
	base   *url.URL
	http   *http.Client
	tokens TokenReader
}

// New creates a Client for the API at baseURL. tokens may be nil for a
// purely anonymous client.
func New(baseURL string, tokens TokenReader, timeout time.Duration) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		base:   base,
		http:   &http.Client{Timeout: timeout},
		tokens: tokens,
	}, nil
}

// do performs one request, attaching the bearer token when available, and
// decodes a JSON response into out (which may be nil). It returns the raw
// body for callers that validate before decoding.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) ([]byte, error) {
	u := c.base.JoinPath(path)

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		if token, err := c.tokens.AccessToken(); err == nil && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrNetwork, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{Code: resp.StatusCode, Body: string(raw)}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}
	return raw, nil
}
