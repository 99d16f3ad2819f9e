package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/legyenez/lgz/internal/shared"
	"golang.org/x/oauth2"
)

const defaultBaseURL = "http://localhost:8000"

// Client issues JSON requests against the backend's /api root.
//
// A Client is never mutated after construction; credential changes go through
// [Client.WithToken], which returns a fresh instance.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates an unauthenticated Client for the given backend root.
func New(baseURL string, client *http.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: client,
	}
}

// WithToken derives a new Client whose transport attaches the given bearer
// token to every request via [oauth2.Transport]. An empty token returns an
// unauthenticated client. The receiver is left untouched.
func (c *Client) WithToken(token string) *Client {
	base := c.httpClient.Transport
	derived := &Client{
		baseURL: c.baseURL,
		token:   token,
	}

	if token == "" {
		derived.httpClient = &http.Client{Transport: base, Timeout: c.httpClient.Timeout}
		return derived
	}

	derived.httpClient = &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   base,
		},
		Timeout: c.httpClient.Timeout,
	}
	return derived
}

// Token returns the bearer token this client was derived with.
func (c *Client) Token() string {
	return c.token
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Error is a non-2xx backend response.
type Error struct {
	Status int    // HTTP status code
	Detail string // backend-provided detail message, may be empty
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("API error: status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("API error: status %d", e.Status)
}

// ErrorMessage extracts a human-readable message from err: the backend detail
// for an [*Error] that carries one, otherwise the fallback.
func ErrorMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

// IsStatus reports whether err is an [*Error] with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// do performs a JSON request against {baseURL}/api{path} and decodes the
// response into result when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body any, result any) error {
	apiURL := c.baseURL + "/api" + path

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// requireAuth guards endpoints that need a bearer token.
func (c *Client) requireAuth() error {
	if c.token == "" {
		return shared.ErrNotAuthenticated
	}
	return nil
}

// decodeError converts a non-2xx response into an [*Error], pulling the
// backend's {"detail": "..."} payload when present.
func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}

	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		apiErr.Detail = payload.Detail
	}

	return apiErr
}
