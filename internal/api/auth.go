package api

import (
	"context"
	"net/http"
)

// Login exchanges credentials for a bearer token and user record.
// Issued without a token; the caller derives an authenticated client from the result.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	body := map[string]string{"email": email, "password": password}

	var resp TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account and returns its first bearer token.
func (c *Client) Register(ctx context.Context, email, password, name string) (*TokenResponse, error) {
	body := map[string]string{"email": email, "password": password, "name": name}

	var resp TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me fetches the user record for the client's bearer token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ForgotPassword triggers a reset email. Fire-and-forget from the client's view.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", map[string]string{"email": email}, nil)
}

// ResetPassword redeems a reset token for a new credential.
func (c *Client) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	body := map[string]string{"token": resetToken, "new_password": newPassword}
	return c.do(ctx, http.MethodPost, "/auth/reset-password", body, nil)
}
