// ABOUTME: Authentication operations against the /auth endpoints
// ABOUTME: Login, signup, email verification, password reset, and identity lookup

package api

import (
	"context"
	"net/http"
)

// Login exchanges credentials for a token pair. The tokens are returned
// to the caller; this client never persists them itself.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", &LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup registers a new account. No tokens are issued; the account must
// verify its email and log in explicitly.
func (c *Client) Signup(ctx context.Context, email, password, fullName string) (*StatusResponse, error) {
	var resp StatusResponse
	req := &SignupRequest{Email: email, Password: password, FullName: fullName}
	if err := c.do(ctx, http.MethodPost, "/auth/signup", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyEmail redeems an email verification token.
func (c *Client) VerifyEmail(ctx context.Context, token string) (*StatusResponse, error) {
	var resp StatusResponse
	req := map[string]string{"token": token}
	if err := c.do(ctx, http.MethodPost, "/auth/verify-email", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ForgotPassword requests a password reset email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (*StatusResponse, error) {
	var resp StatusResponse
	req := map[string]string{"email": email}
	if err := c.do(ctx, http.MethodPost, "/auth/forgot-password", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResetPassword redeems a reset token for a new password.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (*StatusResponse, error) {
	var resp StatusResponse
	req := map[string]string{"token": token, "new_password": newPassword}
	if err := c.do(ctx, http.MethodPost, "/auth/reset-password", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CurrentUser fetches the identity bound to the stored access token.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
