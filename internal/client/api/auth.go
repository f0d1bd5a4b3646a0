package api

import (
	"context"
	"net/http"

	"github.com/tasktrack-io/tasktrack/internal/user"
)

// LoginResponse is the body of a successful login
type LoginResponse struct {
	Token string       `json:"token"`
	User  user.Summary `json:"user"`
}

// Signup creates an account. The server issues no token here; callers
// follow up with Login.
func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	body := map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}
	return c.do(ctx, http.MethodPost, "/auth/signup", body, nil)
}

// Login exchanges credentials for a token and user summary
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword replaces the caller's password. Requires a session token.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	body := map[string]string{
		"oldPassword": oldPassword,
		"newPassword": newPassword,
	}
	return c.do(ctx, http.MethodPut, "/auth/change-password", body, nil)
}
