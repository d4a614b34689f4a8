package catatuang

import (
	"context"
	"net/http"

	"github.com/catatuang/catatuang-gateway/internal/domain"
)

// Login exchanges email-or-username + password for an upstream token.
func (c *Client) Login(ctx context.Context, req *domain.LoginRequest) (*domain.Credentials, error) {
	ctx, end := span(ctx, "catatuang.Login", "/login")
	defer end()

	var creds domain.Credentials
	if err := c.send(ctx, http.MethodPost, "/login", req, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// Register creates an upstream account and returns its first token.
func (c *Client) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.Credentials, error) {
	ctx, end := span(ctx, "catatuang.Register", "/register")
	defer end()

	var creds domain.Credentials
	if err := c.send(ctx, http.MethodPost, "/register", req, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// Logout revokes the upstream token carried in ctx.
func (c *Client) Logout(ctx context.Context) error {
	ctx, end := span(ctx, "catatuang.Logout", "/logout")
	defer end()

	return c.send(ctx, http.MethodPost, "/logout", nil, nil)
}

// GetProfile fetches the authenticated user. Also serves as the session
// validity probe: a dead token surfaces here as ErrUnauthorized.
func (c *Client) GetProfile(ctx context.Context) (*domain.User, error) {
	ctx, end := span(ctx, "catatuang.GetProfile", "/profile")
	defer end()

	var user domain.User
	if err := c.get(ctx, "/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates name/username/email/password of the current user.
func (c *Client) UpdateProfile(ctx context.Context, req *domain.UpdateProfileRequest) (*domain.User, error) {
	ctx, end := span(ctx, "catatuang.UpdateProfile", "/profile")
	defer end()

	var user domain.User
	if err := c.send(ctx, http.MethodPut, "/profile", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
