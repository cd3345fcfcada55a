package api

import (
	"context"
	"net/http"

	"codeberg.org/taskboard/cli/internal/tokenstore"
)

const (
	loginPath    = "/api/v1/auth/login"
	registerPath = "/api/v1/auth/register"
	refreshPath  = "/api/v1/auth/refresh"
	logoutPath   = "/api/v1/auth/logout"
)

// exchanges credentials for a token pair; invalid credentials surface as
// ErrAuthenticationFailed
func (c *Client) Login(ctx context.Context, email, password string) (tokenstore.Pair, error) {
	var pair tokenstore.Pair

	err := c.do(ctx, http.MethodPost, loginPath, nil, loginRequest{
		Email:    email,
		Password: password,
	}, &pair)

	return pair, err
}

// creates an account and returns its first token pair
func (c *Client) Register(ctx context.Context, fullName, email, password string) (tokenstore.Pair, error) {
	var pair tokenstore.Pair

	err := c.do(ctx, http.MethodPost, registerPath, nil, registerRequest{
		FullName: fullName,
		Email:    email,
		Password: password,
	}, &pair)

	return pair, err
}

// revokes the refresh token server-side
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.do(ctx, http.MethodPost, logoutPath, nil, logoutRequest{
		RefreshToken: refreshToken,
	}, nil)
}
