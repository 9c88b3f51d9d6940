package client

import (
	"context"
	"net/http"

	"ims-client/model"
)

// Login exchanges credentials for a token. It does not need a session.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	var out model.LoginResponse
	err := c.do(ctx, request{method: http.MethodPost, url: c.auth("/auth/login"), body: req, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns the server's message.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (string, error) {
	var msg string
	err := c.do(ctx, request{method: http.MethodPost, url: c.auth("/auth/register"), body: req, out: &msg})
	return msg, err
}

// UpdateProfile changes username, email and optionally the password.
func (c *Client) UpdateProfile(ctx context.Context, upd model.ProfileUpdate) (string, error) {
	var msg string
	err := c.do(ctx, request{method: http.MethodPut, url: c.auth("/auth/profile"), auth: true, body: upd, out: &msg})
	return msg, err
}
