package api

import (
	"context"
	"net/url"

	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
)

// Login exchanges credentials for a session. The role comes from the server.
func (c *Client) Login(ctx context.Context, username, password string) (*entities.Session, error) {
	var resp wireSession
	err := c.form(ctx, "/auth/login", url.Values{
		"username": {username},
		"password": {password},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.toEntity(username, nil), nil
}

// Register creates an account and returns its session.
func (c *Client) Register(ctx context.Context, username, phone, password string) (*entities.Session, error) {
	var resp wireSession
	err := c.form(ctx, "/auth/register", url.Values{
		"username": {username},
		"phone":    {phone},
		"password": {password},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.toEntity(username, &phone), nil
}
