package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
)

// DailyQuote returns the current motivational quote.
func (c *Client) DailyQuote(ctx context.Context) (string, error) {
	var resp struct {
		Content string `json:"content"`
	}
	if err := c.get(ctx, "/forum/quote", nil, &resp); err != nil {
		return "", err
	}
	return resp.Content, nil
}

// UpdateQuote replaces the quote on the backend.
func (c *Client) UpdateQuote(ctx context.Context, content string) error {
	return c.do(ctx, request{
		method: http.MethodPut,
		path:   "/forum/quote",
		query:  url.Values{"content": {content}},
	}, nil)
}

// ListPosts returns all posts as ordered by the backend.
func (c *Client) ListPosts(ctx context.Context) ([]entities.Post, error) {
	var resp []wirePost
	if err := c.get(ctx, "/forum/posts", nil, &resp); err != nil {
		return nil, err
	}
	return mapAll(resp, wirePost.toEntity), nil
}

// CreatePost publishes a post. Parameters travel in the query string.
func (c *Client) CreatePost(ctx context.Context, title, content, author string, link *string) error {
	q := url.Values{
		"title":   {title},
		"content": {content},
		"author":  {author},
	}
	if link != nil && *link != "" {
		q.Set("link", *link)
	}
	return c.do(ctx, request{method: http.MethodPost, path: "/forum/posts", query: q}, nil)
}
