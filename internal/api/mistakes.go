package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
)

// AddMistake records wordID in the mistake book of userID.
func (c *Client) AddMistake(ctx context.Context, userID, wordID string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/mistakes",
		query:  url.Values{"user_id": {userID}, "word_id": {wordID}},
	}, nil)
}

// ListMistakes returns the mistake book of userID.
func (c *Client) ListMistakes(ctx context.Context, userID string) ([]entities.Mistake, error) {
	var resp []wireMistake
	if err := c.get(ctx, "/mistakes/"+url.PathEscape(userID), nil, &resp); err != nil {
		return nil, err
	}
	return mapAll(resp, wireMistake.toEntity), nil
}

// DeleteMistake removes one mistake record.
func (c *Client) DeleteMistake(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/mistakes/" + url.PathEscape(id)}, nil)
}
