package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
)

// SubmitSuggestion sends a suggestion on behalf of userID.
func (c *Client) SubmitSuggestion(ctx context.Context, userID, content string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/suggestions",
		query:  url.Values{"user_id": {userID}, "content": {content}},
	}, nil)
}

// ListSuggestions returns all suggestions. Admin only on the backend side.
func (c *Client) ListSuggestions(ctx context.Context) ([]entities.Suggestion, error) {
	var resp []wireSuggestion
	if err := c.get(ctx, "/admin/suggestions", nil, &resp); err != nil {
		return nil, err
	}
	return mapAll(resp, wireSuggestion.toEntity), nil
}

// ReplySuggestion sets the feedback of a suggestion.
func (c *Client) ReplySuggestion(ctx context.Context, id, feedback string) error {
	return c.do(ctx, request{
		method: http.MethodPut,
		path:   "/admin/suggestions/" + url.PathEscape(id) + "/feedback",
		query:  url.Values{"feedback": {feedback}},
	}, nil)
}
