package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
)

// QuizWords returns up to limit words of module.
func (c *Client) QuizWords(ctx context.Context, module string, limit int) ([]entities.Word, error) {
	var resp []wireWord
	q := url.Values{"module": {module}, "limit": {strconv.Itoa(limit)}}
	if err := c.get(ctx, "/words/quiz", q, &resp); err != nil {
		return nil, err
	}
	return mapAll(resp, wireWord.toEntity), nil
}

// UploadWords sends a word sheet for module and returns the server message.
func (c *Client) UploadWords(ctx context.Context, module string, file Upload) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.postMultipart(ctx, "/words/upload", map[string]string{"module": module}, file, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
