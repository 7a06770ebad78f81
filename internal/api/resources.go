package api

import (
	"context"

	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
)

// ListResources returns every resource the backend knows.
func (c *Client) ListResources(ctx context.Context) ([]entities.Resource, error) {
	var resp []wireResource
	if err := c.get(ctx, "/resources", nil, &resp); err != nil {
		return nil, err
	}
	return mapAll(resp, wireResource.toEntity), nil
}

// UploadResource stores a file under module.
func (c *Client) UploadResource(ctx context.Context, title, module string, file Upload) error {
	return c.postMultipart(ctx, "/resources", map[string]string{
		"title":  title,
		"module": module,
	}, file, nil)
}
