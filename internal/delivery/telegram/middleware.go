package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/xueling-bot/internal/api"
	"github.com/aliskhannn/xueling-bot/internal/service"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling logs the error and shows its notice to the user.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		fields := []zap.Field{zap.Int64("chat_id", chatID), zap.Error(err)}
		var apiErr *api.Error
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			h.logger.Debug("invalid input", fields...)
		case errors.Is(err, api.ErrTransport), errors.As(err, &apiErr):
			h.logger.Warn("backend request failed", fields...)
		default:
			h.logger.Info("handle error", fields...)
		}

		h.sendError(chatID, renderNotice(err))
		return nil
	}
}
