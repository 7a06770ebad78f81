package telegram

import (
	"context"
	"net/http"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/xueling-bot/internal/app"
)

// Handler serves every chat as its own client.
type Handler struct {
	bot      BotAPI
	registry *app.Registry
	files    *http.Client
	logger   *zap.Logger
}

func NewHandler(
	bot BotAPI,
	registry *app.Registry,
	files *http.Client,
	logger *zap.Logger,
) *Handler {
	if files == nil {
		files = http.DefaultClient
	}
	return &Handler{
		bot:      bot,
		registry: registry,
		files:    files,
		logger:   logger,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

// client returns the client of chatID. A new client loads the start data.
func (h *Handler) client(ctx context.Context, chatID int64) *app.Client {
	c, created := h.registry.Get(ctx, strconv.FormatInt(chatID, 10))
	if created {
		if err := c.Load(ctx); err != nil {
			h.logger.Debug("initial load incomplete",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
		}
	}
	return c
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	msg := update.Message
	chatID := msg.Chat.ID
	c := h.client(ctx, chatID)

	switch {
	case msg.Document != nil:
		h.logger.Debug("document received",
			zap.Int64("chat_id", chatID),
			zap.String("file_name", msg.Document.FileName),
		)
		_ = h.withErrorHandling(h.documentHandler(c, msg))(ctx, chatID)

	case msg.IsCommand():
		// Arguments may carry credentials, only the command is logged.
		h.logger.Debug("command received",
			zap.Int64("chat_id", chatID),
			zap.String("command", msg.Command()),
		)
		h.handleCommand(ctx, c, msg)

	default:
		_ = h.withErrorHandling(h.textHandler(c, msg.Text))(ctx, chatID)
	}
}

func (h *Handler) sendError(chatID int64, text string) {
	msg := newHTMLMessage(chatID, text)
	h.send(msg)
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}

func (h *Handler) request(c tgbotapi.Chattable) {
	if _, err := h.bot.Request(c); err != nil {
		h.logger.Warn("telegram request failed",
			zap.Error(err),
		)
	}
}
