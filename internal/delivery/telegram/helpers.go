package telegram

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/xueling-bot/internal/api"
)

// maxFileSize matches the Telegram bot download limit.
const maxFileSize = 20 << 20

func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}

// field returns the i-th element of parts or "".
func field(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}

// splitPipe splits s on "|" into exactly n trimmed parts. The last part
// keeps any remaining separators.
func splitPipe(s string, n int) []string {
	parts := strings.SplitN(s, "|", n)
	out := make([]string, n)
	for i := range out {
		out[i] = strings.TrimSpace(field(parts, i))
	}
	return out
}

// splitFirst splits s into its first word and the trimmed rest.
func splitFirst(s string) (string, string) {
	s = strings.TrimSpace(s)
	head, rest, _ := strings.Cut(s, " ")
	return head, strings.TrimSpace(rest)
}

// parseCaption reads a "/command args" caption. The bot mention suffix of
// the command is dropped.
func parseCaption(caption string) (string, string) {
	cmd, args := splitFirst(caption)
	if !strings.HasPrefix(cmd, "/") {
		return "", ""
	}
	cmd, _, _ = strings.Cut(strings.TrimPrefix(cmd, "/"), "@")
	return cmd, args
}

// fetch downloads url into memory.
func (h *Handler) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := h.files.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", api.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &api.Error{StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFileSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", api.ErrTransport, err)
	}
	return data, nil
}

// downloadDocument fetches a document sent to the bot.
func (h *Handler) downloadDocument(ctx context.Context, doc *tgbotapi.Document) (api.Upload, error) {
	url, err := h.bot.GetFileDirectURL(doc.FileID)
	if err != nil {
		return api.Upload{}, fmt.Errorf("get file url: %w", err)
	}

	data, err := h.fetch(ctx, url)
	if err != nil {
		return api.Upload{}, fmt.Errorf("download document: %w", err)
	}
	return api.Upload{Name: doc.FileName, Body: bytes.NewReader(data)}, nil
}

// deleteMessage removes a message, used for messages carrying passwords.
func (h *Handler) deleteMessage(chatID int64, messageID int) {
	h.request(tgbotapi.NewDeleteMessage(chatID, messageID))
}
