package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/xueling-bot/internal/app"
	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
	"github.com/aliskhannn/xueling-bot/internal/service"
)

// maxListItems bounds rendered lists to stay under the message size limit.
const maxListItems = 20

func head[T any](items []T) []T {
	return items[:min(len(items), maxListItems)]
}

// viewHandler switches the client to view and renders it.
func (h *Handler) viewHandler(c *app.Client, view entities.View) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		active, err := c.Open(ctx, view)
		if active != view {
			h.sendError(chatID, renderNotice(err))
			h.sendView(c, chatID, active, "")
			return nil
		}

		notice := ""
		if err != nil {
			h.logger.Warn("view refresh failed",
				zap.Int64("chat_id", chatID),
				zap.String("view", string(view)),
				zap.Error(err),
			)
			notice = msgRefreshFailed + escape(service.UserMessage(err)) + "\n\n"
		}
		h.sendView(c, chatID, active, notice)
		return nil
	}
}

func (h *Handler) sendView(c *app.Client, chatID int64, view entities.View, notice string) {
	text, kb := renderView(c, view)
	msg := newHTMLMessage(chatID, notice+text)
	if kb != nil {
		msg.ReplyMarkup = kb
	}
	h.send(msg)
}

// renderView renders the screen of view for the client.
func renderView(c *app.Client, view entities.View) (string, *tgbotapi.InlineKeyboardMarkup) {
	tabs := c.Router.Tabs()
	session := c.Sessions.Current()

	switch view {
	case entities.ViewForum:
		return renderForum(c.Forum.Quote(), head(c.Forum.Posts())), withTabs(nil, tabs, view)

	case entities.ViewResources:
		resources := head(c.Library.Resources())
		rows := buildResourcesKeyboard(c.Library.Modules(), resources)
		return renderResources(entities.AllModules, resources), withTabs(rows, tabs, view)

	case entities.ViewQuiz:
		rows := buildQuizSelectionKeyboard(c.Quiz.Modules(), session.IsAdmin())
		return msgQuizSelection, withTabs(rows, tabs, view)

	case entities.ViewAdmin:
		list := head(c.Feedback.Suggestions())
		rows := buildSuggestionsKeyboard(list)
		return renderSuggestions(entities.ViewAdmin.Title()+" · 用户建议", list, c.FileURL), withTabs(rows, tabs, view)

	default:
		return msgLoginRequired, nil
	}
}

// sendTurn renders the running quiz turn. With editID set the existing
// message is edited instead.
func (h *Handler) sendTurn(c *app.Client, chatID int64, editID int) {
	round, ok := c.Quiz.Round()
	if !ok {
		h.sendView(c, chatID, entities.ViewQuiz, "")
		return
	}

	text := renderTurn(round, c.Quiz.Options())
	kb := buildTurnKeyboard(round, c.Quiz.Options())

	if editID != 0 {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, editID, text, kb)
		edit.ParseMode = tgbotapi.ModeHTML
		h.send(edit)
		return
	}

	msg := newHTMLMessage(chatID, text)
	msg.ReplyMarkup = kb
	h.send(msg)
}
