package telegram

import (
	"bytes"
	"context"
	"path"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/xueling-bot/internal/app"
	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
	"github.com/aliskhannn/xueling-bot/internal/service"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Remove the user's "clock".
	defer h.request(tgbotapi.NewCallback(cb.ID, ""))

	if cb.Message == nil {
		return
	}

	chatID := cb.Message.Chat.ID
	c := h.client(ctx, chatID)
	data := decodeCallback(cb.Data)

	var fn HandlerFunc
	switch data.Action {
	case actionTab:
		view, ok := entities.ParseView(data.param(0))
		if !ok {
			h.logger.Debug("invalid tab callback", zap.String("data", cb.Data))
			return
		}
		fn = h.viewHandler(c, view)
	case actionResource:
		fn = h.resourceCallback(c, data)
	case actionQuiz:
		fn = h.quizCallback(c, data, cb.Message.MessageID)
	case actionMistake:
		fn = h.removeMistakeHandler(c, data.param(1))
	case actionWord:
		fn = h.removeWordHandler(c, data.param(1))
	case actionFeedback:
		fn = h.feedbackCallback(c, data)
	case actionMine:
		fn = h.mineHandler(c)
	default:
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

// moduleAt resolves a module keyboard index against the current list.
func moduleAt(modules []string, raw string) (string, bool) {
	i, err := strconv.Atoi(raw)
	if err != nil {
		return "", false
	}
	if i == allModulesIndex {
		return entities.AllModules, true
	}
	if i < 0 || i >= len(modules) {
		return "", false
	}
	return modules[i], true
}

func (h *Handler) resourceCallback(c *app.Client, data callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if c.Sessions.Current() == nil {
			return service.ErrNotAuthenticated
		}

		switch data.param(0) {
		case resourceModule:
			module, ok := moduleAt(c.Library.Modules(), data.param(1))
			if !ok {
				return service.ErrNotFound
			}
			list := head(c.Library.ListByModule(module))
			msg := newHTMLMessage(chatID, renderResources(module, list))
			kb := tgbotapi.NewInlineKeyboardMarkup(buildResourcesKeyboard(c.Library.Modules(), list)...)
			msg.ReplyMarkup = kb
			h.send(msg)
			return nil

		case resourceOpen:
			return h.previewResource(ctx, c, chatID, data.param(1))

		case resourceDownload:
			if _, ok := c.Library.Find(data.param(1)); !ok {
				return service.ErrNotFound
			}
			msg := newHTMLMessage(chatID, msgConfirmDownload)
			msg.ReplyMarkup = buildConfirmDownloadKeyboard(data.param(1))
			h.send(msg)
			return nil

		case resourceConfirm:
			return h.downloadResource(ctx, c, chatID, data.param(1))
		}
		return nil
	}
}

// previewResource shows images and PDFs inline and text files as a message.
// Other types only get the details with a download button.
func (h *Handler) previewResource(ctx context.Context, c *app.Client, chatID int64, id string) error {
	r, ok := c.Library.Find(id)
	if !ok {
		return service.ErrNotFound
	}
	if r.URL == entities.PlaceholderURL {
		h.send(newHTMLMessage(chatID, renderResource(r)+"\n\n"+msgPlaceholderFile))
		return nil
	}

	caption := renderResource(r)
	kb := buildResourceKeyboard(r)

	switch r.Category() {
	case entities.CategoryImage, entities.CategoryPDF:
		data, err := h.fetch(ctx, c.FileURL(r.URL))
		if err != nil {
			return err
		}
		file := tgbotapi.FileReader{Name: path.Base(r.URL), Reader: bytes.NewReader(data)}

		if r.Category() == entities.CategoryImage {
			photo := tgbotapi.NewPhoto(chatID, file)
			photo.Caption = caption
			photo.ParseMode = tgbotapi.ModeHTML
			photo.ReplyMarkup = kb
			h.send(photo)
			return nil
		}
		doc := tgbotapi.NewDocument(chatID, file)
		doc.Caption = caption
		doc.ParseMode = tgbotapi.ModeHTML
		doc.ReplyMarkup = kb
		h.send(doc)
		return nil

	case entities.CategoryText:
		data, err := h.fetch(ctx, c.FileURL(r.URL))
		if err != nil {
			return err
		}
		text := string(data)
		if runes := []rune(text); len(runes) > 3000 {
			text = string(runes[:3000]) + "…"
		}
		msg := newHTMLMessage(chatID, caption+"\n\n<pre>"+escape(text)+"</pre>")
		msg.ReplyMarkup = kb
		h.send(msg)
		return nil
	}

	msg := newHTMLMessage(chatID, caption)
	msg.ReplyMarkup = kb
	h.send(msg)
	return nil
}

func (h *Handler) downloadResource(ctx context.Context, c *app.Client, chatID int64, id string) error {
	r, ok := c.Library.Find(id)
	if !ok {
		return service.ErrNotFound
	}
	if r.URL == entities.PlaceholderURL {
		h.send(newHTMLMessage(chatID, msgPlaceholderFile))
		return nil
	}

	data, err := h.fetch(ctx, c.FileURL(r.URL))
	if err != nil {
		return err
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileReader{Name: path.Base(r.URL), Reader: bytes.NewReader(data)})
	doc.Caption = escape(r.Title)
	doc.ParseMode = tgbotapi.ModeHTML
	h.send(doc)
	return nil
}

func (h *Handler) quizCallback(c *app.Client, data callbackData, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		switch data.param(0) {
		case quizStart:
			module, ok := moduleAt(c.Quiz.Modules(), data.param(1))
			if !ok || module == entities.AllModules {
				return service.ErrNotFound
			}
			if err := c.Quiz.StartQuiz(ctx, module); err != nil {
				return err
			}
			h.sendTurn(c, chatID, 0)
			return nil

		case quizNext:
			done, err := c.Quiz.NextWord()
			if err != nil {
				return err
			}
			if done {
				h.send(newHTMLMessage(chatID, msgQuizFinished))
				h.sendView(c, chatID, entities.ViewQuiz, "")
				return nil
			}
			h.sendTurn(c, chatID, 0)
			return nil

		case quizOption:
			c.Quiz.Toggle(entities.DisplayOption(data.param(1)))
			if _, ok := c.Quiz.Round(); !ok {
				return service.ErrNotInQuiz
			}
			h.sendTurn(c, chatID, messageID)
			return nil

		case quizBack:
			c.Quiz.Back()
			h.sendView(c, chatID, entities.ViewQuiz, "")
			return nil

		case quizMistakes:
			return h.mistakesHandler(c)(ctx, chatID)

		case quizAdmin:
			return h.wordsHandler(c)(ctx, chatID)
		}
		return nil
	}
}

func (h *Handler) removeMistakeHandler(c *app.Client, id string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := c.Quiz.RemoveMistake(ctx, id); err != nil {
			return err
		}

		list := head(c.Quiz.Mistakes())
		msg := newHTMLMessage(chatID, msgMistakeRemoved+"\n\n"+renderMistakes(list))
		msg.ReplyMarkup = buildMistakesKeyboard(list)
		h.send(msg)
		return nil
	}
}

func (h *Handler) removeWordHandler(c *app.Client, id string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := c.Quiz.RemoveWord(ctx, id); err != nil {
			return err
		}

		list := head(c.Quiz.Words())
		msg := newHTMLMessage(chatID, msgWordRemoved+"\n\n"+renderWords(list))
		msg.ReplyMarkup = buildWordsKeyboard(list)
		h.send(msg)
		return nil
	}
}

func (h *Handler) feedbackCallback(c *app.Client, data callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		switch data.param(0) {
		case feedbackReply:
			return h.beginReply(c, chatID, data.param(1))

		case feedbackRetry:
			d, ok := c.Feedback.Draft()
			if !ok {
				return service.ErrNoDraft
			}
			return h.sendReply(ctx, c, chatID, d.SuggestionID, d.Text)

		case feedbackCancel:
			c.Feedback.CancelReply()
			h.send(newHTMLMessage(chatID, msgReplyCancelled))
		}
		return nil
	}
}
