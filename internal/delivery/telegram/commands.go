package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/xueling-bot/internal/app"
	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
	"github.com/aliskhannn/xueling-bot/internal/service"
)

// Commands lists the bot commands shown in the Telegram menu.
func Commands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "start", Description: "开始使用"},
		{Command: "login", Description: "登录：/login 用户名 密码"},
		{Command: "register", Description: "注册：/register 用户名 手机号码 密码"},
		{Command: "forum", Description: "论坛区"},
		{Command: "resources", Description: "资料区"},
		{Command: "quiz", Description: "单词默写器"},
		{Command: "mistakes", Description: "错题本"},
		{Command: "suggest", Description: "提交建议：/suggest 内容"},
		{Command: "mine", Description: "我的建议"},
		{Command: "admin", Description: "后台管理"},
		{Command: "logout", Description: "退出登录"},
		{Command: "help", Description: "帮助"},
	}
}

func (h *Handler) handleCommand(ctx context.Context, c *app.Client, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	args := strings.TrimSpace(msg.CommandArguments())

	var fn HandlerFunc
	switch msg.Command() {
	case "start":
		fn = h.startHandler(c)
	case "help":
		fn = h.textReply(func() string { return renderHelp(c.Sessions.Current()) })
	case "login":
		fn = h.loginHandler(c, args, msg.MessageID)
	case "register":
		fn = h.registerHandler(c, args, msg.MessageID)
	case "logout":
		fn = h.logoutHandler(c)
	case "forum":
		fn = h.viewHandler(c, entities.ViewForum)
	case "resources":
		fn = h.viewHandler(c, entities.ViewResources)
	case "quiz":
		fn = h.viewHandler(c, entities.ViewQuiz)
	case "admin":
		fn = h.viewHandler(c, entities.ViewAdmin)
	case "post":
		fn = h.postHandler(c, args)
	case "quote":
		fn = h.quoteHandler(c, args)
	case "suggest":
		fn = h.suggestHandler(c, args)
	case "mine":
		fn = h.mineHandler(c)
	case "mistakes":
		fn = h.mistakesHandler(c)
	case "words":
		fn = h.wordsHandler(c)
	case "reply":
		fn = h.replyHandler(c, args)
	case "upload":
		fn = h.textReply(func() string { return msgUploadUsage })
	default:
		fn = h.textReply(func() string { return msgUnknownCommand })
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

func (h *Handler) textReply(text func() string) HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		h.send(newHTMLMessage(chatID, text()))
		return nil
	}
}

func (h *Handler) startHandler(c *app.Client) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		s := c.Sessions.Current()
		if s == nil {
			h.send(newHTMLMessage(chatID, msgWelcome))
			return nil
		}

		h.send(newHTMLMessage(chatID, renderSession(s)))
		return h.viewHandler(c, c.Router.ActiveView())(ctx, chatID)
	}
}

// Credentials are space separated, so none of them may contain a space.
var errTooManyFields = &service.ValidationError{Field: "Password", Message: "用户名、手机号码和密码不能包含空格"}

func (h *Handler) loginHandler(c *app.Client, args string, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if args != "" {
			h.deleteMessage(chatID, messageID)
		}

		parts := strings.Fields(args)
		if len(parts) > 2 {
			return errTooManyFields
		}
		s, err := c.Sessions.Login(ctx, field(parts, 0), field(parts, 1))
		if err != nil {
			return err
		}

		h.send(newHTMLMessage(chatID, renderSession(s)))
		return h.viewHandler(c, entities.ViewForum)(ctx, chatID)
	}
}

func (h *Handler) registerHandler(c *app.Client, args string, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if args != "" {
			h.deleteMessage(chatID, messageID)
		}

		parts := strings.Fields(args)
		if len(parts) > 3 {
			return errTooManyFields
		}
		s, err := c.Sessions.Register(ctx, field(parts, 0), field(parts, 1), field(parts, 2))
		if err != nil {
			return err
		}

		h.send(newHTMLMessage(chatID, "注册成功！"+renderSession(s)))
		return h.viewHandler(c, entities.ViewForum)(ctx, chatID)
	}
}

func (h *Handler) logoutHandler(c *app.Client) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		c.Sessions.Logout(ctx)
		h.send(newHTMLMessage(chatID, msgLoggedOut))
		return nil
	}
}

func (h *Handler) postHandler(c *app.Client, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if args == "" {
			if !c.Sessions.Current().IsAdmin() {
				return service.ErrForbidden
			}
			h.send(newHTMLMessage(chatID, msgPostUsage))
			return nil
		}

		parts := splitPipe(args, 3)
		if _, err := c.Forum.CreatePost(ctx, parts[0], parts[1], parts[2]); err != nil {
			return err
		}

		h.send(newHTMLMessage(chatID, msgPostCreated))
		h.sendView(c, chatID, entities.ViewForum, "")
		return nil
	}
}

// localFirst reports whether err left a local change in place, so the user
// gets a partial success instead of a plain failure.
func localFirst(err error) bool {
	var ve *service.ValidationError
	return !errors.As(err, &ve) &&
		!errors.Is(err, service.ErrForbidden) &&
		!errors.Is(err, service.ErrNotAuthenticated)
}

func (h *Handler) quoteHandler(c *app.Client, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if args == "" {
			h.send(newHTMLMessage(chatID, "🌟 <i>"+escape(c.Forum.Quote())+"</i>"))
			return nil
		}

		err := c.Forum.SaveQuote(ctx, args)
		switch {
		case err == nil:
			h.send(newHTMLMessage(chatID, msgQuoteSaved))
		case localFirst(err):
			h.send(newHTMLMessage(chatID, msgQuoteSaved+"\n"+renderNotice(err)))
		default:
			return err
		}
		return nil
	}
}

func (h *Handler) suggestHandler(c *app.Client, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		_, err := c.Library.SubmitSuggestion(ctx, args)
		switch {
		case err == nil:
			h.send(newHTMLMessage(chatID, msgSuggestionSent))
		case localFirst(err):
			h.send(newHTMLMessage(chatID, msgSuggestionSaved+escape(service.UserMessage(err))))
		default:
			return err
		}
		return nil
	}
}

func (h *Handler) mineHandler(c *app.Client) HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		if c.Sessions.Current() == nil {
			return service.ErrNotAuthenticated
		}
		h.send(newHTMLMessage(chatID, renderSuggestions("我的建议", head(c.Library.MySuggestions()), nil)))
		return nil
	}
}

func (h *Handler) mistakesHandler(c *app.Client) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := c.Quiz.OpenMistakes(ctx)
		if errors.Is(err, service.ErrNotAuthenticated) {
			return err
		}

		notice := ""
		if err != nil {
			notice = msgRefreshFailed + escape(service.UserMessage(err)) + "\n\n"
		}

		list := head(c.Quiz.Mistakes())
		msg := newHTMLMessage(chatID, notice+renderMistakes(list))
		msg.ReplyMarkup = buildMistakesKeyboard(list)
		h.send(msg)
		return nil
	}
}

func (h *Handler) wordsHandler(c *app.Client) HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		if err := c.Quiz.OpenAdmin(); err != nil {
			return err
		}

		list := head(c.Quiz.Words())
		msg := newHTMLMessage(chatID, renderWords(list))
		msg.ReplyMarkup = buildWordsKeyboard(list)
		h.send(msg)
		return nil
	}
}

// replyHandler answers "/reply id text". With only an id it opens a draft.
func (h *Handler) replyHandler(c *app.Client, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		id, text := splitFirst(args)
		if id == "" {
			if !c.Sessions.Current().IsAdmin() {
				return service.ErrForbidden
			}
			h.send(newHTMLMessage(chatID, msgReplyUsage))
			return nil
		}
		if text == "" {
			return h.beginReply(c, chatID, id)
		}
		return h.sendReply(ctx, c, chatID, id, text)
	}
}

func (h *Handler) beginReply(c *app.Client, chatID int64, id string) error {
	sug, err := c.Feedback.BeginReply(id)
	if err != nil {
		return err
	}
	h.send(newHTMLMessage(chatID, "回复 #"+escape(shortID(sug.ID))+"：\n"+escape(sug.Content)+"\n\n"+msgReplyPrompt))
	return nil
}

// sendReply sends a reply. A failed send keeps the draft and offers a retry.
func (h *Handler) sendReply(ctx context.Context, c *app.Client, chatID int64, id, text string) error {
	err := c.Feedback.Reply(ctx, id, text)
	if err == nil {
		h.send(newHTMLMessage(chatID, msgReplySent))
		return nil
	}
	if !localFirst(err) || errors.Is(err, service.ErrNotFound) {
		return err
	}

	h.logger.Warn("reply not delivered",
		zap.Int64("chat_id", chatID),
		zap.String("suggestion_id", id),
		zap.Error(err),
	)
	msg := newHTMLMessage(chatID, msgReplyFailed+"\n"+renderNotice(err))
	msg.ReplyMarkup = buildRetryKeyboard()
	h.send(msg)
	return nil
}

// textHandler routes plain text: quiz answers first, then an open reply draft.
func (h *Handler) textHandler(c *app.Client, text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if c.Sessions.Current() == nil {
			h.send(newHTMLMessage(chatID, msgLoginRequired))
			return nil
		}
		if strings.TrimSpace(text) == "" {
			h.send(newHTMLMessage(chatID, msgUseMenu))
			return nil
		}

		if c.Quiz.View() == entities.QuizActive {
			res, err := c.Quiz.CheckAnswer(ctx, text)
			if err != nil {
				return err
			}

			round, _ := c.Quiz.Round()
			msg := newHTMLMessage(chatID, renderAnswerResult(res))
			msg.ReplyMarkup = buildTurnKeyboard(round, c.Quiz.Options())
			h.send(msg)
			return nil
		}

		if d, ok := c.Feedback.Draft(); ok {
			return h.sendReply(ctx, c, chatID, d.SuggestionID, text)
		}

		h.send(newHTMLMessage(chatID, msgUseMenu))
		return nil
	}
}

// documentHandler uploads a resource or a word sheet depending on the caption.
func (h *Handler) documentHandler(c *app.Client, msg *tgbotapi.Message) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		cmd, args := parseCaption(msg.Caption)
		if cmd != "upload" && cmd != "words" {
			h.send(newHTMLMessage(chatID, msgUploadUsage))
			return nil
		}

		s := c.Sessions.Current()
		if s == nil {
			return service.ErrNotAuthenticated
		}
		if !s.IsAdmin() {
			return service.ErrForbidden
		}

		file, err := h.downloadDocument(ctx, msg.Document)
		if err != nil {
			return err
		}

		if cmd == "words" {
			result, err := c.Quiz.UploadWords(ctx, args, file)
			if err != nil {
				return err
			}
			h.send(newHTMLMessage(chatID, "✅ "+escape(result)))
			return nil
		}

		parts := splitPipe(args, 2)
		if _, err := c.Library.Upload(ctx, parts[0], parts[1], file); err != nil {
			return err
		}
		h.send(newHTMLMessage(chatID, msgResourceSynced))
		return nil
	}
}
