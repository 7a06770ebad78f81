// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
	"github.com/aliskhannn/xueling-bot/internal/service"
)

const (
	msgWelcome = "欢迎来到 <b>学令教育</b>！\n\n" +
		"登录：/login 用户名 密码\n" +
		"注册：/register 用户名 手机号码 密码\n\n" +
		"发送 /help 查看全部命令。"
	msgLoginRequired   = "请先登录：/login 用户名 密码\n还没有账号？/register 用户名 手机号码 密码"
	msgLoggedOut       = "已退出登录。"
	msgUnknownCommand  = "未知命令，发送 /help 查看全部命令。"
	msgUseMenu         = "请使用下方菜单或发送 /help 查看命令。"
	msgPostUsage       = "用法：/post 标题 | 内容 | 链接（可选）"
	msgUploadUsage     = "发送文件并附上说明：\n/upload 资料标题 | 所属模块\n/words 模块名称（CSV/XLSX，三列：英文、音标、词性及中文）"
	msgReplyUsage      = "用法：/reply 建议编号 回复内容，或在后台管理中点击“回复”。"
	msgReplyPrompt     = "请直接发送回复内容："
	msgNoPosts         = "暂无帖子。"
	msgNoResources     = "该模块暂无资料。"
	msgNoSuggestions   = "暂无建议。"
	msgNoMistakes      = "错题本为空，继续保持！"
	msgNoWordsLocal    = "单词库为空。"
	msgQuizSelection   = "📖 <b>单词默写器</b>\n请选择词库模块："
	msgQuizFinished    = "🎉 本轮默写完成！"
	msgQuizPrompt      = "请发送英文拼写。"
	msgPostCreated     = "帖子已发布。"
	msgQuoteSaved      = "每日名言已更新。"
	msgResourceSynced  = "资料已上传，刷新后可下载。"
	msgPlaceholderFile = "资料同步中，请稍后刷新资料区再试。"
	msgSuggestionSent  = "建议已提交，感谢反馈！"
	msgSuggestionSaved = "建议已保存在本地，但发送失败："
	msgReplySent       = "回复已发送。"
	msgReplyFailed     = "回复发送失败，可点击重试："
	msgReplyCancelled  = "已取消回复。"
	msgWordRemoved     = "单词已从本地词库删除。"
	msgMistakeRemoved  = "已从错题本删除。"
	msgConfirmDownload = "确认下载该资料吗？"
	msgRefreshFailed   = "⚠️ 数据刷新失败，显示的是本地缓存："
)

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeHTML, s)
}

func renderHelp(s *entities.Session) string {
	var b strings.Builder
	b.WriteString("<b>命令列表</b>\n\n")
	b.WriteString("/login 用户名 密码 — 登录\n")
	b.WriteString("/register 用户名 手机号码 密码 — 注册\n")
	b.WriteString("/logout — 退出登录\n")
	b.WriteString("/forum — 论坛区\n")
	b.WriteString("/resources — 资料区\n")
	b.WriteString("/suggest 内容 — 提交建议\n")
	b.WriteString("/mine — 我的建议\n")
	b.WriteString("/quiz — 单词默写器\n")
	b.WriteString("/mistakes — 错题本\n")

	if s.IsAdmin() {
		b.WriteString("\n<b>管理员</b>\n")
		b.WriteString("/post 标题 | 内容 | 链接 — 发布帖子\n")
		b.WriteString("/quote 内容 — 修改每日名言\n")
		b.WriteString("/admin — 后台管理\n")
		b.WriteString("/reply 编号 内容 — 回复建议\n")
		b.WriteString("/words — 本地单词库\n")
		b.WriteString("发送文件：/upload 标题 | 模块，或 /words 模块\n")
	}
	return b.String()
}

func renderSession(s *entities.Session) string {
	if s == nil {
		return msgLoginRequired
	}
	return fmt.Sprintf("你好，<b>%s</b>（%s）", escape(s.Username), s.RoleLabel())
}

func provisionalMark(provisional bool) string {
	if provisional {
		return " <i>（同步中）</i>"
	}
	return ""
}

func renderForum(quote string, posts []entities.Post) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💬 <b>%s</b>\n\n", entities.ViewForum.Title())
	fmt.Fprintf(&b, "🌟 <i>%s</i>\n\n", escape(quote))

	if len(posts) == 0 {
		b.WriteString(msgNoPosts)
		return b.String()
	}

	for _, p := range posts {
		fmt.Fprintf(&b, "<b>%s</b>%s\n", escape(p.Title), provisionalMark(p.Provisional))
		fmt.Fprintf(&b, "%s\n", escape(p.Content))
		if p.Link != nil {
			fmt.Fprintf(&b, "🔗 %s\n", escape(*p.Link))
		}
		fmt.Fprintf(&b, "— %s · %s\n\n", escape(p.Author), p.Date)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderResources(module string, resources []entities.Resource) string {
	if module == "" {
		module = entities.AllModules
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📚 <b>%s</b> · %s\n\n", entities.ViewResources.Title(), escape(module))
	if len(resources) == 0 {
		b.WriteString(msgNoResources)
		return b.String()
	}

	for i, r := range resources {
		fmt.Fprintf(&b, "%d. %s %s [%s] %s%s\n",
			i+1, categoryIcon(r.Category()), escape(r.Title), escape(r.Module), r.Date, provisionalMark(r.Provisional))
	}
	return strings.TrimRight(b.String(), "\n")
}

func categoryIcon(c entities.ResourceCategory) string {
	switch c {
	case entities.CategoryImage:
		return "🖼"
	case entities.CategoryPDF:
		return "📕"
	case entities.CategoryText:
		return "📝"
	default:
		return "📦"
	}
}

func renderResource(r entities.Resource) string {
	text := fmt.Sprintf("%s <b>%s</b>\n模块：%s\n日期：%s",
		categoryIcon(r.Category()), escape(r.Title), escape(r.Module), r.Date)
	if !r.Category().Previewable() {
		text += "\n\n该文件类型不支持预览，请下载查看。"
	}
	return text
}

// renderSuggestions lists suggestions. With fileURL set the author and the
// attachment link are shown as well.
func renderSuggestions(title string, list []entities.Suggestion, fileURL func(string) string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📮 <b>%s</b>\n\n", title)
	if len(list) == 0 {
		b.WriteString(msgNoSuggestions)
		return b.String()
	}

	for _, s := range list {
		fmt.Fprintf(&b, "#%s [%s] %s%s\n", escape(shortID(s.ID)), s.Status(), s.Date, provisionalMark(s.Provisional))
		if fileURL != nil {
			fmt.Fprintf(&b, "来自：%s\n", escape(s.Phone))
		}
		fmt.Fprintf(&b, "%s\n", escape(s.Content))
		if fileURL != nil && s.FileURL != nil {
			fmt.Fprintf(&b, "📎 <a href=\"%s\">附件</a>\n", escape(fileURL(*s.FileURL)))
		}
		if s.Feedback != nil {
			fmt.Fprintf(&b, "↳ 回复：%s\n", escape(*s.Feedback))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// shortID keeps client-generated ids readable in lists.
func shortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}

func renderTurn(r entities.QuizRound, opts entities.DisplayOptions) string {
	w := r.Current()
	pos, total := r.Position()

	var b strings.Builder
	fmt.Fprintf(&b, "📝 <b>%s</b> · 第 %d/%d 个\n\n", escape(r.Module), pos, total)
	for _, h := range w.Hint(opts) {
		fmt.Fprintf(&b, "%s：<b>%s</b>\n", h.Label, escape(h.Value))
	}

	if r.Turn == entities.TurnAnswered {
		b.WriteString("\n")
		b.WriteString(renderAnswer(r.Correct, w.English, false))
		return b.String()
	}
	b.WriteString("\n")
	b.WriteString(msgQuizPrompt)
	return b.String()
}

func renderAnswer(correct bool, expected string, mistakeAdded bool) string {
	if correct {
		return "✅ 回答正确！"
	}
	text := fmt.Sprintf("❌ 回答错误，正确答案：<b>%s</b>", escape(expected))
	if mistakeAdded {
		text += "\n已加入错题本。"
	}
	return text
}

func renderAnswerResult(res service.AnswerResult) string {
	return renderAnswer(res.Correct, res.Expected, res.MistakeAdded)
}

func renderMistakes(list []entities.Mistake) string {
	var b strings.Builder
	b.WriteString("📒 <b>错题本</b>\n\n")
	if len(list) == 0 {
		b.WriteString(msgNoMistakes)
		return b.String()
	}
	for i, m := range list {
		fmt.Fprintf(&b, "%d. <b>%s</b> %s · %s\n", i+1, escape(m.English), escape(m.Chinese), m.Date)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderWords(list []entities.Word) string {
	var b strings.Builder
	b.WriteString("🗂 <b>本地单词库</b>\n\n")
	if len(list) == 0 {
		b.WriteString(msgNoWordsLocal)
		return b.String()
	}
	for i, w := range list {
		fmt.Fprintf(&b, "%d. <b>%s</b> %s %s [%s]\n", i+1, escape(w.English), escape(w.POS), escape(w.Chinese), escape(w.Module))
	}
	b.WriteString("\n")
	b.WriteString(msgUploadUsage)
	return b.String()
}

func renderNotice(err error) string {
	return "⚠️ " + escape(service.UserMessage(err))
}
