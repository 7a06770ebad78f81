package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
)

// maxListButtons keeps keyboards under the Telegram button limit.
const maxListButtons = 30

// buildTabsRow builds the tab bar, marking the active tab.
func buildTabsRow(tabs []entities.View, active entities.View) []tgbotapi.InlineKeyboardButton {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(tabs))
	for _, v := range tabs {
		title := v.Title()
		if v == active {
			title = "• " + title
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(title, buildTabCallback(v)))
	}
	return row
}

func withTabs(rows [][]tgbotapi.InlineKeyboardButton, tabs []entities.View, active entities.View) *tgbotapi.InlineKeyboardMarkup {
	if len(tabs) > 0 {
		rows = append(rows, buildTabsRow(tabs, active))
	}
	if len(rows) == 0 {
		return nil
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// buildResourcesKeyboard builds the module filter and one button per resource.
func buildResourcesKeyboard(modules []string, resources []entities.Resource) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton

	filter := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData(entities.AllModules, buildResourceModuleCallback(allModulesIndex)),
	}
	for i, m := range modules {
		filter = append(filter, tgbotapi.NewInlineKeyboardButtonData(m, buildResourceModuleCallback(i)))
		if len(filter) == 3 {
			rows = append(rows, filter)
			filter = nil
		}
	}
	if len(filter) > 0 {
		rows = append(rows, filter)
	}

	for i, r := range resources {
		if i == maxListButtons {
			break
		}
		label := fmt.Sprintf("%d. %s", i+1, r.Title)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildResourceCallback(resourceOpen, r.ID)),
		))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📮 我的建议", buildMineCallback()),
	))
	return rows
}

func buildResourceKeyboard(r entities.Resource) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬇️ 下载", buildResourceCallback(resourceDownload, r.ID)),
		),
	)
}

func buildConfirmDownloadKeyboard(id string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ 确认下载", buildResourceCallback(resourceConfirm, id)),
		),
	)
}

// buildQuizSelectionKeyboard lists the modules plus the mistake book and,
// for admins, the word administration.
func buildQuizSelectionKeyboard(modules []string, admin bool) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, m := range modules {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("▶️ "+m, buildQuizStartCallback(i)),
		))
	}

	extra := tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📒 错题本", buildQuizCallback(quizMistakes)),
	)
	if admin {
		extra = append(extra, tgbotapi.NewInlineKeyboardButtonData("🗂 单词管理", buildQuizCallback(quizAdmin)))
	}
	return append(rows, extra)
}

func optionLabel(title string, on bool) string {
	if on {
		return "☑️ " + title
	}
	return "⬜ " + title
}

// buildTurnKeyboard builds display toggles, next after an answer, and back.
func buildTurnKeyboard(r entities.QuizRound, opts entities.DisplayOptions) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(optionLabel("中文", opts.Chinese), buildQuizOptionCallback(entities.OptionChinese)),
			tgbotapi.NewInlineKeyboardButtonData(optionLabel("首字母", opts.FirstLetter), buildQuizOptionCallback(entities.OptionFirstLetter)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(optionLabel("词性", opts.POS), buildQuizOptionCallback(entities.OptionPOS)),
			tgbotapi.NewInlineKeyboardButtonData(optionLabel("音标", opts.IPA), buildQuizOptionCallback(entities.OptionIPA)),
		),
	}

	if r.Turn == entities.TurnAnswered {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("下一个 ▶️", buildQuizCallback(quizNext)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ 返回", buildQuizCallback(quizBack)),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func buildMistakesKeyboard(list []entities.Mistake) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, m := range list {
		if i == maxListButtons {
			break
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 "+m.English, buildMistakeDeleteCallback(m.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ 返回", buildQuizCallback(quizBack)),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func buildWordsKeyboard(list []entities.Word) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, w := range list {
		if i == maxListButtons {
			break
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 "+w.English, buildWordDeleteCallback(w.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ 返回", buildQuizCallback(quizBack)),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildSuggestionsKeyboard offers a reply button for every pending suggestion.
func buildSuggestionsKeyboard(list []entities.Suggestion) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, s := range list {
		if len(rows) == maxListButtons {
			break
		}
		if s.Replied() {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ 回复 #"+shortID(s.ID), buildFeedbackCallback(feedbackReply, s.ID)),
		))
	}
	return rows
}

func buildRetryKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 重试", buildFeedbackCallback(feedbackRetry)),
			tgbotapi.NewInlineKeyboardButtonData("✖️ 取消", buildFeedbackCallback(feedbackCancel)),
		),
	)
}
