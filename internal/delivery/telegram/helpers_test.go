package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
)

func TestCallbackRoundTrip(t *testing.T) {
	cd := decodeCallback(buildResourceCallback(resourceConfirm, "0192f3a4-1111-7000-8000-000000000000"))
	assert.Equal(t, actionResource, cd.Action)
	assert.Equal(t, resourceConfirm, cd.param(0))
	assert.Equal(t, "0192f3a4-1111-7000-8000-000000000000", cd.param(1))
	assert.Equal(t, "", cd.param(2))

	assert.Equal(t, "tab:quiz", buildTabCallback(entities.ViewQuiz))
	assert.Equal(t, "res:mod:-1", buildResourceModuleCallback(allModulesIndex))
	assert.LessOrEqual(t, len(buildFeedbackCallback(feedbackReply, "0192f3a4-1111-7000-8000-000000000000")), 64)
}

func TestSplitPipe(t *testing.T) {
	assert.Equal(t, []string{"标题", "内容 | 带竖线"}, splitPipe("标题 | 内容 | 带竖线", 2))
	assert.Equal(t, []string{"标题", "内容", ""}, splitPipe(" 标题 |内容", 3))
	assert.Equal(t, []string{"", ""}, splitPipe("", 2))
}

func TestParseCaption(t *testing.T) {
	cmd, args := parseCaption("/upload@xueling_bot 真题 | 英语")
	assert.Equal(t, "upload", cmd)
	assert.Equal(t, "真题 | 英语", args)

	cmd, _ = parseCaption("just a file")
	assert.Equal(t, "", cmd)
}

func TestModuleAt(t *testing.T) {
	modules := []string{"英语", "数学"}

	m, ok := moduleAt(modules, "1")
	assert.True(t, ok)
	assert.Equal(t, "数学", m)

	m, ok = moduleAt(modules, "-1")
	assert.True(t, ok)
	assert.Equal(t, entities.AllModules, m)

	_, ok = moduleAt(modules, "2")
	assert.False(t, ok)
	_, ok = moduleAt(modules, "x")
	assert.False(t, ok)
}

func TestRenderTurnRespectsOptions(t *testing.T) {
	round, err := entities.NewQuizRound("雅思词汇", []entities.Word{
		{ID: "1", English: "strategy", Chinese: "策略", POS: "n.", IPA: "/x/"},
	})
	assert.NoError(t, err)

	text := renderTurn(*round, entities.DisplayOptions{FirstLetter: true})
	assert.Contains(t, text, "第 1/1 个")
	assert.Contains(t, text, "首字母：<b>s</b>")
	assert.NotContains(t, text, "策略")
	assert.Contains(t, text, msgQuizPrompt)
}

func TestRenderEscapesUserContent(t *testing.T) {
	text := renderForum("<quote>", []entities.Post{{Title: "a<b", Content: "x & y", Author: entities.AdminLabel, Provisional: true}})
	assert.Contains(t, text, "&lt;quote&gt;")
	assert.Contains(t, text, "a&lt;b")
	assert.Contains(t, text, "x &amp; y")
	assert.Contains(t, text, "同步中")
}

func TestRenderSuggestionsAttachment(t *testing.T) {
	path := "uploads/suggestions/a.pdf"
	list := []entities.Suggestion{{ID: "1", Phone: "13800138000", Content: "更多真题", Date: "2024-06-02", FileURL: &path}}

	admin := renderSuggestions("建议", list, func(p string) string { return "http://api/" + p })
	assert.Contains(t, admin, "来自：13800138000")
	assert.Contains(t, admin, `<a href="http://api/uploads/suggestions/a.pdf">附件</a>`)

	mine := renderSuggestions("我的建议", list, nil)
	assert.NotContains(t, mine, "来自")
	assert.NotContains(t, mine, "附件")
}
