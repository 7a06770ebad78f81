package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/xueling-bot/internal/api"
	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
)

var quizWords = []entities.Word{
	{ID: "1", English: "strategy", Chinese: "策略", Module: "雅思词汇"},
	{ID: "2", English: "innovation", Chinese: "创新", Module: "雅思词汇"},
}

func newQuiz(t *testing.T, fake *fakeAPI, session *entities.Session) (*QuizService, *syncDispatcher) {
	t.Helper()
	st, _ := newState(t)
	d := &syncDispatcher{}
	s := NewQuizService(fake, st, staticSession{session}, d, NewValidator(), 20, []string{"考研词汇", "雅思词汇"}, zap.NewNop())
	s.now = fixedClock
	s.newID = sequentialIDs()
	s.shuffle = func([]entities.Word) {}
	return s, d
}

func countCalls(calls []string, name string) int {
	n := 0
	for _, c := range calls {
		if c == name {
			n++
		}
	}
	return n
}

func TestStartQuizWithoutWords(t *testing.T) {
	s, _ := newQuiz(t, &fakeAPI{}, userSession)

	err := s.StartQuiz(context.Background(), "考研词汇")
	assert.ErrorIs(t, err, ErrNoWords)
	assert.Equal(t, entities.QuizSelection, s.View())
	_, ok := s.Round()
	assert.False(t, ok)
}

func TestStartQuizMergesCatalog(t *testing.T) {
	s, _ := newQuiz(t, &fakeAPI{words: quizWords}, userSession)

	require.NoError(t, s.StartQuiz(context.Background(), "雅思词汇"))
	assert.Equal(t, entities.QuizActive, s.View())
	assert.Len(t, s.Words(), len(entities.SeedWords)+2)

	// Fetched words are merged by id, never duplicated.
	require.NoError(t, s.StartQuiz(context.Background(), "雅思词汇"))
	assert.Len(t, s.Words(), len(entities.SeedWords)+2)
}

func TestAnswerIsTrimmedAndCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	fake := &fakeAPI{words: quizWords}
	s, _ := newQuiz(t, fake, userSession)
	require.NoError(t, s.StartQuiz(ctx, "雅思词汇"))

	s.Toggle(entities.OptionChinese)
	s.Toggle(entities.OptionIPA)

	res, err := s.CheckAnswer(ctx, "  StrAtegy ")
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.False(t, res.MistakeAdded)
	assert.Empty(t, s.Mistakes())
	assert.Zero(t, countCalls(fake.Calls(), "add mistake"))
}

func TestTurnStateMachine(t *testing.T) {
	ctx := context.Background()
	s, _ := newQuiz(t, &fakeAPI{words: quizWords}, userSession)

	_, err := s.NextWord()
	assert.ErrorIs(t, err, ErrNotInQuiz)

	require.NoError(t, s.StartQuiz(ctx, "雅思词汇"))

	_, err = s.NextWord()
	assert.ErrorIs(t, err, entities.ErrTurnNotAnswered)

	w, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "strategy", w.English)

	_, err = s.CheckAnswer(ctx, "strategy")
	require.NoError(t, err)
	_, err = s.CheckAnswer(ctx, "again")
	assert.ErrorIs(t, err, entities.ErrTurnAnswered)

	done, err := s.NextWord()
	require.NoError(t, err)
	assert.False(t, done)

	round, ok := s.Round()
	require.True(t, ok)
	assert.Equal(t, "innovation", round.Current().English)
	assert.Equal(t, entities.TurnAwaiting, round.Turn)

	_, err = s.CheckAnswer(ctx, "innovation")
	require.NoError(t, err)
	done, err = s.NextWord()
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, entities.QuizSelection, s.View())

	_, ok = s.Current()
	assert.False(t, ok)
}

func TestWrongAnswerAddsMistakeOnce(t *testing.T) {
	ctx := context.Background()
	fake := &fakeAPI{words: quizWords[:1]}
	s, d := newQuiz(t, fake, userSession)

	for i := 0; i < 2; i++ {
		require.NoError(t, s.StartQuiz(ctx, "雅思词汇"))
		res, err := s.CheckAnswer(ctx, "stratagy")
		require.NoError(t, err)
		assert.False(t, res.Correct)
		assert.Equal(t, "strategy", res.Expected)
		assert.Equal(t, i == 0, res.MistakeAdded)
		_, err = s.NextWord()
		require.NoError(t, err)
	}

	mistakes := s.Mistakes()
	require.Len(t, mistakes, 1)
	assert.Equal(t, entities.Mistake{ID: "local-1", UserID: "5", WordID: "1", English: "strategy", Chinese: "策略", Date: "2024-05-20"}, mistakes[0])
	assert.Equal(t, 1, countCalls(fake.Calls(), "add mistake"))
	assert.Empty(t, d.errs)
}

func TestMistakeSyncFailureIsNotSurfaced(t *testing.T) {
	ctx := context.Background()
	fake := &fakeAPI{words: quizWords}
	s, d := newQuiz(t, fake, userSession)
	require.NoError(t, s.StartQuiz(ctx, "雅思词汇"))

	fake.err = api.ErrTransport
	res, err := s.CheckAnswer(ctx, "wrong")
	require.NoError(t, err)
	assert.True(t, res.MistakeAdded)
	assert.Len(t, s.Mistakes(), 1)
	assert.Len(t, d.errs, 1)
}

func TestOpenMistakes(t *testing.T) {
	ctx := context.Background()
	fake := &fakeAPI{mistakes: []entities.Mistake{
		{ID: "8", WordID: "1", Date: "2024-05-01"},
		{ID: "9", WordID: "2", Date: "2024-05-03"},
	}}
	s, _ := newQuiz(t, fake, userSession)

	require.NoError(t, s.OpenMistakes(ctx))
	assert.Equal(t, entities.QuizMistakes, s.View())
	mistakes := s.Mistakes()
	require.Len(t, mistakes, 2)
	assert.Equal(t, "9", mistakes[0].ID)

	fake.err = api.ErrTransport
	assert.Error(t, s.OpenMistakes(ctx))
	assert.Equal(t, entities.QuizMistakes, s.View())
	assert.Len(t, s.Mistakes(), 2)

	s.Back()
	assert.Equal(t, entities.QuizSelection, s.View())
}

func TestRemoveMistake(t *testing.T) {
	ctx := context.Background()
	fake := &fakeAPI{mistakes: []entities.Mistake{{ID: "8"}, {ID: "9"}}}
	s, _ := newQuiz(t, fake, userSession)
	require.NoError(t, s.OpenMistakes(ctx))

	fake.err = api.ErrTransport
	assert.Error(t, s.RemoveMistake(ctx, "8"))
	assert.Len(t, s.Mistakes(), 2)

	fake.err = nil
	require.NoError(t, s.RemoveMistake(ctx, "8"))
	assert.Equal(t, []entities.Mistake{{ID: "9", UserID: "5"}}, s.Mistakes())

	fake.err = &api.Error{StatusCode: http.StatusNotFound}
	assert.Error(t, s.RemoveMistake(ctx, "9"))
	assert.Equal(t, []entities.Mistake{{ID: "9", UserID: "5"}}, s.Mistakes())
}

func TestUploadWords(t *testing.T) {
	ctx := context.Background()
	fake := &fakeAPI{}
	s, _ := newQuiz(t, fake, adminSession)

	csvBody := "abandon,/əˈbændən/,vt.放弃\nability,/əˈbɪləti/,n.能力\n"
	msg, err := s.UploadWords(ctx, "考研词汇", api.Upload{Name: "words.CSV", Body: strings.NewReader(csvBody)})
	require.NoError(t, err)
	assert.Equal(t, "导入成功", msg)
	assert.Equal(t, csvBody, string(fake.uploaded))

	_, err = s.UploadWords(ctx, "考研词汇", api.Upload{Name: "words.csv", Body: strings.NewReader("abandon,vt.放弃\n")})
	assert.Equal(t, "单词文件必须为三列：英文、音标、词性及中文", UserMessage(err))

	_, err = s.UploadWords(ctx, "考研词汇", api.Upload{Name: "words.txt", Body: strings.NewReader("x")})
	assert.Equal(t, "仅支持 .csv、.xlsx、.xls 文件", UserMessage(err))

	_, err = s.UploadWords(ctx, "", api.Upload{Name: "words.xlsx", Body: strings.NewReader("PK")})
	assert.Equal(t, "请填写模块名称", UserMessage(err))

	_, err = s.UploadWords(ctx, "考研词汇", api.Upload{Name: "words.xlsx", Body: strings.NewReader("PK")})
	require.NoError(t, err)
	assert.Equal(t, 2, countCalls(fake.Calls(), "upload words"))
}

func TestAdminOnlyQuizOperations(t *testing.T) {
	ctx := context.Background()
	s, _ := newQuiz(t, &fakeAPI{}, userSession)

	assert.ErrorIs(t, s.OpenAdmin(), ErrForbidden)
	assert.ErrorIs(t, s.RemoveWord(ctx, "w1"), ErrForbidden)

	admin, _ := newQuiz(t, &fakeAPI{}, adminSession)
	require.NoError(t, admin.OpenAdmin())
	assert.Equal(t, entities.QuizAdmin, admin.View())
	require.NoError(t, admin.RemoveWord(ctx, "w1"))
	assert.Len(t, admin.Words(), len(entities.SeedWords)-1)
	assert.ErrorIs(t, admin.RemoveWord(ctx, "w1"), ErrNotFound)
}

func TestResetRestoresDefaults(t *testing.T) {
	s, _ := newQuiz(t, &fakeAPI{words: quizWords}, userSession)
	require.NoError(t, s.StartQuiz(context.Background(), "雅思词汇"))
	s.Toggle(entities.OptionPOS)

	s.Reset()
	assert.Equal(t, entities.QuizSelection, s.View())
	assert.Equal(t, entities.DefaultDisplayOptions(), s.Options())
	assert.Equal(t, []string{"考研词汇", "雅思词汇"}, s.Modules())
}

func TestMistakeBookIsPerUser(t *testing.T) {
	ctx := context.Background()
	fake := &fakeAPI{words: quizWords[:1]}
	st, _ := newState(t)
	sessions := &switchableSession{s: userSession}
	s := NewQuizService(fake, st, sessions, &syncDispatcher{}, NewValidator(), 20, nil, zap.NewNop())
	s.now = fixedClock
	s.newID = sequentialIDs()
	s.shuffle = func([]entities.Word) {}

	miss := func() AnswerResult {
		require.NoError(t, s.StartQuiz(ctx, "雅思词汇"))
		res, err := s.CheckAnswer(ctx, "wrong")
		require.NoError(t, err)
		return res
	}

	assert.True(t, miss().MistakeAdded)

	s.Reset()
	sessions.s = &entities.Session{ID: "7", Username: "amy", Role: entities.RoleUser}
	assert.True(t, miss().MistakeAdded)
	assert.Equal(t, 2, countCalls(fake.Calls(), "add mistake"))

	mine := s.Mistakes()
	require.Len(t, mine, 1)
	assert.Equal(t, "7", mine[0].UserID)

	sessions.s = userSession
	mine = s.Mistakes()
	require.Len(t, mine, 1)
	assert.Equal(t, "5", mine[0].UserID)

	sessions.s = nil
	assert.Empty(t, s.Mistakes())
}
