package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/xueling-bot/internal/api"
	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
)

func newFeedback(t *testing.T, fake *fakeAPI, session *entities.Session) *FeedbackService {
	t.Helper()
	st, _ := newState(t)
	return NewFeedbackService(fake, st, staticSession{session}, NewValidator(), zap.NewNop())
}

func TestFeedbackRequiresAdmin(t *testing.T) {
	fake := &fakeAPI{}
	s := newFeedback(t, fake, userSession)

	assert.ErrorIs(t, s.Refresh(context.Background()), ErrForbidden)
	assert.ErrorIs(t, s.Reply(context.Background(), "1", "好的"), ErrForbidden)
	assert.Empty(t, fake.Calls())
}

func TestReplyFailureKeepsDraft(t *testing.T) {
	ctx := context.Background()
	fake := &fakeAPI{suggestions: []entities.Suggestion{{ID: "1", UserID: "5", Content: "更多真题"}}}
	s := newFeedback(t, fake, adminSession)
	require.NoError(t, s.Refresh(ctx))

	_, err := s.BeginReply("1")
	require.NoError(t, err)

	fake.err = api.ErrTransport
	err = s.Reply(ctx, "1", "已上传")
	assert.ErrorIs(t, err, api.ErrTransport)
	assert.False(t, s.Suggestions()[0].Replied())

	d, ok := s.Draft()
	require.True(t, ok)
	assert.Equal(t, Draft{SuggestionID: "1", Text: "已上传"}, d)

	// Reopening the same suggestion keeps the typed text.
	_, err = s.BeginReply("1")
	require.NoError(t, err)
	d, _ = s.Draft()
	assert.Equal(t, "已上传", d.Text)

	fake.err = nil
	require.NoError(t, s.Retry(ctx))

	sug := s.Suggestions()[0]
	require.True(t, sug.Replied())
	assert.Equal(t, "已上传", *sug.Feedback)
	assert.Equal(t, "已回复", sug.Status())
	_, ok = s.Draft()
	assert.False(t, ok)
}

func TestReplyValidation(t *testing.T) {
	ctx := context.Background()
	fake := &fakeAPI{suggestions: []entities.Suggestion{{ID: "1"}}}
	s := newFeedback(t, fake, adminSession)
	require.NoError(t, s.Refresh(ctx))

	assert.Equal(t, "请填写回复内容", UserMessage(s.Reply(ctx, "1", "")))
	assert.ErrorIs(t, s.Reply(ctx, "2", "x"), ErrNotFound)
	_, err := s.BeginReply("2")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Retry(ctx), ErrNoDraft)
}
