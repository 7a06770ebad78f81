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

func newForum(t *testing.T, fake *fakeAPI, session *entities.Session, persist bool) *ForumService {
	t.Helper()
	st, _ := newState(t)
	s := NewForumService(fake, st, staticSession{session}, NewValidator(), persist, zap.NewNop())
	s.now = fixedClock
	s.newID = sequentialIDs()
	return s
}

func TestCreatePostRequiresAdmin(t *testing.T) {
	fake := &fakeAPI{}
	s := newForum(t, fake, userSession, false)

	_, err := s.CreatePost(context.Background(), "标题", "内容", "")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, fake.Calls())
	assert.Empty(t, s.Posts())
}

func TestCreatePostIsProvisionalUntilRefresh(t *testing.T) {
	ctx := context.Background()
	fake := &fakeAPI{}
	s := newForum(t, fake, adminSession, false)

	post, err := s.CreatePost(ctx, "标题", "内容", " ")
	require.NoError(t, err)
	assert.Equal(t, entities.Post{
		ID: "local-1", Title: "标题", Content: "内容", Author: entities.AdminLabel,
		Date: "2024-05-20", Provisional: true,
	}, post)

	_, err = s.CreatePost(ctx, "第二篇", "内容", "https://example.com")
	require.NoError(t, err)

	posts := s.Posts()
	require.Len(t, posts, 2)
	assert.Equal(t, "第二篇", posts[0].Title)
	require.NotNil(t, posts[0].Link)

	fake.posts = []entities.Post{{ID: "7", Title: "第二篇"}, {ID: "6", Title: "标题"}}
	require.NoError(t, s.Refresh(ctx))
	for _, p := range s.Posts() {
		assert.False(t, p.Provisional)
	}
}

func TestCreatePostFailureLeavesList(t *testing.T) {
	fake := &fakeAPI{err: api.ErrTransport}
	s := newForum(t, fake, adminSession, false)

	_, err := s.CreatePost(context.Background(), "标题", "内容", "")
	assert.ErrorIs(t, err, api.ErrTransport)
	assert.Empty(t, s.Posts())
}

func TestCreatePostValidation(t *testing.T) {
	fake := &fakeAPI{}
	s := newForum(t, fake, adminSession, false)

	_, err := s.CreatePost(context.Background(), "标题", "", "")
	assert.Equal(t, "请填写内容", UserMessage(err))
	assert.Empty(t, fake.Calls())
}

func TestRefreshFailureKeepsCache(t *testing.T) {
	ctx := context.Background()
	fake := &fakeAPI{posts: []entities.Post{{ID: "1", Title: "A"}}}
	s := newForum(t, fake, userSession, false)

	require.NoError(t, s.Refresh(ctx))
	fake.err = api.ErrTransport
	assert.Error(t, s.Refresh(ctx))
	assert.Len(t, s.Posts(), 1)
}

func TestRefreshQuote(t *testing.T) {
	ctx := context.Background()
	fake := &fakeAPI{}
	s := newForum(t, fake, userSession, false)

	require.NoError(t, s.RefreshQuote(ctx))
	assert.Equal(t, entities.DefaultQuote, s.Quote())

	fake.quote = "业精于勤"
	require.NoError(t, s.RefreshQuote(ctx))
	assert.Equal(t, "业精于勤", s.Quote())
}

func TestSaveQuote(t *testing.T) {
	ctx := context.Background()

	local := &fakeAPI{}
	s := newForum(t, local, adminSession, false)
	require.NoError(t, s.SaveQuote(ctx, "  学而不思则罔  "))
	assert.Equal(t, "学而不思则罔", s.Quote())
	assert.Empty(t, local.Calls())

	remote := &fakeAPI{}
	s = newForum(t, remote, adminSession, true)
	require.NoError(t, s.SaveQuote(ctx, "温故而知新"))
	assert.Equal(t, []string{"update quote"}, remote.Calls())

	remote.err = api.ErrTransport
	assert.Error(t, s.SaveQuote(ctx, "三人行"))
	assert.Equal(t, "三人行", s.Quote())

	assert.ErrorIs(t, newForum(t, &fakeAPI{}, userSession, false).SaveQuote(ctx, "x"), ErrForbidden)
}
