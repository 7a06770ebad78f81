package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
	"github.com/aliskhannn/xueling-bot/internal/snapshot"
)

func newContainer(t *testing.T, store snapshot.Store) *Container {
	t.Helper()
	c := New(snapshot.NewBucket(store, "chat-1", zap.NewNop()), zap.NewNop())
	c.Restore(context.Background())
	return c
}

func TestRestoreDefaults(t *testing.T) {
	c := newContainer(t, snapshot.NewMemoryStore())

	assert.Nil(t, c.Session.Get())
	assert.Equal(t, entities.DefaultQuote, c.Quote.Get())
	assert.Equal(t, entities.SeedWords, c.Words.Items())
	assert.Empty(t, c.Posts.Items())
	assert.Zero(t, c.Mistakes.Len())
}

func TestMutationsSurviveReload(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemoryStore()
	c := newContainer(t, store)

	c.Session.Set(ctx, &entities.Session{ID: "1", Username: "tom", Role: entities.RoleUser})
	c.Posts.Append(ctx, entities.Post{ID: "old"})
	c.Posts.Prepend(ctx, entities.Post{ID: "new"})
	c.Quote.Set(ctx, "学海无涯")

	reloaded := newContainer(t, store)
	require.NotNil(t, reloaded.Session.Get())
	assert.Equal(t, "tom", reloaded.Session.Get().Username)
	assert.Equal(t, "学海无涯", reloaded.Quote.Get())
	assert.Equal(t, []entities.Post{{ID: "new"}, {ID: "old"}}, reloaded.Posts.Items())
}

func TestWriteTouchesOnlyItsKey(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemoryStore()
	c := newContainer(t, store)

	c.Resources.Replace(ctx, []entities.Resource{{ID: "r1"}})

	_, ok, err := store.Get(ctx, "chat-1", snapshot.KeyResources)
	require.NoError(t, err)
	assert.True(t, ok)

	for _, key := range []string{snapshot.KeyPosts, snapshot.KeyWords, snapshot.KeySession, snapshot.KeyQuote} {
		_, ok, err := store.Get(ctx, "chat-1", key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	c := newContainer(t, snapshot.NewMemoryStore())
	c.Mistakes.Replace(context.Background(), []entities.Mistake{{ID: "m1"}})

	items := c.Mistakes.Items()
	items[0].ID = "changed"

	assert.Equal(t, "m1", c.Mistakes.Items()[0].ID)
}
