// Package state holds the per-client application state. Each slice is written
// through its own snapshot key on every mutation.
package state

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
	"github.com/aliskhannn/xueling-bot/internal/snapshot"
)

// Container is the state of one client.
type Container struct {
	Session     *Value[*entities.Session]
	Quote       *Value[string]
	Posts       *List[entities.Post]
	Resources   *List[entities.Resource]
	Words       *List[entities.Word]
	Suggestions *List[entities.Suggestion]
	Mistakes    *List[entities.Mistake]
}

// New creates an empty container backed by bucket. Call Restore to load the snapshot.
func New(bucket *snapshot.Bucket, logger *zap.Logger) *Container {
	logger = logger.With(zap.String("namespace", bucket.Namespace()))
	return &Container{
		Session:     newValue[*entities.Session](bucket, snapshot.KeySession, nil, logger),
		Quote:       newValue(bucket, snapshot.KeyQuote, entities.DefaultQuote, logger),
		Posts:       newList[entities.Post](bucket, snapshot.KeyPosts, logger),
		Resources:   newList[entities.Resource](bucket, snapshot.KeyResources, logger),
		Words:       newList[entities.Word](bucket, snapshot.KeyWords, logger),
		Suggestions: newList[entities.Suggestion](bucket, snapshot.KeySuggestions, logger),
		Mistakes:    newList[entities.Mistake](bucket, snapshot.KeyMistakes, logger),
	}
}

// Restore loads every slice from the snapshot. Missing or corrupt entries
// fall back to the defaults: no session, the default quote, the seed words
// and empty lists.
func (c *Container) Restore(ctx context.Context) {
	c.Session.restore(ctx, nil)
	c.Quote.restore(ctx, entities.DefaultQuote)
	c.Posts.restore(ctx, nil)
	c.Resources.restore(ctx, nil)
	c.Words.restore(ctx, entities.SeedWords)
	c.Suggestions.restore(ctx, nil)
	c.Mistakes.restore(ctx, nil)
}

// Value is a single persisted value.
type Value[T any] struct {
	mu     sync.RWMutex
	v      T
	key    string
	bucket *snapshot.Bucket
	logger *zap.Logger
}

func newValue[T any](bucket *snapshot.Bucket, key string, def T, logger *zap.Logger) *Value[T] {
	return &Value[T]{v: def, key: key, bucket: bucket, logger: logger}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.v
}

// Set replaces the value and persists it.
func (v *Value[T]) Set(ctx context.Context, val T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.v = val
	save(ctx, v.bucket, v.key, val, v.logger)
}

func (v *Value[T]) restore(ctx context.Context, def T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.v = snapshot.Load(ctx, v.bucket, v.key, def)
}

// List is a persisted ordered collection.
type List[T any] struct {
	mu     sync.RWMutex
	items  []T
	key    string
	bucket *snapshot.Bucket
	logger *zap.Logger
}

func newList[T any](bucket *snapshot.Bucket, key string, logger *zap.Logger) *List[T] {
	return &List[T]{key: key, bucket: bucket, logger: logger}
}

// Items returns a copy of the collection.
func (l *List[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return clone(l.items)
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Replace swaps the whole collection.
func (l *List[T]) Replace(ctx context.Context, items []T) {
	l.Update(ctx, func([]T) []T { return clone(items) })
}

// Prepend inserts item at the front.
func (l *List[T]) Prepend(ctx context.Context, item T) {
	l.Update(ctx, func(items []T) []T { return append([]T{item}, items...) })
}

// Append adds item at the end.
func (l *List[T]) Append(ctx context.Context, item T) {
	l.Update(ctx, func(items []T) []T { return append(items, item) })
}

// Update applies fn to a copy of the collection and stores the result.
func (l *List[T]) Update(ctx context.Context, fn func([]T) []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = fn(clone(l.items))
	save(ctx, l.bucket, l.key, l.items, l.logger)
}

func (l *List[T]) restore(ctx context.Context, def []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = snapshot.Load(ctx, l.bucket, l.key, clone(def))
}

// save persists a slice. The snapshot is a cache, so failures are only logged.
func save(ctx context.Context, bucket *snapshot.Bucket, key string, v any, logger *zap.Logger) {
	if err := bucket.Save(ctx, key, v); err != nil {
		logger.Warn("snapshot write failed", zap.String("key", key), zap.Error(err))
	}
}

func clone[T any](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}
