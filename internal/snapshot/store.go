package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Keys of the persisted application state. Each key is written independently.
const (
	KeySession     = "current_user"
	KeyQuote       = "quote"
	KeyPosts       = "posts"
	KeyResources   = "resources"
	KeyWords       = "words"
	KeySuggestions = "suggestions"
	KeyMistakes    = "mistakes"
)

var ErrClosed = errors.New("snapshot store closed")

// Store keeps raw JSON blobs by namespace and key.
type Store interface {
	Get(ctx context.Context, namespace, key string) ([]byte, bool, error)
	Put(ctx context.Context, namespace, key string, value []byte) error
	Close() error
}

// Bucket is a Store bound to one namespace, usually one chat.
type Bucket struct {
	store     Store
	namespace string
	logger    *zap.Logger
}

// NewBucket binds store to namespace.
func NewBucket(store Store, namespace string, logger *zap.Logger) *Bucket {
	return &Bucket{store: store, namespace: namespace, logger: logger}
}

// Namespace returns the namespace the bucket writes to.
func (b *Bucket) Namespace() string {
	return b.namespace
}

// Load decodes the value stored under key into dst. It reports false when the
// key is absent, unreadable or not valid JSON; dst is left untouched then.
func (b *Bucket) Load(ctx context.Context, key string, dst any) bool {
	raw, ok, err := b.store.Get(ctx, b.namespace, key)
	if err != nil {
		b.logger.Warn("snapshot read failed",
			zap.String("namespace", b.namespace),
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		b.logger.Warn("snapshot entry is corrupt",
			zap.String("namespace", b.namespace),
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}
	return true
}

// Save encodes v as JSON and stores it under key.
func (b *Bucket) Save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := b.store.Put(ctx, b.namespace, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Load returns the value stored under key, or def when there is none.
func Load[T any](ctx context.Context, b *Bucket, key string, def T) T {
	var v T
	if !b.Load(ctx, key, &v) {
		return def
	}
	return v
}
