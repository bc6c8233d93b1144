package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by stores when a key has no value.
var ErrNotFound = errors.New("not found")

// KeyValueStore is the small persistence surface behind form drafts and
// one-off UI flags.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ExplanationCache memoises finished plan explanations by content key.
type ExplanationCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
