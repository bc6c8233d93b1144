package common

import (
	"context"

	"github.com/google/uuid"
)

// Session carries the correlation identifiers the backend uses for analytics.
// The client never interprets them.
type Session struct {
	SessionID string
	BatchID   string
}

type contextKey int

const sessionContextKey contextKey = iota

// NewSessionID returns a fresh opaque identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// WithSession stores a Session in the context.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// SessionFromContext returns the Session stored in ctx, or nil.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionContextKey).(*Session)
	return s
}
