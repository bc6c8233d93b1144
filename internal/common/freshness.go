package common

import "time"

// Lifetimes for client-side state
const (
	DraftMaxAge   = 24 * time.Hour // stored form drafts older than this are discarded
	AutosaveDelay = 1 * time.Second
)

// IsFresh returns true if updated is within ttl of now. A timestamp ahead of
// now is never fresh.
func IsFresh(updated, now time.Time, ttl time.Duration) bool {
	if updated.IsZero() || updated.After(now) {
		return false
	}
	return now.Sub(updated) < ttl
}
