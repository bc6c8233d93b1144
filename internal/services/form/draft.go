package form

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/bobmcallan/saveplan/internal/common"
	"github.com/bobmcallan/saveplan/internal/interfaces"
	"github.com/bobmcallan/saveplan/internal/models"
)

// Storage keys. With a session on the context the key gains a ":<session id>"
// suffix, so each browser has its own draft and flag.
const (
	DraftKey          = "saveplan:form-draft"
	ShareDismissedKey = "saveplan:share-prompt-dismissed"
)

// ScopedKey returns base scoped to the session carried by ctx. Without a
// session (the terminal client) the bare key is used.
func ScopedKey(ctx context.Context, base string) string {
	if sess := common.SessionFromContext(ctx); sess != nil && sess.SessionID != "" {
		return base + ":" + sess.SessionID
	}
	return base
}

// DraftStore persists the in-progress form and the share-prompt flag.
type DraftStore struct {
	kv     interfaces.KeyValueStore
	clock  clockwork.Clock
	maxAge time.Duration
	logger *common.Logger
}

// NewDraftStore creates a DraftStore with the standard 24 hour expiry.
func NewDraftStore(kv interfaces.KeyValueStore, clock clockwork.Clock, logger *common.Logger) *DraftStore {
	return &DraftStore{
		kv:     kv,
		clock:  clock,
		maxAge: common.DraftMaxAge,
		logger: logger,
	}
}

// Save stores d stamped with the current time.
func (s *DraftStore) Save(ctx context.Context, d models.Draft) error {
	data, err := json.Marshal(models.StoredDraft{Form: d, Timestamp: s.clock.Now().UnixMilli()})
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	return s.kv.Set(ctx, ScopedKey(ctx, DraftKey), string(data))
}

// Load returns the stored draft if it is younger than the expiry. An expired
// or unreadable draft is deleted and (nil, nil) returned.
func (s *DraftStore) Load(ctx context.Context) (*models.Draft, error) {
	raw, err := s.kv.Get(ctx, ScopedKey(ctx, DraftKey))
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var stored models.StoredDraft
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.logger.Warn().Err(err).Msg("Discarding unreadable form draft")
		return nil, s.Clear(ctx)
	}

	if !common.IsFresh(time.UnixMilli(stored.Timestamp), s.clock.Now(), s.maxAge) {
		s.logger.Debug().Int64("timestamp", stored.Timestamp).Msg("Discarding expired form draft")
		return nil, s.Clear(ctx)
	}
	return &stored.Form, nil
}

// Clear removes the stored draft.
func (s *DraftStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, ScopedKey(ctx, DraftKey))
}

// ShareDismissed reports whether the share prompt has been dismissed.
func (s *DraftStore) ShareDismissed(ctx context.Context) (bool, error) {
	v, err := s.kv.Get(ctx, ScopedKey(ctx, ShareDismissedKey))
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return v == "true", nil
}

// DismissShare records that the share prompt has been dismissed.
func (s *DraftStore) DismissShare(ctx context.Context) error {
	return s.kv.Set(ctx, ScopedKey(ctx, ShareDismissedKey), "true")
}

// Restore picks the form to show: prior inputs handed back from the results
// view win over the stored draft.
func Restore(ctx context.Context, prior *models.Draft, store *DraftStore) (*models.Draft, error) {
	if prior != nil {
		d := *prior
		return &d, nil
	}
	return store.Load(ctx)
}
