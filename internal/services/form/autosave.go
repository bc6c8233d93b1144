package form

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/bobmcallan/saveplan/internal/common"
	"github.com/bobmcallan/saveplan/internal/models"
)

// LocalSession is the session id of the terminal client, whose draft is stored
// under the bare key.
const LocalSession = ""

type pendingDraft struct {
	draft    models.Draft
	deadline time.Time
}

// Autosaver debounces draft writes per session: a session's draft is saved
// once no edit has arrived from it for the delay.
type Autosaver struct {
	store *DraftStore
	clock clockwork.Clock
	delay time.Duration

	mu      sync.Mutex
	pending map[string]pendingDraft
	timer   clockwork.Timer
	saves   int
}

// NewAutosaver creates an Autosaver with the standard one second delay.
func NewAutosaver(store *DraftStore, clock clockwork.Clock) *Autosaver {
	timer := clock.NewTimer(common.AutosaveDelay)
	timer.Stop()
	return &Autosaver{
		store:   store,
		clock:   clock,
		delay:   common.AutosaveDelay,
		pending: make(map[string]pendingDraft),
		timer:   timer,
	}
}

// Edit records the latest form state for a session and restarts its
// debounce window.
func (a *Autosaver) Edit(sessionID string, d models.Draft) {
	a.mu.Lock()
	defer a.mu.Unlock()
	armed := len(a.pending) > 0
	a.pending[sessionID] = pendingDraft{draft: d, deadline: a.clock.Now().Add(a.delay)}
	if !armed {
		a.timer.Reset(a.delay)
	}
}

// Pending returns the unsaved draft for a session, if any.
func (a *Autosaver) Pending(sessionID string) (*models.Draft, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.pending[sessionID]
	if !ok {
		return nil, false
	}
	d := p.draft
	return &d, true
}

// Discard drops a session's unsaved draft.
func (a *Autosaver) Discard(sessionID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.pending, sessionID)
}

// Tick saves every draft whose debounce window has passed and re-arms the
// timer for the earliest one still waiting. It reports whether anything was
// saved.
func (a *Autosaver) Tick(ctx context.Context) (bool, error) {
	a.mu.Lock()
	now := a.clock.Now()
	due := make(map[string]models.Draft)
	var next time.Time
	for id, p := range a.pending {
		if !now.Before(p.deadline) {
			due[id] = p.draft
			delete(a.pending, id)
			continue
		}
		if next.IsZero() || p.deadline.Before(next) {
			next = p.deadline
		}
	}
	if next.IsZero() {
		a.timer.Stop()
	} else {
		a.timer.Reset(next.Sub(now))
	}
	a.saves += len(due)
	a.mu.Unlock()

	var errs []error
	for id, d := range due {
		sctx := ctx
		if id != LocalSession {
			sctx = common.WithSession(ctx, &common.Session{SessionID: id})
		}
		if err := a.store.Save(sctx, d); err != nil {
			errs = append(errs, err)
		}
	}
	return len(due) > 0, errors.Join(errs...)
}

// Flush saves all pending drafts immediately.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	for id, p := range a.pending {
		p.deadline = time.Time{}
		a.pending[id] = p
	}
	a.mu.Unlock()
	_, err := a.Tick(ctx)
	return err
}

// Saves returns the number of drafts saved so far.
func (a *Autosaver) Saves() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saves
}

// Run saves when the debounce timer fires until ctx is done, then flushes.
// Save errors are logged.
func (a *Autosaver) Run(ctx context.Context, logger *common.Logger) {
	for {
		select {
		case <-ctx.Done():
			if err := a.Flush(context.WithoutCancel(ctx)); err != nil {
				logger.Warn().Err(err).Msg("Failed to flush form drafts")
			}
			return
		case <-a.timer.Chan():
			if _, err := a.Tick(ctx); err != nil {
				logger.Warn().Err(err).Msg("Failed to autosave form draft")
			}
		}
	}
}
