// Package progress models the loading screen shown while a plan is computed:
// staged messages, a simulated percentage, a rotating bank-name ticker and a
// minimum display time. Everything is derived from an injected clock.
package progress

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Stage is one step of the loading sequence.
type Stage struct {
	Label    string
	Duration time.Duration
}

// DefaultStages is the standard loading sequence.
var DefaultStages = []Stage{
	{"Checking your details", 1500 * time.Millisecond},
	{"Searching savings accounts", 2500 * time.Millisecond},
	{"Comparing rates across time periods", 2500 * time.Millisecond},
	{"Working out your tax position", 2000 * time.Millisecond},
	{"Building your plan", 1500 * time.Millisecond},
}

// DefaultBanks rotate through the ticker.
var DefaultBanks = []string{
	"Nationwide", "Barclays", "Santander", "Chase", "Marcus",
	"Monzo", "Starling", "Zopa", "Atom", "Paragon",
}

// Defaults.
const (
	DefaultTickerInterval = 800 * time.Millisecond
	DefaultMinDisplay     = 3 * time.Second
	// MaxSimulatedPercent is the ceiling before the result arrives.
	MaxSimulatedPercent = 95
)

// Snapshot is the loading screen state at a point in time.
type Snapshot struct {
	Elapsed    time.Duration
	Stage      int
	StageLabel string
	Percent    int
	Bank       string
	Complete   bool
	Cancelled  bool
	// Navigate is true once the result may replace the loading screen.
	Navigate bool
}

// Tracker is the loading screen state machine.
type Tracker struct {
	clock          clockwork.Clock
	stages         []Stage
	banks          []string
	tickerInterval time.Duration
	minDisplay     time.Duration

	mu        sync.Mutex
	start     time.Time
	complete  bool
	cancelled bool
}

// Option configures a Tracker
type Option func(*Tracker)

// WithStages replaces the stage sequence
func WithStages(stages []Stage) Option {
	return func(t *Tracker) {
		if len(stages) > 0 {
			t.stages = stages
		}
	}
}

// WithBanks replaces the ticker names
func WithBanks(banks []string) Option {
	return func(t *Tracker) {
		if len(banks) > 0 {
			t.banks = banks
		}
	}
}

// WithMinDisplay sets the minimum time the loading screen stays up
func WithMinDisplay(d time.Duration) Option {
	return func(t *Tracker) {
		t.minDisplay = d
	}
}

// WithTickerInterval sets how often the bank name rotates
func WithTickerInterval(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.tickerInterval = d
		}
	}
}

// New starts a Tracker at the clock's current time.
func New(clock clockwork.Clock, opts ...Option) *Tracker {
	t := &Tracker{
		clock:          clock,
		stages:         DefaultStages,
		banks:          DefaultBanks,
		tickerInterval: DefaultTickerInterval,
		minDisplay:     DefaultMinDisplay,
		start:          clock.Now(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Complete records that the result has arrived.
func (t *Tracker) Complete() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.complete = true
}

// Cancel records that the user left the loading screen. A cancelled tracker
// never navigates, even if a result arrives later.
func (t *Tracker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelled = true
}

// Snapshot returns the state at the clock's current time.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	complete, cancelled := t.complete, t.cancelled
	elapsed := t.clock.Since(t.start)
	t.mu.Unlock()
	return t.At(elapsed, complete, cancelled)
}

// At computes the state for a given elapsed time. It has no side effects.
func (t *Tracker) At(elapsed time.Duration, complete, cancelled bool) Snapshot {
	if elapsed < 0 {
		elapsed = 0
	}
	s := Snapshot{
		Elapsed:   elapsed,
		Complete:  complete,
		Cancelled: cancelled,
		Bank:      t.banks[int(elapsed/t.tickerInterval)%len(t.banks)],
		Navigate:  complete && !cancelled && elapsed >= t.minDisplay,
	}

	var total, passed time.Duration
	for _, st := range t.stages {
		total += st.Duration
	}
	s.Stage = len(t.stages) - 1
	for i, st := range t.stages {
		if elapsed < passed+st.Duration {
			s.Stage = i
			break
		}
		passed += st.Duration
	}
	s.StageLabel = t.stages[s.Stage].Label

	if complete {
		s.Percent = 100
		return s
	}
	pct := MaxSimulatedPercent
	if total > 0 && elapsed < total {
		pct = int(int64(elapsed) * MaxSimulatedPercent / int64(total))
	}
	s.Percent = pct
	return s
}

// WaitNavigate blocks until the tracker may navigate, returning true, or until
// it is cancelled or ctx ends, returning false. Call after Complete.
func (t *Tracker) WaitNavigate(ctx context.Context) bool {
	for {
		s := t.Snapshot()
		if s.Cancelled {
			return false
		}
		if s.Navigate {
			return true
		}
		wait := t.minDisplay - s.Elapsed
		if wait <= 0 || !s.Complete {
			wait = t.tickerInterval
		}
		select {
		case <-ctx.Done():
			return false
		case <-t.clock.After(wait):
		}
	}
}
