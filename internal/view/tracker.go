// Package view tracks in-flight list loads per user view so that a superseded
// load is cancelled and its late result is discarded.
package view

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// State is the lifecycle of one view: Idle -> Loading -> Rendered | Failed.
type State int

const (
	Idle State = iota
	Loading
	Rendered
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Rendered:
		return "rendered"
	case Failed:
		return "error"
	default:
		return "idle"
	}
}

type entry struct {
	gen    uint64
	state  State
	cancel context.CancelFunc
}

// Tracker holds the latest load of every view key.
type Tracker struct {
	mu      sync.Mutex
	gen     uint64
	entries *cache.Cache
	ttl     time.Duration
}

// NewTracker creates a tracker whose idle entries expire after ttl.
func NewTracker(ttl time.Duration) *Tracker {
	return &Tracker{
		entries: cache.New(ttl, 2*ttl),
		ttl:     ttl,
	}
}

// Key identifies a view of one session.
func Key(session, view string) string {
	return session + "|" + view
}

// Load is one attempt to fill a view.
type Load struct {
	tracker *Tracker
	key     string
	gen     uint64
	ctx     context.Context
	cancel  context.CancelFunc
}

// Begin starts a load for key, cancelling the previous one still in flight.
func (t *Tracker) Begin(ctx context.Context, key string) *Load {
	loadCtx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()

	if v, ok := t.entries.Get(key); ok {
		if prev := v.(*entry); prev.cancel != nil {
			prev.cancel()
		}
	}
	t.gen++
	t.entries.Set(key, &entry{gen: t.gen, state: Loading, cancel: cancel}, t.ttl)

	return &Load{tracker: t, key: key, gen: t.gen, ctx: loadCtx, cancel: cancel}
}

// Context is cancelled when a newer load for the same view begins.
func (l *Load) Context() context.Context {
	return l.ctx
}

// Finish records the outcome and reports whether this load is still the latest.
// A false result means the caller must discard what it fetched.
func (l *Load) Finish(err error) bool {
	defer l.cancel()

	t := l.tracker
	t.mu.Lock()
	defer t.mu.Unlock()

	v, ok := t.entries.Get(l.key)
	if !ok {
		return true
	}
	e := v.(*entry)
	if e.gen != l.gen {
		return false
	}
	e.cancel = nil
	if err != nil {
		e.state = Failed
	} else {
		e.state = Rendered
	}
	return true
}

// State returns the current state of a view.
func (t *Tracker) State(key string) State {
	t.mu.Lock()
	defer t.mu.Unlock()

	if v, ok := t.entries.Get(key); ok {
		return v.(*entry).state
	}
	return Idle
}
