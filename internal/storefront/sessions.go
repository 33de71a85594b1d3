package storefront

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultSessionTTL  = 30 * time.Minute
	DefaultMaxSessions = 10000
)

type SessionsOptions struct {
	// TTL is how long a session may sit idle before it is dropped.
	TTL time.Duration
	// Max caps live sessions; creating one past the cap drops the least
	// recently seen.
	Max int
}

type sessionEntry struct {
	session  *Session
	lastSeen time.Time
}

// Sessions hands out one Session per shopper. Ids are minted here; an id the
// registry did not issue is never adopted. A session untouched for longer
// than the idle TTL is closed and forgotten.
type Sessions struct {
	mu        sync.Mutex
	sessions  map[string]*sessionEntry
	deps      Deps
	ttl       time.Duration
	max       int
	lastSweep time.Time
	now       func() time.Time
}

func NewSessions(deps Deps, opts SessionsOptions) *Sessions {
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultSessionTTL
	}
	if opts.Max <= 0 {
		opts.Max = DefaultMaxSessions
	}
	return &Sessions{
		sessions: make(map[string]*sessionEntry),
		deps:     deps,
		ttl:      opts.TTL,
		max:      opts.Max,
		now:      time.Now,
	}
}

func (r *Sessions) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.live(id)
	if !ok {
		return nil, false
	}
	return e.session, true
}

// GetOrCreate returns the session for id, or a new session when id is
// unknown or expired. created reports which.
func (r *Sessions) GetOrCreate(id string) (s *Session, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.live(id); ok {
		return e.session, false
	}

	now := r.now()
	if now.Sub(r.lastSweep) >= r.sweepInterval() {
		r.sweepLocked(now)
	}
	if len(r.sessions) >= r.max {
		r.evictOldestLocked()
	}

	newID := uuid.NewString()
	deps := r.deps
	deps.HandoffKey = r.deps.HandoffKey + ":" + newID
	s = NewSession(newID, deps)
	r.sessions[newID] = &sessionEntry{session: s, lastSeen: now}

	r.deps.Log.Debug("session created", slog.String("session", newID))
	return s, true
}

// live looks id up and refreshes its idle clock. Must hold r.mu.
func (r *Sessions) live(id string) (*sessionEntry, bool) {
	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	now := r.now()
	if now.Sub(e.lastSeen) > r.ttl {
		r.evictLocked(id, e)
		return nil, false
	}
	e.lastSeen = now
	return e, true
}

// Sweep closes every session idle for longer than the TTL and returns how
// many were removed.
func (r *Sessions) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(r.now())
}

func (r *Sessions) sweepLocked(now time.Time) int {
	r.lastSweep = now
	n := 0
	for id, e := range r.sessions {
		if now.Sub(e.lastSeen) > r.ttl {
			r.evictLocked(id, e)
			n++
		}
	}
	if n > 0 {
		r.deps.Log.Debug("sessions expired", slog.Int("count", n), slog.Int("live", len(r.sessions)))
	}
	return n
}

func (r *Sessions) evictLocked(id string, e *sessionEntry) {
	e.session.Close()
	delete(r.sessions, id)
}

func (r *Sessions) evictOldestLocked() {
	var (
		oldestID string
		oldest   *sessionEntry
	)
	for id, e := range r.sessions {
		if oldest == nil || e.lastSeen.Before(oldest.lastSeen) {
			oldestID, oldest = id, e
		}
	}
	if oldest != nil {
		r.evictLocked(oldestID, oldest)
	}
}

func (r *Sessions) sweepInterval() time.Duration {
	return r.ttl / 2
}

// Run sweeps on a ticker until ctx is cancelled.
func (r *Sessions) Run(ctx context.Context) {
	t := time.NewTicker(r.sweepInterval())
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Sweep()
		}
	}
}

func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Sessions) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.sessions {
		r.evictLocked(id, e)
	}
}
