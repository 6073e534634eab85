package itinerary

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sessions owns one Store per browser session. It is created once by main
// and injected wherever an itinerary is needed.
type Sessions struct {
	loader Loader
	writer Writer
	log    *slog.Logger
	ttl    time.Duration
	now    func() time.Time

	mu     sync.Mutex
	stores map[string]*sessionEntry
}

type sessionEntry struct {
	ready    chan struct{}
	store    *Store
	err      error
	lastSeen time.Time
}

// NewSessions returns a registry that rehydrates stores through l, mirrors
// mutations to w, and evicts stores idle for longer than ttl.
// A zero ttl disables eviction.
func NewSessions(l Loader, w Writer, log *slog.Logger, ttl time.Duration) *Sessions {
	return &Sessions{
		loader: l,
		writer: w,
		log:    log,
		ttl:    ttl,
		now:    time.Now,
		stores: map[string]*sessionEntry{},
	}
}

// Get returns the Store of sessionID, opening it on first use.
// Concurrent first calls for the same session share a single rehydration,
// and rehydrating one session never blocks lookups of another.
// A failed rehydration is returned to every waiter and is not cached, so
// the next call reads the persister again.
func (s *Sessions) Get(ctx context.Context, sessionID string) (*Store, error) {
	s.mu.Lock()
	e, ok := s.stores[sessionID]
	if ok {
		e.lastSeen = s.now()
		s.mu.Unlock()
		<-e.ready
		if e.err != nil {
			return nil, e.err
		}
		return e.store, nil
	}
	e = &sessionEntry{ready: make(chan struct{}), lastSeen: s.now()}
	s.stores[sessionID] = e
	s.mu.Unlock()

	// The store outlives the request that opened it.
	store, err := Open(context.WithoutCancel(ctx), Key(sessionID), s.loader, s.writer, s.log)
	if err != nil {
		s.log.WarnContext(ctx, "itinerary: persistence read failure", "error", err)
		e.err = err
		s.mu.Lock()
		if s.stores[sessionID] == e {
			delete(s.stores, sessionID)
		}
		s.mu.Unlock()
		close(e.ready)
		return nil, err
	}
	e.store = store
	close(e.ready)
	return store, nil
}

// Len returns the number of stores held in memory.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stores)
}

// Sweep drops stores idle for longer than the ttl and returns how many were
// dropped. Their state survives in the persister and is reloaded on next use.
func (s *Sessions) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.stores {
		select {
		case <-e.ready:
		default:
			continue // still rehydrating
		}
		if e.lastSeen.Before(cutoff) {
			delete(s.stores, id)
			n++
		}
	}
	return n
}

// Run sweeps idle stores every interval until ctx is cancelled.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.log.DebugContext(ctx, "itinerary: evicted idle sessions", "count", n)
			}
		}
	}
}
