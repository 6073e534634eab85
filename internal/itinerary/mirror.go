package itinerary

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"
)

// defaultSaveTimeout bounds a single background write.
const defaultSaveTimeout = 5 * time.Second

// Mirror is the asynchronous Writer in front of a Persister.
// Pending snapshots are coalesced per key (the latest one wins), so a burst of
// mutations on one session costs one write and writes never reorder.
// Mirror is also a Loader: it answers from pending and in-flight snapshots
// before asking the Persister, so a store reopened right after eviction sees
// its own last write.
type Mirror struct {
	p           Persister
	log         *slog.Logger
	saveTimeout time.Duration

	mu       sync.Mutex
	pending  map[string][]byte
	inflight map[string][]byte

	flushMu sync.Mutex
	wake    chan struct{}
}

// NewMirror returns a Mirror saving through p. Call Run to start writing.
func NewMirror(p Persister, log *slog.Logger) *Mirror {
	return &Mirror{
		p:           p,
		log:         log,
		saveTimeout: defaultSaveTimeout,
		pending:     map[string][]byte{},
		inflight:    map[string][]byte{},
		wake:        make(chan struct{}, 1),
	}
}

// Enqueue records data as the latest snapshot for key and wakes the writer.
// It never blocks.
func (m *Mirror) Enqueue(key string, data []byte) {
	m.mu.Lock()
	m.pending[key] = data
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Load returns the newest known snapshot for key.
func (m *Mirror) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	if d, ok := m.pending[key]; ok {
		m.mu.Unlock()
		return slices.Clone(d), nil
	}
	if d, ok := m.inflight[key]; ok {
		m.mu.Unlock()
		return slices.Clone(d), nil
	}
	m.mu.Unlock()
	return m.p.Load(ctx, key)
}

// Pending returns the number of snapshots waiting to be written.
func (m *Mirror) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Run writes pending snapshots until ctx is cancelled, then flushes what is
// left with a fresh deadline so shutdown does not lose the last mutations.
func (m *Mirror) Run(ctx context.Context) {
	for {
		select {
		case <-m.wake:
			// A flush that races shutdown must still land; each Save keeps
			// its own saveTimeout.
			m.Flush(context.WithoutCancel(ctx))
		case <-ctx.Done():
			drainCtx, cancel := context.WithTimeout(context.Background(), m.saveTimeout)
			m.Flush(drainCtx)
			cancel()
			return
		}
	}
}

// Flush writes every pending snapshot now. Save errors are logged and the
// snapshot is dropped; the in-memory Store stays authoritative.
func (m *Mirror) Flush(ctx context.Context) {
	m.flushMu.Lock()
	defer m.flushMu.Unlock()

	m.mu.Lock()
	batch := m.pending
	m.pending = map[string][]byte{}
	maps.Copy(m.inflight, batch)
	m.mu.Unlock()

	for _, key := range slices.Sorted(maps.Keys(batch)) {
		saveCtx, cancel := context.WithTimeout(ctx, m.saveTimeout)
		if err := m.p.Save(saveCtx, key, batch[key]); err != nil {
			m.log.WarnContext(ctx, "itinerary: persistence write failure", "key", key, "error", err)
		}
		cancel()

		m.mu.Lock()
		delete(m.inflight, key)
		m.mu.Unlock()
	}
}
