package itinerary

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tourbook/internal/domain"
)

func newTestSessions(ttl time.Duration) (*Sessions, *MemoryPersister, *Mirror) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := NewMemoryPersister()
	m := NewMirror(p, log)
	return NewSessions(m, m, log, ttl), p, m
}

func mustGet(t *testing.T, ctx context.Context, s *Sessions, id string) *Store {
	t.Helper()
	st, err := s.Get(ctx, id)
	require.NoError(t, err)
	return st
}

// flakyLoader fails its next `failures` loads, then reads through to
// MemoryPersister. Loads with a done context fail like a database read.
type flakyLoader struct {
	*MemoryPersister
	mu       sync.Mutex
	failures int
}

func (l *flakyLoader) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	fail := l.failures > 0
	if fail {
		l.failures--
	}
	l.mu.Unlock()
	if fail {
		return nil, errors.New("connection reset")
	}
	return l.MemoryPersister.Load(ctx, key)
}

func TestSessions_GetReturnsSameStore(t *testing.T) {
	s, _, _ := newTestSessions(time.Hour)
	ctx := context.Background()

	a := mustGet(t, ctx, s, "one")
	b := mustGet(t, ctx, s, "one")
	c := mustGet(t, ctx, s, "two")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, Key("one"), a.Key())
}

func TestSessions_ConcurrentFirstGet(t *testing.T) {
	s, _, _ := newTestSessions(time.Hour)
	stores := make([]*Store, 16)
	var wg sync.WaitGroup
	for i := range stores {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st, err := s.Get(context.Background(), "shared")
			assert.NoError(t, err)
			stores[i] = st
		}()
	}
	wg.Wait()

	for _, st := range stores {
		assert.Same(t, stores[0], st)
	}
	assert.Equal(t, 1, s.Len())
}

func TestSessions_SweepEvictsIdleAndReloads(t *testing.T) {
	s, p, m := newTestSessions(time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	store := mustGet(t, ctx, s, "idle")
	store.AddItem(domain.LineItem{TourID: "T1", Date: "2025-01-10", Adults: 1, Price: 90})
	mustGet(t, ctx, s, "active")

	now = now.Add(50 * time.Second)
	mustGet(t, ctx, s, "active")
	now = now.Add(20 * time.Second)

	require.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())

	// Not yet flushed: the reopened store must read the pending snapshot.
	assert.Zero(t, p.Len())
	reopened := mustGet(t, ctx, s, "idle")
	assert.NotSame(t, store, reopened)
	assert.Equal(t, store.Items(), reopened.Items())

	m.Flush(ctx)
	assert.Equal(t, 1, p.Len())
}

func TestSessions_ZeroTTLNeverEvicts(t *testing.T) {
	s, _, _ := newTestSessions(0)
	mustGet(t, context.Background(), s, "x")

	assert.Zero(t, s.Sweep())
	assert.Equal(t, 1, s.Len())
}

func TestSessions_LoadFailureIsNotCached(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := NewMemoryPersister()
	saved, err := Encode([]domain.LineItem{{TourID: "T1", Date: "2025-01-10", Adults: 2, Price: 90}})
	require.NoError(t, err)
	require.NoError(t, p.Save(context.Background(), Key("cart"), saved))
	m := NewMirror(p, log)
	s := NewSessions(&flakyLoader{MemoryPersister: p, failures: 1}, m, log, time.Hour)
	ctx := context.Background()

	_, err = s.Get(ctx, "cart")
	require.Error(t, err)
	assert.Zero(t, s.Len())
	assert.Zero(t, m.Pending(), "nothing may be written over the unread snapshot")

	st := mustGet(t, ctx, s, "cart")
	require.Len(t, st.Items(), 1)
	assert.Equal(t, "T1", st.Items()[0].TourID)
}

func TestSessions_ConcurrentWaitersShareLoadFailure(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := NewMirror(NewMemoryPersister(), log)
	s := NewSessions(&flakyLoader{MemoryPersister: NewMemoryPersister(), failures: 1}, m, log, time.Hour)

	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := 0
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Get(context.Background(), "shared"); err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// One loader failure is seen by the callers waiting on that load only;
	// later callers reload and succeed.
	assert.GreaterOrEqual(t, failed, 1)
	mustGet(t, context.Background(), s, "shared")
}

func TestSessions_CancelledRequestStillRehydrates(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := NewMemoryPersister()
	saved, err := Encode([]domain.LineItem{{TourID: "T1", Date: "2025-01-10", Adults: 1, Price: 90}})
	require.NoError(t, err)
	require.NoError(t, p.Save(context.Background(), Key("gone"), saved))
	s := NewSessions(&flakyLoader{MemoryPersister: p}, NewMirror(p, log), log, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st := mustGet(t, ctx, s, "gone")

	assert.Len(t, st.Items(), 1)
}
