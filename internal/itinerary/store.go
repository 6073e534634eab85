// Package itinerary holds the per-session list of tour bookings.
// A Store is the single source of truth for one session; every mutation
// updates memory synchronously and hands the full collection to a Writer,
// which persists it in the background.
package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/pkordes/tourbook/internal/domain"
)

// KeyPrefix is the fixed storage key prefix of persisted itineraries.
// The full key is KeyPrefix + ":" + session id.
const KeyPrefix = "itinerary-cart"

// Key returns the storage key holding the itinerary of sessionID.
func Key(sessionID string) string {
	return KeyPrefix + ":" + sessionID
}

// Loader reads a previously persisted snapshot.
// Load returns domain.ErrNotFound when nothing is stored under key.
type Loader interface {
	Load(ctx context.Context, key string) ([]byte, error)
}

// Writer receives the serialized collection after every mutation.
// Enqueue must not block; failures are the Writer's concern, not the caller's.
type Writer interface {
	Enqueue(key string, data []byte)
}

// Persister is a durable key-value store for serialized snapshots.
// Backends live in the repo package; MemoryPersister is the in-process one.
type Persister interface {
	Loader
	Save(ctx context.Context, key string, data []byte) error
}

// Store is the itinerary of one session.
// It is safe for concurrent use; HTTP handlers for the same session may
// overlap even though a browser tab issues them one at a time.
type Store struct {
	mu    sync.Mutex
	key   string
	items []domain.LineItem
	w     Writer
	log   *slog.Logger
}

// Open returns the Store persisted under key, rehydrated through l.
// A missing snapshot yields an empty Store. An unparseable snapshot is
// logged and also yields an empty Store.
// If l fails, Open returns the error and no Store: writing an empty one
// would overwrite the snapshot that could not be read.
func Open(ctx context.Context, key string, l Loader, w Writer, log *slog.Logger) (*Store, error) {
	s := &Store{key: key, w: w, log: log}

	data, err := l.Load(ctx, key)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("itinerary.Open %s: %w", key, err)
	}

	items, err := Decode(data)
	if err != nil {
		log.WarnContext(ctx, "itinerary: persistence read failure", "key", key, "error", err)
		return s, nil
	}
	for _, it := range items {
		s.upsert(it)
	}
	return s, nil
}

// Key returns the storage key of the Store.
func (s *Store) Key() string { return s.key }

// AddItem inserts item, or replaces the item with the same (tourId, date).
// On replace the new fields win, except that empty notes keep the prior notes.
// The subtotal is always recomputed from price and party size.
func (s *Store) AddItem(item domain.LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsert(item)
	s.persist()
}

// RemoveItem deletes the item with the given key. Absent keys are a no-op.
func (s *Store) RemoveItem(tourID, date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(domain.ItemKey{TourID: tourID, Date: date})
	if i == -1 {
		return
	}
	s.items = slices.Delete(s.items, i, i+1)
	s.persist()
}

// UpdateQuantity sets the party size of the item with the given key and
// recomputes its subtotal from the stored price. Absent keys are a no-op.
// Values are stored as given; range checks belong to the caller.
func (s *Store) UpdateQuantity(tourID, date string, adults, children int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(domain.ItemKey{TourID: tourID, Date: date})
	if i == -1 {
		return
	}
	it := s.items[i]
	it.Adults, it.Children = adults, children
	s.items[i] = it.Reprice()
	s.persist()
}

// Clear empties the itinerary and persists the empty collection.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.persist()
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Get returns the item with the given key.
func (s *Store) Get(tourID, date string) (domain.LineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(domain.ItemKey{TourID: tourID, Date: date})
	if i == -1 {
		return domain.LineItem{}, false
	}
	return s.items[i], true
}

// Len returns the number of line items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Total is the sum of all subtotals, recomputed on every call.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Total(s.items)
}

// Snapshot returns the items and their total read under one lock, so a
// checkout message never mixes two states.
func (s *Store) Snapshot() ([]domain.LineItem, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items), domain.Total(s.items)
}

// upsert applies the merge rule. Callers hold mu.
func (s *Store) upsert(item domain.LineItem) {
	item = item.Reprice()
	i := s.index(item.Key())
	if i == -1 {
		s.items = append(s.items, item)
		return
	}
	if strings.TrimSpace(item.Notes) == "" {
		item.Notes = s.items[i].Notes
	}
	s.items[i] = item
}

func (s *Store) index(k domain.ItemKey) int {
	return slices.IndexFunc(s.items, func(it domain.LineItem) bool {
		return it.Key() == k
	})
}

// persist hands the full collection to the Writer. Callers hold mu, which
// keeps the enqueue order equal to the mutation order.
func (s *Store) persist() {
	data, err := Encode(s.items)
	if err != nil {
		s.log.Error("itinerary: encode snapshot", "key", s.key, "error", err)
		return
	}
	s.w.Enqueue(s.key, data)
}

// Encode serializes items as the persisted JSON array.
// A nil slice encodes as "[]", never "null".
func Encode(items []domain.LineItem) ([]byte, error) {
	if items == nil {
		items = []domain.LineItem{}
	}
	return json.Marshal(items)
}

// Decode parses a persisted JSON array of line items.
func Decode(data []byte) ([]domain.LineItem, error) {
	var items []domain.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}
