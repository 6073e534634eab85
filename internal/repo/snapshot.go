package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/tourbook/internal/domain"
	"github.com/pkordes/tourbook/internal/itinerary"
)

// pgSnapshotStore keeps serialized itineraries in the itinerary_snapshots table.
type pgSnapshotStore struct {
	db db
}

// NewSnapshotStore returns an itinerary.Persister backed by Postgres.
func NewSnapshotStore(db db) itinerary.Persister {
	return &pgSnapshotStore{db: db}
}

func (s *pgSnapshotStore) Load(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT payload::text FROM itinerary_snapshots WHERE key = @key`

	var payload string
	err := s.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key}).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("repo.SnapshotStore.Load: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.SnapshotStore.Load: %w", err)
	}
	return []byte(payload), nil
}

// Save upserts the snapshot. Payload must be valid JSON; the column is jsonb.
func (s *pgSnapshotStore) Save(ctx context.Context, key string, data []byte) error {
	const q = `
		INSERT INTO itinerary_snapshots (key, payload, updated_at)
		VALUES (@key, @payload::jsonb, now())
		ON CONFLICT (key) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = now()`

	if _, err := s.db.Exec(ctx, q, pgx.NamedArgs{"key": key, "payload": string(data)}); err != nil {
		return fmt.Errorf("repo.SnapshotStore.Save: %w", err)
	}
	return nil
}
