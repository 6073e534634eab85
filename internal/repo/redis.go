package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pkordes/tourbook/internal/domain"
	"github.com/pkordes/tourbook/internal/itinerary"
)

// redisSnapshotStore keeps serialized itineraries as plain Redis strings.
// Each Save refreshes the key's expiry so abandoned carts age out on their own.
type redisSnapshotStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisSnapshotStore returns an itinerary.Persister backed by Redis.
// A ttl of zero keeps snapshots forever.
func NewRedisSnapshotStore(rdb redis.Cmdable, ttl time.Duration) itinerary.Persister {
	return &redisSnapshotStore{rdb: rdb, ttl: ttl}
}

func (s *redisSnapshotStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("repo.RedisSnapshotStore.Load: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.RedisSnapshotStore.Load: %w", err)
	}
	return data, nil
}

func (s *redisSnapshotStore) Save(ctx context.Context, key string, data []byte) error {
	if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("repo.RedisSnapshotStore.Save: %w", err)
	}
	return nil
}
