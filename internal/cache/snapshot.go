// Package cache stores the local seating map snapshot. Each user owns a
// single named Redis slot holding the canonical JSON text; a save
// overwrites the slot wholesale, mirroring how the browser original kept
// one localStorage key.
package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/hyunsol/choir-seating-map/internal/seating"
)

// snapshotKey builds the slot name for a user's snapshot.
func snapshotKey(userID string) string {
	return "seating:snapshot:" + userID
}

// SnapshotCache persists seating map snapshots to Redis. The slot has no
// expiry: a saved map stays until the next save overwrites it.
type SnapshotCache struct {
	rdb *redis.Client
}

// NewSnapshotCache wraps a Redis client. The client may be nil when
// Redis is unreachable at startup; every operation then fails with
// seating.ErrStorage instead of panicking.
func NewSnapshotCache(rdb *redis.Client) *SnapshotCache {
	return &SnapshotCache{rdb: rdb}
}

// Save serializes the aggregate and overwrites the user's slot. The
// in-memory map is untouched on failure and a retry is safe: writing the
// same snapshot twice is idempotent.
func (c *SnapshotCache) Save(ctx context.Context, userID string, m seating.Map) error {
	if c.rdb == nil {
		return fmt.Errorf("%w: cache unavailable", seating.ErrStorage)
	}
	data, err := seating.EncodeJSON(m)
	if err != nil {
		return fmt.Errorf("%w: %v", seating.ErrStorage, err)
	}
	if err := c.rdb.Set(ctx, snapshotKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", seating.ErrStorage, err)
	}
	return nil
}

// Load reads and decodes the user's slot. A slot that was never written
// yields ok=false and no error; only transport or decode failures are
// reported as errors.
func (c *SnapshotCache) Load(ctx context.Context, userID string) (seating.Map, bool, error) {
	if c.rdb == nil {
		return seating.Map{}, false, fmt.Errorf("%w: cache unavailable", seating.ErrStorage)
	}
	data, err := c.rdb.Get(ctx, snapshotKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return seating.Map{}, false, nil
	}
	if err != nil {
		return seating.Map{}, false, fmt.Errorf("%w: %v", seating.ErrStorage, err)
	}
	m, err := seating.DecodeJSON(data)
	if err != nil {
		return seating.Map{}, false, fmt.Errorf("%w: %v", seating.ErrStorage, err)
	}
	return m, true, nil
}
