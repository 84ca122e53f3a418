package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shipment-tracker/internal/core/cache"
	"shipment-tracker/internal/features/tracking/domain"
)

const snapshotKeyPrefix = "tracking:snapshot:"

// CacheSnapshotRepository implements the SnapshotRepository port on top of
// the core cache, serializing snapshots as JSON. Works against either the
// in-memory or the Redis cache backend.
type CacheSnapshotRepository struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewCacheSnapshotRepository creates a CacheSnapshotRepository. Entries are
// evicted after ttl; 0 disables eviction.
func NewCacheSnapshotRepository(c cache.Cache, ttl time.Duration) *CacheSnapshotRepository {
	return &CacheSnapshotRepository{
		cache: c,
		ttl:   ttl,
	}
}

// Get retrieves the cached snapshot for an AWB, returning (nil, nil) when
// no snapshot exists.
func (r *CacheSnapshotRepository) Get(ctx context.Context, awb string) (*domain.TrackingSnapshot, error) {
	key := snapshotKeyPrefix + awb

	data, err := r.cache.Get(ctx, key)
	if err != nil {
		// Check if the error is due to key not found
		if err.Error() == fmt.Sprintf("key not found: %s", key) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get snapshot from cache: %w", err)
	}

	var snapshot domain.TrackingSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}

// Save replaces the cached snapshot wholesale.
func (r *CacheSnapshotRepository) Save(ctx context.Context, snapshot *domain.TrackingSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	key := snapshotKeyPrefix + snapshot.ShipmentID
	if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
		return fmt.Errorf("failed to save snapshot to cache: %w", err)
	}

	return nil
}

// RecordError attaches a fetch failure to the last-known-good snapshot.
// A transient courier outage must not blank previously successful data, so
// this never removes or replaces the snapshot body.
func (r *CacheSnapshotRepository) RecordError(ctx context.Context, awb string, info domain.ErrorInfo) error {
	snapshot, err := r.Get(ctx, awb)
	if err != nil {
		return err
	}
	if snapshot == nil {
		return nil
	}

	snapshot.LastError = &info
	return r.Save(ctx, snapshot)
}
