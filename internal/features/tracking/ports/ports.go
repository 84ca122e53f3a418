package ports

import (
	"context"

	"shipment-tracker/internal/features/tracking/domain"
)

// TrackingProvider fetches and normalizes one shipment's tracking state
// from a courier API. Implementations perform network calls only; cache
// writes belong to the orchestrator.
type TrackingProvider interface {
	// Track returns the normalized tracking snapshot for an AWB. FetchedAt
	// is left zero; the orchestrator stamps it when writing the cache.
	Track(ctx context.Context, awb string) (*domain.TrackingSnapshot, error)
}

// SnapshotRepository is the per-shipment snapshot cache.
// This is a Secondary Port (Driven Port).
type SnapshotRepository interface {
	// Get returns the cached snapshot for an AWB, or (nil, nil) when absent.
	Get(ctx context.Context, awb string) (*domain.TrackingSnapshot, error)

	// Save replaces the cached snapshot wholesale.
	Save(ctx context.Context, snapshot *domain.TrackingSnapshot) error

	// RecordError attaches a fetch failure to the last-known-good snapshot
	// without erasing it. A no-op when no snapshot exists.
	RecordError(ctx context.Context, awb string, info domain.ErrorInfo) error
}
