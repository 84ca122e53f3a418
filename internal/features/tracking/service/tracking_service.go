package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/core/metrics"
	"shipment-tracker/internal/features/tracking/domain"
	"shipment-tracker/internal/features/tracking/ports"
	"shipment-tracker/internal/features/tracking/scheduler"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// GetOptions controls how a tracking read resolves against the cache.
type GetOptions struct {
	// PreferCache serves a cached snapshot without a network call as long as
	// it is fresh. When false the courier is always consulted.
	PreferCache bool
}

// Subscriber receives the snapshot produced by each poll tick.
type Subscriber func(snapshot *domain.TrackingSnapshot)

// TrackingOrchestrator coordinates courier fetches, the snapshot cache and
// the polling scheduler. It is the only component that decides when a
// network call happens.
type TrackingOrchestrator struct {
	provider ports.TrackingProvider
	repo     ports.SnapshotRepository
	sched    *scheduler.PollingScheduler
	clock    clock.Clock
	logger   *zap.Logger
	metrics  *metrics.Metrics
	retry    *RetryPolicy

	// freshness is how long a cached snapshot counts as fresh. A snapshot
	// exactly this old is already stale.
	freshness time.Duration

	// group collapses concurrent refreshes of the same AWB into a single
	// courier call.
	group singleflight.Group

	mu       sync.Mutex
	watchers map[string]map[string]Subscriber
}

// NewTrackingOrchestrator wires the orchestrator. A nil metrics instance
// gets replaced with a private one so call sites never nil-check.
func NewTrackingOrchestrator(
	provider ports.TrackingProvider,
	repo ports.SnapshotRepository,
	sched *scheduler.PollingScheduler,
	clk clock.Clock,
	m *metrics.Metrics,
	freshness time.Duration,
) *TrackingOrchestrator {
	if m == nil {
		m = metrics.New()
	}

	s := &TrackingOrchestrator{
		provider:  provider,
		repo:      repo,
		sched:     sched,
		clock:     clk,
		logger:    logger.Get(),
		metrics:   m,
		freshness: freshness,
		watchers:  make(map[string]map[string]Subscriber),
	}
	s.retry = NewRetryPolicy(clk, func() {
		m.FetchRetries.Inc()
	})
	return s
}

// GetTracking returns the tracking snapshot for an AWB. With PreferCache a
// fresh cached snapshot is served without touching the courier; otherwise
// the courier is fetched, with concurrent requests for the same AWB
// collapsed into one call.
func (s *TrackingOrchestrator) GetTracking(ctx context.Context, awb string, opts GetOptions) (*domain.TrackingSnapshot, error) {
	cached, err := s.repo.Get(ctx, awb)
	if err != nil {
		s.logger.Warn("Snapshot cache read failed",
			zap.String("awb", awb),
			zap.Error(err),
		)
		cached = nil
	}

	switch {
	case cached == nil:
		s.metrics.CacheLookups.WithLabelValues("miss").Inc()
	case s.clock.Now().Sub(cached.FetchedAt) < s.freshness:
		s.metrics.CacheLookups.WithLabelValues("hit").Inc()
		if opts.PreferCache {
			return cached, nil
		}
	default:
		s.metrics.CacheLookups.WithLabelValues("stale").Inc()
	}

	v, err, _ := s.group.Do(awb, func() (interface{}, error) {
		return s.refresh(ctx, awb)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.TrackingSnapshot), nil
}

// refresh fetches from the courier with retries and reconciles the result
// against the cache. On failure the last known snapshot is served annotated
// with the error; only a shipment never fetched before surfaces an error.
func (s *TrackingOrchestrator) refresh(ctx context.Context, awb string) (*domain.TrackingSnapshot, error) {
	prev, err := s.repo.Get(ctx, awb)
	if err != nil {
		prev = nil
	}

	var snap *domain.TrackingSnapshot
	fetchErr := s.retry.Do(ctx, func(ctx context.Context) error {
		var terr error
		snap, terr = s.provider.Track(ctx, awb)
		return terr
	})

	if fetchErr != nil {
		info := domain.NewErrorInfo(fetchErr, s.clock.Now().UTC())
		s.metrics.CourierFetches.WithLabelValues(fetchResult(info.Kind)).Inc()

		if prev == nil {
			return nil, fmt.Errorf("%w for %s: %v", domain.ErrNoTrackingData, awb, fetchErr)
		}

		s.logger.Warn("Courier fetch failed, serving last known snapshot",
			zap.String("awb", awb),
			zap.String("error_kind", info.Kind),
			zap.Error(fetchErr),
		)
		if rerr := s.repo.RecordError(ctx, awb, info); rerr != nil {
			s.logger.Warn("Failed to record fetch error", zap.String("awb", awb), zap.Error(rerr))
		}
		return prev.WithError(info), nil
	}

	snap.ShipmentID = awb
	snap.FetchedAt = s.clock.Now().UTC()

	// The courier is the source of truth even when it reports a stage
	// earlier than what we had; regressions are logged, not corrected.
	if prev != nil && snap.CurrentStage.Before(prev.CurrentStage) {
		s.logger.Warn("Courier reported a stage regression",
			zap.String("awb", awb),
			zap.String("previous_stage", string(prev.CurrentStage)),
			zap.String("reported_stage", string(snap.CurrentStage)),
		)
	}

	if err := s.repo.Save(ctx, snap); err != nil {
		s.logger.Warn("Failed to cache snapshot", zap.String("awb", awb), zap.Error(err))
	}
	s.metrics.CourierFetches.WithLabelValues("success").Inc()

	return snap, nil
}

// WatchTracking subscribes to periodic refreshes of an AWB. The returned
// function unsubscribes; when the last subscriber leaves, polling for the
// AWB stops. The unsubscribe function is idempotent.
func (s *TrackingOrchestrator) WatchTracking(awb string, interval time.Duration, fn Subscriber) func() {
	id := uuid.NewString()

	s.mu.Lock()
	subs, ok := s.watchers[awb]
	if !ok {
		subs = make(map[string]Subscriber)
		s.watchers[awb] = subs
	}
	subs[id] = fn
	s.mu.Unlock()

	// StartPolling replaces any existing loop, so re-watching an AWB never
	// stacks timers.
	s.sched.StartPolling(awb, interval, s.pollTick(awb))
	s.metrics.ActivePolls.Set(float64(s.sched.ActiveCount()))

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers[awb], id)
			last := len(s.watchers[awb]) == 0
			if last {
				delete(s.watchers, awb)
			}
			s.mu.Unlock()

			if last {
				s.sched.StopPolling(awb)
			}
			s.metrics.ActivePolls.Set(float64(s.sched.ActiveCount()))
		})
	}
}

// pollTick builds the scheduler callback for one AWB: force a refresh and
// fan the result out to the current subscribers.
func (s *TrackingOrchestrator) pollTick(awb string) scheduler.TickFunc {
	return func(ctx context.Context) {
		s.metrics.PollTicks.Inc()

		snap, err := s.GetTracking(ctx, awb, GetOptions{PreferCache: false})
		if err != nil {
			s.logger.Warn("Poll tick failed", zap.String("awb", awb), zap.Error(err))
			return
		}

		s.mu.Lock()
		fns := make([]Subscriber, 0, len(s.watchers[awb]))
		for _, fn := range s.watchers[awb] {
			fns = append(fns, fn)
		}
		s.mu.Unlock()

		for _, fn := range fns {
			fn(snap)
		}
	}
}

// Teardown stops all polling and drops every subscriber. Safe to call more
// than once; used on shutdown.
func (s *TrackingOrchestrator) Teardown() {
	s.sched.StopAll()

	s.mu.Lock()
	s.watchers = make(map[string]map[string]Subscriber)
	s.mu.Unlock()

	s.metrics.ActivePolls.Set(0)
}

// fetchResult maps an error classification to the fetch result metric label.
func fetchResult(kind string) string {
	switch kind {
	case "auth":
		return "auth_error"
	case "courier_api":
		return "courier_error"
	case "transport":
		return "transport_error"
	case "malformed":
		return "malformed"
	default:
		return "unknown"
	}
}
