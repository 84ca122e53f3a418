package scheduler

import (
	"context"
	"sync"
	"time"

	"shipment-tracker/internal/core/logger"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// TickFunc is one scheduled refresh for a shipment. The context is cancelled
// when the subscription stops, which aborts any in-flight network call.
type TickFunc func(ctx context.Context)

type subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// PollingScheduler runs one periodic refresh loop per tracked shipment. It
// holds only timer bookkeeping, never tracking data: caching and fetch
// logic stay with their own components.
type PollingScheduler struct {
	clock  clock.Clock
	logger *zap.Logger

	mu   sync.Mutex
	subs map[string]*subscription
}

// New creates a PollingScheduler driven by the given clock.
func New(clk clock.Clock) *PollingScheduler {
	return &PollingScheduler{
		clock:  clk,
		logger: logger.Get(),
		subs:   make(map[string]*subscription),
	}
}

// StartPolling begins a poll loop for a shipment: one tick immediately,
// then one every interval. If a subscription already exists for the
// shipment it is stopped first, so at most one timer per shipment ever
// runs.
func (s *PollingScheduler) StartPolling(shipmentID string, interval time.Duration, onTick TickFunc) {
	for {
		s.mu.Lock()
		existing, ok := s.subs[shipmentID]
		if !ok {
			break
		}
		delete(s.subs, shipmentID)
		s.mu.Unlock()

		existing.cancel()
		<-existing.done
	}

	ctx, cancel := context.WithCancel(context.Background())
	sub := &subscription{cancel: cancel, done: make(chan struct{})}
	s.subs[shipmentID] = sub
	s.mu.Unlock()

	s.logger.Debug("Polling started",
		zap.String("shipment_id", shipmentID),
		zap.Duration("interval", interval),
	)

	go s.run(ctx, sub, interval, onTick)
}

// run executes the poll loop. Every tick is gated on the clock and the
// context is rechecked after each wake so a stop that races a pending tick
// always wins.
func (s *PollingScheduler) run(ctx context.Context, sub *subscription, interval time.Duration, onTick TickFunc) {
	defer close(sub.done)

	first := s.clock.Timer(0)
	defer first.Stop()

	select {
	case <-ctx.Done():
		return
	case <-first.C:
	}
	if ctx.Err() != nil {
		return
	}
	onTick(ctx)

	ticker := s.clock.Ticker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if ctx.Err() != nil {
			return
		}
		onTick(ctx)
	}
}

// StopPolling cancels the shipment's timer and waits for its loop to exit,
// so no further ticks run after it returns. Calling it for an untracked
// shipment is a no-op.
func (s *PollingScheduler) StopPolling(shipmentID string) {
	s.mu.Lock()
	sub, ok := s.subs[shipmentID]
	if ok {
		delete(s.subs, shipmentID)
	}
	s.mu.Unlock()

	if !ok {
		return
	}

	sub.cancel()
	<-sub.done

	s.logger.Debug("Polling stopped", zap.String("shipment_id", shipmentID))
}

// StopAll cancels every active subscription. Used at orchestrator teardown
// so no orphaned timer outlives its owner.
func (s *PollingScheduler) StopAll() {
	s.mu.Lock()
	subs := s.subs
	s.subs = make(map[string]*subscription)
	s.mu.Unlock()

	for id, sub := range subs {
		sub.cancel()
		<-sub.done
		s.logger.Debug("Polling stopped", zap.String("shipment_id", id))
	}
}

// ActiveCount returns the number of active subscriptions.
func (s *PollingScheduler) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
