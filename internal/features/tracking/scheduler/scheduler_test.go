package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// driveTick advances the mock clock in small steps until a tick arrives.
// The poll goroutine registers its timers asynchronously, so a single large
// Add could land before the timer exists.
func driveTick(t *testing.T, clk *clock.Mock, tick <-chan struct{}) {
	t.Helper()
	for i := 0; i < 200; i++ {
		clk.Add(100 * time.Millisecond)
		select {
		case <-tick:
			return
		case <-time.After(5 * time.Millisecond):
		}
	}
	t.Fatal("timed out waiting for poll tick")
}

// TestPollingScheduler_FirstTickImmediate verifies that the first tick does
// not wait a full interval.
func TestPollingScheduler_FirstTickImmediate(t *testing.T) {
	clk := clock.NewMock()
	s := New(clk)
	defer s.StopAll()

	tick := make(chan struct{}, 10)
	s.StartPolling("AWB123", time.Hour, func(ctx context.Context) {
		tick <- struct{}{}
	})

	// Far less than the interval passes before the first tick.
	driveTick(t, clk, tick)
	assert.Equal(t, 1, s.ActiveCount())
}

// TestPollingScheduler_PeriodicTicks verifies that ticks keep firing every
// interval.
func TestPollingScheduler_PeriodicTicks(t *testing.T) {
	clk := clock.NewMock()
	s := New(clk)
	defer s.StopAll()

	tick := make(chan struct{}, 100)
	s.StartPolling("AWB123", 30*time.Second, func(ctx context.Context) {
		tick <- struct{}{}
	})

	driveTick(t, clk, tick)
	driveTick(t, clk, tick)
	driveTick(t, clk, tick)
}

// TestPollingScheduler_NoDuplicateTimers verifies that starting a poll for
// an already-subscribed shipment replaces the timer instead of duplicating
// it.
func TestPollingScheduler_NoDuplicateTimers(t *testing.T) {
	clk := clock.NewMock()
	s := New(clk)
	defer s.StopAll()

	var first, second int32
	s.StartPolling("AWB123", time.Minute, func(ctx context.Context) {
		atomic.AddInt32(&first, 1)
	})

	tick := make(chan struct{}, 100)
	s.StartPolling("AWB123", time.Minute, func(ctx context.Context) {
		atomic.AddInt32(&second, 1)
		tick <- struct{}{}
	})

	assert.Equal(t, 1, s.ActiveCount())

	driveTick(t, clk, tick)
	driveTick(t, clk, tick)

	// The replaced loop never fired: its clock never advanced before the
	// replacement cancelled it.
	assert.Equal(t, int32(0), atomic.LoadInt32(&first))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&second), int32(2))
}

// TestPollingScheduler_StopBeforeFirstTick verifies that a stop landing
// before the first tick fires suppresses it entirely.
func TestPollingScheduler_StopBeforeFirstTick(t *testing.T) {
	clk := clock.NewMock()
	s := New(clk)

	var ticks int32
	s.StartPolling("AWB123", time.Second, func(ctx context.Context) {
		atomic.AddInt32(&ticks, 1)
	})
	s.StopPolling("AWB123")

	clk.Add(10 * time.Second)
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, int32(0), atomic.LoadInt32(&ticks))
	assert.Equal(t, 0, s.ActiveCount())
}

// TestPollingScheduler_StopIdempotent verifies that stopping twice, or
// stopping an untracked shipment, is a no-op.
func TestPollingScheduler_StopIdempotent(t *testing.T) {
	clk := clock.NewMock()
	s := New(clk)

	s.StopPolling("never-started")

	s.StartPolling("AWB123", time.Second, func(ctx context.Context) {})
	s.StopPolling("AWB123")
	s.StopPolling("AWB123")

	assert.Equal(t, 0, s.ActiveCount())
}

// TestPollingScheduler_StopCancelsInFlightTick verifies that stop cancels
// the tick context and still returns once the tick unblocks.
func TestPollingScheduler_StopCancelsInFlightTick(t *testing.T) {
	clk := clock.NewMock()
	s := New(clk)

	started := make(chan struct{})
	cancelled := make(chan struct{})
	s.StartPolling("AWB123", time.Minute, func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		close(cancelled)
	})

	go func() {
		for i := 0; i < 200; i++ {
			clk.Add(100 * time.Millisecond)
			select {
			case <-started:
				return
			case <-time.After(5 * time.Millisecond):
			}
		}
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("first tick never fired")
	}

	s.StopPolling("AWB123")

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("tick context was not cancelled on stop")
	}
}

// TestPollingScheduler_StopAll verifies teardown across shipments and its
// idempotency.
func TestPollingScheduler_StopAll(t *testing.T) {
	clk := clock.NewMock()
	s := New(clk)

	s.StartPolling("AWB1", time.Second, func(ctx context.Context) {})
	s.StartPolling("AWB2", time.Second, func(ctx context.Context) {})
	require.Equal(t, 2, s.ActiveCount())

	s.StopAll()
	assert.Equal(t, 0, s.ActiveCount())

	s.StopAll()
	assert.Equal(t, 0, s.ActiveCount())
}
