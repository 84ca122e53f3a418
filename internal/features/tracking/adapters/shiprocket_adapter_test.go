package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"shipment-tracker/internal/core/config"
	"shipment-tracker/internal/features/tracking/domain"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trackBodyOK = `{
	"tracking_data": {
		"shipment_track": [
			{
				"awb_code": "AWB123",
				"current_status": "18",
				"courier_name": "Delhivery",
				"destination": "Bengaluru",
				"edd": "2026-09-03"
			}
		],
		"shipment_track_activities": [
			{"date": "2026-08-28 09:15:00", "status": "1", "activity": "AWB assigned", "location": "Mumbai"},
			{"date": "2026-08-29 14:02:00", "status": "42", "activity": "Picked up", "location": "Mumbai"},
			{"date": "2026-08-30 08:30:00", "status": "18", "activity": "In transit", "location": "Pune"}
		]
	}
}`

type courierServer struct {
	*httptest.Server
	loginCalls int32
	trackCalls int32
}

// newCourierServer fakes the Shiprocket login and track endpoints.
// trackHandler may be nil, in which case trackBodyOK is served.
func newCourierServer(t *testing.T, trackHandler http.HandlerFunc) *courierServer {
	t.Helper()

	cs := &courierServer{}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/auth/login":
			atomic.AddInt32(&cs.loginCalls, 1)
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"token": fmt.Sprintf("token-%d", atomic.LoadInt32(&cs.loginCalls))})
		default:
			atomic.AddInt32(&cs.trackCalls, 1)
			if trackHandler != nil {
				trackHandler(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(trackBodyOK))
		}
	}))
	t.Cleanup(cs.Close)
	return cs
}

func newAdapter(ts *courierServer) *ShiprocketAdapter {
	cfg := config.ShiprocketConfig{
		URL:      ts.URL,
		Email:    "api@example.com",
		Password: "secret",
	}
	return NewShiprocketAdapter(cfg, ts.Client(), clock.New(), nil)
}

// TestShiprocketAdapter_Track verifies the happy path end to end.
func TestShiprocketAdapter_Track(t *testing.T) {
	ts := newCourierServer(t, nil)
	a := newAdapter(ts)

	snap, err := a.Track(context.Background(), "AWB123")
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.Equal(t, "AWB123", snap.ShipmentID)
	assert.Equal(t, "Delhivery", snap.CourierName)
	assert.Equal(t, "Bengaluru", snap.Destination)
	assert.Equal(t, domain.StageInTransit, snap.CurrentStage)
	require.NotNil(t, snap.EstimatedDelivery)
	assert.Equal(t, time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC), *snap.EstimatedDelivery)

	require.Len(t, snap.History, 3)
	assert.Equal(t, domain.StageOrderPlaced, snap.History[0].Stage)
	assert.Equal(t, domain.StagePickedUp, snap.History[1].Stage)
	assert.Equal(t, domain.StageInTransit, snap.History[2].Stage)
	assert.Equal(t, "Pune", snap.History[2].Location)
}

// TestShiprocketAdapter_TokenCached verifies that the token from the first
// login is reused for subsequent fetches.
func TestShiprocketAdapter_TokenCached(t *testing.T) {
	ts := newCourierServer(t, nil)
	a := newAdapter(ts)

	_, err := a.Track(context.Background(), "AWB123")
	require.NoError(t, err)
	_, err = a.Track(context.Background(), "AWB123")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&ts.loginCalls))
	assert.Equal(t, int32(2), atomic.LoadInt32(&ts.trackCalls))
}

// TestShiprocketAdapter_ReauthOnce verifies that a 401 from the track
// endpoint triggers exactly one re-login and one fetch retry.
func TestShiprocketAdapter_ReauthOnce(t *testing.T) {
	cs := &courierServer{}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" {
			atomic.AddInt32(&cs.loginCalls, 1)
			json.NewEncoder(w).Encode(map[string]string{"token": "fresh"})
			return
		}
		// The first track call is rejected as if the token had expired.
		if atomic.AddInt32(&cs.trackCalls, 1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(trackBodyOK))
	}))
	t.Cleanup(cs.Close)

	a := newAdapter(cs)

	snap, err := a.Track(context.Background(), "AWB123")
	require.NoError(t, err)
	assert.Equal(t, domain.StageInTransit, snap.CurrentStage)

	// One login up front, one forced by the 401; two track calls total.
	assert.Equal(t, int32(2), atomic.LoadInt32(&cs.loginCalls))
	assert.Equal(t, int32(2), atomic.LoadInt32(&cs.trackCalls))
}

// TestShiprocketAdapter_AuthErrorAfterReauth verifies that a token rejected
// even after re-authentication surfaces ErrAuth.
func TestShiprocketAdapter_AuthErrorAfterReauth(t *testing.T) {
	ts := newCourierServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	a := newAdapter(ts)

	_, err := a.Track(context.Background(), "AWB123")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuth)
	assert.Equal(t, int32(2), atomic.LoadInt32(&ts.trackCalls))
}

// TestShiprocketAdapter_LoginFailure verifies that a rejected credential
// exchange surfaces ErrAuth without hitting the track endpoint.
func TestShiprocketAdapter_LoginFailure(t *testing.T) {
	cs := &courierServer{}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(cs.Close)

	a := newAdapter(cs)

	_, err := a.Track(context.Background(), "AWB123")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuth)
}

// TestShiprocketAdapter_CourierError verifies non-2xx classification.
func TestShiprocketAdapter_CourierError(t *testing.T) {
	t.Run("5xx", func(t *testing.T) {
		ts := newCourierServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		a := newAdapter(ts)

		_, err := a.Track(context.Background(), "AWB123")
		require.Error(t, err)

		var apiErr *domain.CourierAPIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	})

	t.Run("404", func(t *testing.T) {
		ts := newCourierServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		a := newAdapter(ts)

		_, err := a.Track(context.Background(), "AWB123")
		require.Error(t, err)

		var apiErr *domain.CourierAPIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	})
}

// TestShiprocketAdapter_MalformedResponse verifies that schema mismatches
// surface ErrMalformedResponse.
func TestShiprocketAdapter_MalformedResponse(t *testing.T) {
	t.Run("InvalidJSON", func(t *testing.T) {
		ts := newCourierServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		})
		a := newAdapter(ts)

		_, err := a.Track(context.Background(), "AWB123")
		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	})

	t.Run("MissingShipmentTrack", func(t *testing.T) {
		ts := newCourierServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"tracking_data": {"shipment_track": [], "shipment_track_activities": []}}`))
		})
		a := newAdapter(ts)

		_, err := a.Track(context.Background(), "AWB123")
		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	})
}

// TestShiprocketAdapter_EmptyActivities verifies the booked-but-not-scanned
// case: empty history with the stage taken from the summary.
func TestShiprocketAdapter_EmptyActivities(t *testing.T) {
	ts := newCourierServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"tracking_data": {
				"shipment_track": [{"awb_code": "AWB123", "current_status": "1", "courier_name": "Delhivery"}],
				"shipment_track_activities": []
			}
		}`))
	})
	a := newAdapter(ts)

	snap, err := a.Track(context.Background(), "AWB123")
	require.NoError(t, err)

	assert.Empty(t, snap.History)
	assert.Equal(t, domain.StageOrderPlaced, snap.CurrentStage)
}

// TestShiprocketAdapter_Normalize verifies sorting, stage deduplication,
// and timestamp handling of the raw activity feed.
func TestShiprocketAdapter_Normalize(t *testing.T) {
	ts := newCourierServer(t, nil)
	a := newAdapter(ts)

	history := a.normalize([]shiprocketActivity{
		{Date: "2026-08-28 10:00:00", Status: "1", Activity: "AWB assigned"},
		{Date: "2026-08-28 11:00:00", Status: "1", Activity: "AWB assigned"},
		{Date: "2026-08-29 09:00:00", Status: "42", Activity: "Picked up"},
	})

	// The repeated ORDER_PLACED pair collapses to one entry carrying the
	// latest timestamp.
	require.Len(t, history, 2)
	assert.Equal(t, domain.StageOrderPlaced, history[0].Stage)
	assert.Equal(t, time.Date(2026, 8, 28, 11, 0, 0, 0, time.UTC), history[0].Timestamp)
	assert.Equal(t, domain.StagePickedUp, history[1].Stage)
}

// TestShiprocketAdapter_NormalizeDropsUnparseable verifies that activities
// with bad timestamps are dropped, not fatal.
func TestShiprocketAdapter_NormalizeDropsUnparseable(t *testing.T) {
	ts := newCourierServer(t, nil)
	a := newAdapter(ts)

	history := a.normalize([]shiprocketActivity{
		{Date: "yesterday-ish", Status: "1"},
		{Date: "2026-08-29 09:00:00", Status: "42"},
	})

	require.Len(t, history, 1)
	assert.Equal(t, domain.StagePickedUp, history[0].Stage)
}

// TestShiprocketAdapter_NormalizeSortsOutOfOrder verifies ascending output
// for a feed delivered newest-first.
func TestShiprocketAdapter_NormalizeSortsOutOfOrder(t *testing.T) {
	ts := newCourierServer(t, nil)
	a := newAdapter(ts)

	history := a.normalize([]shiprocketActivity{
		{Date: "2026-08-30 08:30:00", Status: "18"},
		{Date: "2026-08-28 09:15:00", Status: "1"},
		{Date: "2026-08-29 14:02:00", Status: "42"},
	})

	require.Len(t, history, 3)
	assert.True(t, history[0].Timestamp.Before(history[1].Timestamp))
	assert.True(t, history[1].Timestamp.Before(history[2].Timestamp))
}
