package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"shipment-tracker/internal/core/config"
	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/core/metrics"
	"shipment-tracker/internal/features/tracking/domain"

	"github.com/benbjohnson/clock"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	// Shiprocket bearer tokens are valid for about 10 hours; refresh a bit
	// early so an almost-expired token is never sent.
	tokenValidity      = 10 * time.Hour
	tokenRefreshMargin = 15 * time.Minute

	activityDateLayout = "2006-01-02 15:04:05"
	eddDateLayout      = "2006-01-02"
)

// ShiprocketAdapter implements the TrackingProvider port against the
// Shiprocket external API. It owns the short-lived auth-token cache and the
// circuit breaker guarding the courier endpoints.
type ShiprocketAdapter struct {
	baseURL  string
	email    string
	password string
	client   *http.Client
	clock    clock.Clock
	breaker  *gobreaker.CircuitBreaker
	logger   *zap.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewShiprocketAdapter creates a ShiprocketAdapter. The metrics instance may
// be nil; it is only used to export the breaker state.
func NewShiprocketAdapter(cfg config.ShiprocketConfig, client *http.Client, clk clock.Clock, m *metrics.Metrics) *ShiprocketAdapter {
	l := logger.Get()

	settings := gobreaker.Settings{
		Name:     "shiprocket",
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			l.Warn("Courier circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if m != nil {
				m.BreakerState.Set(float64(to))
			}
		},
	}

	return &ShiprocketAdapter{
		baseURL:  cfg.URL,
		email:    cfg.Email,
		password: cfg.Password,
		client:   client,
		clock:    clk,
		breaker:  gobreaker.NewCircuitBreaker(settings),
		logger:   l,
	}
}

// shiprocketTrackResponse represents the JSON structure of the
// track-by-AWB endpoint.
type shiprocketTrackResponse struct {
	TrackingData struct {
		ShipmentTrack []struct {
			AWBCode       string `json:"awb_code"`
			CurrentStatus string `json:"current_status"`
			CourierName   string `json:"courier_name"`
			Destination   string `json:"destination"`
			EDD           string `json:"edd"`
		} `json:"shipment_track"`
		ShipmentTrackActivities []shiprocketActivity `json:"shipment_track_activities"`
	} `json:"tracking_data"`
}

type shiprocketActivity struct {
	Date     string `json:"date"`
	Status   string `json:"status"`
	Activity string `json:"activity"`
	Location string `json:"location"`
}

type shiprocketLoginResponse struct {
	Token string `json:"token"`
}

// Track fetches and normalizes the current tracking state for an AWB.
// A 401/403 from the track endpoint triggers exactly one re-authentication
// plus one retry of the fetch before surfacing an auth error.
func (a *ShiprocketAdapter) Track(ctx context.Context, awb string) (*domain.TrackingSnapshot, error) {
	token, err := a.authenticate(ctx, false)
	if err != nil {
		return nil, err
	}

	resp, err := a.trackRequest(ctx, awb, token)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		resp.Body.Close()
		a.logger.Debug("Courier rejected token, re-authenticating", zap.String("awb", awb))

		token, err = a.authenticate(ctx, true)
		if err != nil {
			return nil, err
		}

		resp, err = a.trackRequest(ctx, awb, token)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			resp.Body.Close()
			return nil, fmt.Errorf("token rejected after re-authentication: %w", domain.ErrAuth)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.CourierAPIError{StatusCode: resp.StatusCode}
	}

	var payload shiprocketTrackResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	return a.mapToSnapshot(awb, payload)
}

// authenticate returns a valid bearer token, exchanging credentials only
// when the cached token is absent, expired, or force is set.
func (a *ShiprocketAdapter) authenticate(ctx context.Context, force bool) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !force && a.token != "" && a.clock.Now().Before(a.tokenExpiry) {
		return a.token, nil
	}

	body, err := json.Marshal(map[string]string{
		"email":    a.email,
		"password": a.password,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode login payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("login returned status %d: %w", resp.StatusCode, domain.ErrAuth)
	}

	var login shiprocketLoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", domain.ErrAuth)
	}
	if login.Token == "" {
		return "", fmt.Errorf("login response contained no token: %w", domain.ErrAuth)
	}

	a.token = login.Token
	a.tokenExpiry = a.clock.Now().Add(tokenValidity - tokenRefreshMargin)
	a.logger.Debug("Courier token refreshed", zap.Time("expires_at", a.tokenExpiry))

	return a.token, nil
}

func (a *ShiprocketAdapter) trackRequest(ctx context.Context, awb, token string) (*http.Response, error) {
	url := fmt.Sprintf("%s/courier/track/awb/%s", a.baseURL, awb)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create track request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	return a.do(req)
}

// do executes a request through the circuit breaker. Transport failures and
// 5xx responses surface as errors (and count against the breaker); any
// other response passes through for the caller to interpret.
func (a *ShiprocketAdapter) do(req *http.Request) (*http.Response, error) {
	result, err := a.breaker.Execute(func() (interface{}, error) {
		resp, err := a.client.Do(req)
		if err != nil {
			return nil, &domain.TransportError{Err: err}
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil, &domain.CourierAPIError{StatusCode: resp.StatusCode}
		}
		return resp, nil
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return nil, &domain.TransportError{Err: err}
	}
	if err != nil {
		return nil, err
	}
	return result.(*http.Response), nil
}

// mapToSnapshot converts a raw Shiprocket payload into the domain snapshot.
func (a *ShiprocketAdapter) mapToSnapshot(awb string, payload shiprocketTrackResponse) (*domain.TrackingSnapshot, error) {
	if len(payload.TrackingData.ShipmentTrack) == 0 {
		return nil, fmt.Errorf("%w: tracking_data.shipment_track is empty", domain.ErrMalformedResponse)
	}

	summary := payload.TrackingData.ShipmentTrack[0]
	history := a.normalize(payload.TrackingData.ShipmentTrackActivities)

	// An empty activity list is a shipment that is booked but not yet
	// scanned; the summary status is all we have.
	currentStage := domain.Canonicalize(summary.CurrentStatus)
	if len(history) > 0 {
		currentStage = history[len(history)-1].Stage
	}

	snapshot := &domain.TrackingSnapshot{
		ShipmentID:   awb,
		CourierName:  summary.CourierName,
		Destination:  summary.Destination,
		CurrentStage: currentStage,
		History:      history,
	}

	if summary.EDD != "" {
		if edd, err := parseCourierDate(summary.EDD); err == nil {
			snapshot.EstimatedDelivery = &edd
		} else {
			a.logger.Warn("Unparseable EDD in courier response",
				zap.String("awb", awb),
				zap.String("edd", summary.EDD),
			)
		}
	}

	return snapshot, nil
}

// normalize maps raw activities through the status vocabulary, drops
// entries with unparseable timestamps, sorts ascending, and collapses
// consecutive repeats of the same canonical stage keeping the latest
// timestamp per stage transition.
func (a *ShiprocketAdapter) normalize(raw []shiprocketActivity) domain.TrackingHistory {
	activities := make(domain.TrackingHistory, 0, len(raw))

	for _, item := range raw {
		ts, err := time.Parse(activityDateLayout, item.Date)
		if err != nil {
			a.logger.Warn("Dropping activity with unparseable timestamp",
				zap.String("date", item.Date),
				zap.String("status", item.Status),
			)
			continue
		}

		if !domain.KnownCode(item.Status) {
			a.logger.Warn("Unknown courier status code encountered",
				zap.String("code", item.Status),
				zap.String("activity", item.Activity),
			)
		}

		activities = append(activities, domain.TrackingActivity{
			RawStatusCode: item.Status,
			Stage:         domain.Canonicalize(item.Status),
			Label:         domain.Label(item.Status),
			Location:      item.Location,
			Timestamp:     ts.UTC(),
		})
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Timestamp.Before(activities[j].Timestamp)
	})

	// Courier feeds repeat a status across multiple scans; the timeline
	// wants one entry per stage transition.
	deduped := make(domain.TrackingHistory, 0, len(activities))
	for _, activity := range activities {
		if n := len(deduped); n > 0 && deduped[n-1].Stage == activity.Stage {
			deduped[n-1] = activity
			continue
		}
		deduped = append(deduped, activity)
	}

	return deduped
}

func parseCourierDate(value string) (time.Time, error) {
	if ts, err := time.Parse(activityDateLayout, value); err == nil {
		return ts.UTC(), nil
	}
	ts, err := time.Parse(eddDateLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return ts.UTC(), nil
}
