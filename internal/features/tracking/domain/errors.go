package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrAuth is returned when the courier credential exchange failed or the
	// token is still rejected after one re-authentication retry.
	ErrAuth = errors.New("courier authentication failed")
	// ErrMalformedResponse is returned when the courier response parsed as
	// JSON but is missing expected fields. Retrying will not fix it.
	ErrMalformedResponse = errors.New("courier response missing expected fields")
	// ErrNoTrackingData is returned when a fetch failed and no previously
	// cached snapshot exists to fall back on.
	ErrNoTrackingData = errors.New("no tracking data available")
)

// CourierAPIError is a non-2xx, non-auth response from the courier API.
type CourierAPIError struct {
	StatusCode int
}

func (e *CourierAPIError) Error() string {
	return fmt.Sprintf("courier API returned status %d", e.StatusCode)
}

// TransportError is a network or timeout failure before any HTTP status was
// received. Always eligible for retry.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("courier request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewErrorInfo classifies a fetch error into the serializable form attached
// to snapshots.
func NewErrorInfo(err error, occurredAt time.Time) ErrorInfo {
	info := ErrorInfo{
		Kind:       "unknown",
		Message:    err.Error(),
		OccurredAt: occurredAt,
	}

	var apiErr *CourierAPIError
	switch {
	case errors.Is(err, ErrAuth):
		info.Kind = "auth"
	case errors.Is(err, ErrMalformedResponse):
		info.Kind = "malformed"
	case errors.As(err, &apiErr):
		info.Kind = "courier_api"
		info.HTTPStatus = apiErr.StatusCode
	default:
		var transportErr *TransportError
		if errors.As(err, &transportErr) {
			info.Kind = "transport"
		}
	}

	return info
}
