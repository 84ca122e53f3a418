package domain

import "time"

// TrackingActivity is one courier-reported event after normalization.
// Immutable once created.
type TrackingActivity struct {
	// RawStatusCode is the courier-specific code behind this event.
	RawStatusCode string `json:"raw_status_code"`
	// Stage is the canonical lifecycle stage this event maps to.
	Stage CanonicalStage `json:"stage"`
	// Label is the human-readable description of the event.
	Label string `json:"label"`
	// Location is where the event occurred, as reported by the courier.
	Location string `json:"location,omitempty"`
	// Timestamp is when the event occurred (UTC).
	Timestamp time.Time `json:"timestamp"`
}

// TrackingHistory is a shipment's normalized activity list, ordered by
// timestamp ascending with consecutive repeated stages collapsed.
type TrackingHistory []TrackingActivity

// ErrorInfo is a serializable description of the last fetch failure,
// attached to a snapshot so the UI can show a degraded-state banner.
type ErrorInfo struct {
	// Kind classifies the failure (auth, courier_api, transport, malformed, unknown).
	Kind string `json:"kind"`
	// Message is the underlying error text.
	Message string `json:"message"`
	// HTTPStatus is set for courier API failures.
	HTTPStatus int `json:"http_status,omitempty"`
	// OccurredAt is when the failure happened.
	OccurredAt time.Time `json:"occurred_at"`
}

// TrackingSnapshot is the cached unit per shipment: the latest normalized
// tracking result at one point in time. Snapshots are replaced wholesale on
// refresh, never mutated field by field.
type TrackingSnapshot struct {
	// ShipmentID is the AWB this snapshot belongs to.
	ShipmentID string `json:"shipment_id"`
	// CourierName is the carrier handling the shipment.
	CourierName string `json:"courier_name,omitempty"`
	// Destination is the delivery city reported by the courier.
	Destination string `json:"destination,omitempty"`
	// CurrentStage is the canonical stage of the newest activity.
	CurrentStage CanonicalStage `json:"current_stage"`
	// History is the normalized activity timeline.
	History TrackingHistory `json:"history"`
	// EstimatedDelivery is the courier's EDD, when reported.
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
	// FetchedAt is when this snapshot was fetched (UTC).
	FetchedAt time.Time `json:"fetched_at"`
	// LastError is the most recent fetch failure, nil when the snapshot is healthy.
	LastError *ErrorInfo `json:"last_error,omitempty"`
}

// WithError returns a copy of the snapshot annotated with a fetch failure.
// The receiver is left untouched.
func (s *TrackingSnapshot) WithError(info ErrorInfo) *TrackingSnapshot {
	annotated := *s
	annotated.LastError = &info
	return &annotated
}

// Age returns how long ago the snapshot was fetched.
func (s *TrackingSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}
