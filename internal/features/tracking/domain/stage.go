package domain

// CanonicalStage is the normalized shipment lifecycle state, independent of
// any specific courier's status vocabulary.
type CanonicalStage string

const (
	// StageOrderPlaced indicates the order exists but the parcel has not moved.
	StageOrderPlaced CanonicalStage = "ORDER_PLACED"
	// StagePacked indicates the parcel is labelled and waiting for pickup.
	StagePacked CanonicalStage = "PACKED"
	// StagePickedUp indicates the courier has collected the parcel.
	StagePickedUp CanonicalStage = "PICKED_UP"
	// StageInTransit indicates the parcel is moving through the courier network.
	StageInTransit CanonicalStage = "IN_TRANSIT"
	// StageOutForDelivery indicates the parcel is on the last-mile vehicle.
	StageOutForDelivery CanonicalStage = "OUT_FOR_DELIVERY"
	// StageDelivered indicates the parcel reached the customer.
	StageDelivered CanonicalStage = "DELIVERED"

	// StageCancelled is a terminal side-branch: the shipment was cancelled.
	StageCancelled CanonicalStage = "CANCELLED"
	// StageReturnToOrigin is a terminal side-branch: the parcel is going back to the seller.
	StageReturnToOrigin CanonicalStage = "RETURN_TO_ORIGIN"
	// StageLost is a terminal side-branch: the courier lost the parcel.
	StageLost CanonicalStage = "LOST"
	// StageDamaged is a terminal side-branch: the parcel was damaged in transit.
	StageDamaged CanonicalStage = "DAMAGED"

	// StageOnHold is a transient exception state (delivery attempt failed,
	// delayed, pickup exception). The shipment usually resumes from here.
	StageOnHold CanonicalStage = "ON_HOLD"
)

// progressionRank orders the happy-path stages so a timeline view can mark
// every stage up to and including the current one as completed. Side
// branches and ON_HOLD have no rank.
var progressionRank = map[CanonicalStage]int{
	StageOrderPlaced:    1,
	StagePacked:         2,
	StagePickedUp:       3,
	StageInTransit:      4,
	StageOutForDelivery: 5,
	StageDelivered:      6,
}

// Rank returns the stage's position on the happy path and whether it has one.
func (s CanonicalStage) Rank() (int, bool) {
	r, ok := progressionRank[s]
	return r, ok
}

// Before reports whether s precedes other on the happy path. Stages without
// a rank never order against anything.
func (s CanonicalStage) Before(other CanonicalStage) bool {
	a, okA := progressionRank[s]
	b, okB := progressionRank[other]
	return okA && okB && a < b
}

// Terminal reports whether the shipment can make no further progress.
func (s CanonicalStage) Terminal() bool {
	switch s {
	case StageDelivered, StageCancelled, StageReturnToOrigin, StageLost, StageDamaged:
		return true
	}
	return false
}
