package domain

import (
	tracking "shipment-tracker/internal/features/tracking/domain"
)

// Action is a customer-facing action offered on an order.
type Action string

const (
	ActionCancel   Action = "CANCEL"
	ActionTrack    Action = "TRACK"
	ActionReturn   Action = "RETURN"
	ActionExchange Action = "EXCHANGE"
	ActionBuyAgain Action = "BUY_AGAIN"
	ActionRate     Action = "RATE"
)

// AllowedActions derives the set of actions a customer may take from the
// backend order status and the latest canonical shipment stage. The stage
// is nil when no tracking data exists yet. Rules apply in priority order;
// the first match wins.
func AllowedActions(status OrderStatus, stage *tracking.CanonicalStage) []Action {
	// A cancelled order only invites reordering.
	if status == OrderStatusCancelled {
		return []Action{ActionBuyAgain}
	}

	// Delivered by either signal: post-delivery actions.
	if (stage != nil && *stage == tracking.StageDelivered) || status == OrderStatusDelivered {
		return []Action{ActionReturn, ActionExchange, ActionRate, ActionBuyAgain}
	}

	// Terminal mishaps need support intervention, not self-service.
	if stage != nil {
		switch *stage {
		case tracking.StageReturnToOrigin, tracking.StageLost, tracking.StageDamaged:
			return []Action{}
		}
	}

	if stage != nil {
		actions := []Action{ActionTrack}
		if tracking.IsCancellable(*stage) {
			actions = append(actions, ActionCancel)
		}
		return actions
	}

	// No tracking yet. Cancellation stays open only while the order has not
	// been handed to a courier.
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing:
		return []Action{ActionTrack, ActionCancel}
	}

	// Unrecognized combinations degrade to tracking only: never fail closed
	// to no actions, never allow cancellation on unknown input.
	return []Action{ActionTrack}
}
