package domain

import (
	"time"

	tracking "shipment-tracker/internal/features/tracking/domain"
)

// OrderStatus is the backend-reported lifecycle status of an order. It is
// independent of courier tracking: an order can be "shipped" while the
// courier still reports the parcel as picked up.
type OrderStatus string

const (
	OrderStatusPending           OrderStatus = "pending"
	OrderStatusConfirmed         OrderStatus = "confirmed"
	OrderStatusProcessing        OrderStatus = "processing"
	OrderStatusShipped           OrderStatus = "shipped"
	OrderStatusDelivered         OrderStatus = "delivered"
	OrderStatusCancelled         OrderStatus = "cancelled"
	OrderStatusReturnRequested   OrderStatus = "return_requested"
	OrderStatusExchangeRequested OrderStatus = "exchange_requested"
)

// OrderItem represents a single product in an order.
type OrderItem struct {
	// SKU is the product SKU.
	SKU string `json:"sku"`
	// Name is the product name.
	Name string `json:"name"`
	// Quantity is the number of units ordered.
	Quantity int `json:"quantity"`
	// Picture is the product image URL.
	Picture string `json:"picture,omitempty"`
}

// Order represents an order as reported by the storefront backend.
type Order struct {
	// ID is the unique order identifier.
	ID string `json:"id"`
	// Status is the backend order status.
	Status OrderStatus `json:"status"`
	// AWB is the shipment tracking number, empty until the order ships.
	AWB string `json:"awb,omitempty"`
	// CourierName is the carrier assigned to the shipment.
	CourierName string `json:"courier_name,omitempty"`
	// CreatedAt is when the order was placed.
	CreatedAt time.Time `json:"created_at"`
	// Items contains the products ordered.
	Items []OrderItem `json:"items"`
}

// OrderView is the order enriched with its tracking snapshot and the
// actions the customer may take. Derived per request, never stored.
type OrderView struct {
	Order Order `json:"order"`
	// Tracking is the shipment snapshot, nil when the order has no AWB or
	// tracking is unavailable.
	Tracking *tracking.TrackingSnapshot `json:"tracking,omitempty"`
	// Actions are the customer-facing actions allowed for this order.
	Actions []Action `json:"actions"`
}
