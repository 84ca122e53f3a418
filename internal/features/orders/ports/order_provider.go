package ports

import (
	"context"

	"shipment-tracker/internal/features/orders/domain"
)

// OrderProvider fetches order data from the storefront backend.
// This is a Secondary Port (Driven Port).
type OrderProvider interface {
	// GetOrder returns the order, or (nil, nil) when the backend does not
	// know the ID.
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
}
