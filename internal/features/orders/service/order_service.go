package service

import (
	"context"
	"errors"

	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/features/orders/domain"
	"shipment-tracker/internal/features/orders/ports"
	trackingdomain "shipment-tracker/internal/features/tracking/domain"
	trackingservice "shipment-tracker/internal/features/tracking/service"

	"go.uber.org/zap"
)

// ErrOrderNotFound is returned when the order does not exist.
var ErrOrderNotFound = errors.New("order not found")

// SnapshotSource provides tracking snapshots for shipped orders. Satisfied
// by the tracking orchestrator.
type SnapshotSource interface {
	GetTracking(ctx context.Context, awb string, opts trackingservice.GetOptions) (*trackingdomain.TrackingSnapshot, error)
}

// OrderService assembles the customer-facing order view: the order itself,
// its tracking snapshot and the actions the customer may take.
type OrderService struct {
	// provider is the interface for fetching order data from the storefront.
	provider ports.OrderProvider
	// tracking supplies shipment snapshots for orders that have an AWB.
	tracking SnapshotSource
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(provider ports.OrderProvider, tracking SnapshotSource) *OrderService {
	return &OrderService{
		provider: provider,
		tracking: tracking,
	}
}

// GetOrderView retrieves an order and enriches it with tracking data and
// allowed actions. Tracking failures degrade the view instead of failing
// it: the order is still shown, with actions derived from the backend
// status alone.
func (s *OrderService) GetOrderView(ctx context.Context, orderID string) (*domain.OrderView, error) {
	order, err := s.provider.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	var snapshot *trackingdomain.TrackingSnapshot
	var stage *trackingdomain.CanonicalStage

	if order.AWB != "" {
		snapshot, err = s.tracking.GetTracking(ctx, order.AWB, trackingservice.GetOptions{PreferCache: true})
		if err != nil {
			logger.Get().Warn("Tracking unavailable for order",
				zap.String("order_id", orderID),
				zap.String("awb", order.AWB),
				zap.Error(err),
			)
			snapshot = nil
		} else {
			stage = &snapshot.CurrentStage
		}
	}

	return &domain.OrderView{
		Order:    *order,
		Tracking: snapshot,
		Actions:  domain.AllowedActions(order.Status, stage),
	}, nil
}
