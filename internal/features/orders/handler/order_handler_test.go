package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"shipment-tracker/internal/features/orders/domain"
	"shipment-tracker/internal/features/orders/service"
	trackingdomain "shipment-tracker/internal/features/tracking/domain"
	trackingservice "shipment-tracker/internal/features/tracking/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockOrderProvider is a scripted OrderProvider for handler tests.
type mockOrderProvider struct {
	order *domain.Order
	err   error
}

func (m *mockOrderProvider) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return m.order, m.err
}

// mockSnapshotSource is a scripted SnapshotSource for handler tests.
type mockSnapshotSource struct {
	snapshot *trackingdomain.TrackingSnapshot
	err      error
}

func (m *mockSnapshotSource) GetTracking(ctx context.Context, awb string, opts trackingservice.GetOptions) (*trackingdomain.TrackingSnapshot, error) {
	return m.snapshot, m.err
}

func newApp(provider *mockOrderProvider, tracking *mockSnapshotSource) *fiber.App {
	svc := service.NewOrderService(provider, tracking)
	h := NewOrderHandler(svc)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	app.Get("/orders/:id", h.GetOrder)
	return app
}

// TestOrderHandler_GetOrder_Success verifies the full order view response.
func TestOrderHandler_GetOrder_Success(t *testing.T) {
	provider := &mockOrderProvider{order: &domain.Order{
		ID:     "ORD-1001",
		Status: domain.OrderStatusShipped,
		AWB:    "AWB123",
	}}
	tracking := &mockSnapshotSource{snapshot: &trackingdomain.TrackingSnapshot{
		ShipmentID:   "AWB123",
		CurrentStage: trackingdomain.StageOutForDelivery,
	}}

	app := newApp(provider, tracking)

	resp, err := app.Test(httptest.NewRequest("GET", "/orders/ORD-1001", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var view domain.OrderView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Equal(t, "ORD-1001", view.Order.ID)
	require.NotNil(t, view.Tracking)
	assert.Equal(t, trackingdomain.StageOutForDelivery, view.Tracking.CurrentStage)
	assert.Equal(t, []domain.Action{domain.ActionTrack}, view.Actions)
}

// TestOrderHandler_GetOrder_NotFound verifies the 404 response.
func TestOrderHandler_GetOrder_NotFound(t *testing.T) {
	app := newApp(&mockOrderProvider{}, &mockSnapshotSource{})

	resp, err := app.Test(httptest.NewRequest("GET", "/orders/UNKNOWN", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "Order not found", errResp.Message)
	assert.Equal(t, "test-ray-id", errResp.RayID)
}

// TestOrderHandler_GetOrder_BackendError verifies the 500 response for
// storefront failures.
func TestOrderHandler_GetOrder_BackendError(t *testing.T) {
	provider := &mockOrderProvider{err: assert.AnError}
	app := newApp(provider, &mockSnapshotSource{})

	resp, err := app.Test(httptest.NewRequest("GET", "/orders/ORD-1001", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

// TestOrderHandler_GetOrder_TrackingDegrades verifies that a tracking
// failure still yields a usable order view.
func TestOrderHandler_GetOrder_TrackingDegrades(t *testing.T) {
	provider := &mockOrderProvider{order: &domain.Order{
		ID:     "ORD-1001",
		Status: domain.OrderStatusShipped,
		AWB:    "AWB123",
	}}
	tracking := &mockSnapshotSource{err: trackingdomain.ErrNoTrackingData}

	app := newApp(provider, tracking)

	resp, err := app.Test(httptest.NewRequest("GET", "/orders/ORD-1001", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var view domain.OrderView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Nil(t, view.Tracking)
	assert.Equal(t, []domain.Action{domain.ActionTrack}, view.Actions)
}
