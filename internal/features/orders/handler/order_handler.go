package handler

import (
	"errors"
	"net/http"

	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/features/orders/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests related to orders.
type OrderHandler struct {
	// service is the OrderService instance.
	service *service.OrderService
}

// NewOrderHandler creates a new instance of OrderHandler.
func NewOrderHandler(s *service.OrderService) *OrderHandler {
	return &OrderHandler{
		service: s,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// GetOrder handles the request to retrieve an order with tracking and
// allowed actions.
// @Summary Get Order by ID
// @Description Fetch the order, its tracking snapshot and the actions the customer may take.
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.OrderView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")

	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		rayID = "unknown"
	}

	if orderID == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Order ID is required",
			RayID:   rayID,
		})
	}

	view, err := h.service.GetOrderView(c.UserContext(), orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.Status(http.StatusNotFound).JSON(ErrorResponse{
				Message: "Order not found",
				RayID:   rayID,
			})
		}

		logger.Get().Error("Failed to fetch order",
			zap.String("order_id", orderID),
			zap.String("ray_id", rayID),
			zap.Error(err),
		)

		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID,
		})
	}

	return c.JSON(view)
}
