package handler

import (
	"errors"
	"sync"
	"time"

	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/features/tracking/domain"
	"shipment-tracker/internal/features/tracking/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TrackingHandler handles HTTP requests for tracking operations.
type TrackingHandler struct {
	orchestrator        *service.TrackingOrchestrator
	defaultPollInterval time.Duration
	logger              *zap.Logger

	mu      sync.Mutex
	watches map[string]func()
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(orchestrator *service.TrackingOrchestrator, defaultPollInterval time.Duration) *TrackingHandler {
	return &TrackingHandler{
		orchestrator:        orchestrator,
		defaultPollInterval: defaultPollInterval,
		logger:              logger.Get(),
		watches:             make(map[string]func()),
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// WatchRequest is the optional body for starting a watch.
type WatchRequest struct {
	// IntervalSeconds overrides the default poll interval.
	IntervalSeconds int `json:"interval_seconds"`
}

// GetTracking godoc
// @Summary Get the tracking snapshot for a shipment
// @Description Returns the latest tracking snapshot for an AWB, served from cache when fresh. Pass refresh=true to force a courier fetch.
// @Tags tracking
// @Accept json
// @Produce json
// @Param awb path string true "Air Waybill number"
// @Param refresh query bool false "Force a courier fetch even when the cache is fresh"
// @Success 200 {object} domain.TrackingSnapshot
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tracking/{awb} [get]
func (h *TrackingHandler) GetTracking(c *fiber.Ctx) error {
	awb := c.Params("awb")
	if awb == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "awb is required",
			RayID:   c.Locals("requestid").(string),
		})
	}

	opts := service.GetOptions{PreferCache: !c.QueryBool("refresh")}

	snapshot, err := h.orchestrator.GetTracking(c.UserContext(), awb, opts)
	if err != nil {
		if errors.Is(err, domain.ErrNoTrackingData) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Message: "no tracking data available for this shipment",
				RayID:   c.Locals("requestid").(string),
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}

	return c.JSON(snapshot)
}

// StartWatch godoc
// @Summary Start server-side polling for a shipment
// @Description Subscribes the server to periodic courier refreshes of the AWB. Watching an already watched AWB replaces the existing watch.
// @Tags tracking
// @Accept json
// @Produce json
// @Param awb path string true "Air Waybill number"
// @Param request body WatchRequest false "Poll interval override"
// @Success 202 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Router /tracking/{awb}/watch [post]
func (h *TrackingHandler) StartWatch(c *fiber.Ctx) error {
	awb := c.Params("awb")
	if awb == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "awb is required",
			RayID:   c.Locals("requestid").(string),
		})
	}

	interval := h.defaultPollInterval
	if len(c.Body()) > 0 {
		var req WatchRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Message: "invalid request body",
				RayID:   c.Locals("requestid").(string),
			})
		}
		if req.IntervalSeconds < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Message: "interval_seconds must not be negative",
				RayID:   c.Locals("requestid").(string),
			})
		}
		if req.IntervalSeconds > 0 {
			interval = time.Duration(req.IntervalSeconds) * time.Second
		}
	}

	unsubscribe := h.orchestrator.WatchTracking(awb, interval, func(snapshot *domain.TrackingSnapshot) {
		h.logger.Info("Tracking update",
			zap.String("awb", snapshot.ShipmentID),
			zap.String("stage", string(snapshot.CurrentStage)),
		)
	})

	h.mu.Lock()
	if previous, ok := h.watches[awb]; ok {
		previous()
	}
	h.watches[awb] = unsubscribe
	h.mu.Unlock()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"awb":              awb,
		"interval_seconds": int(interval / time.Second),
	})
}

// StopWatch godoc
// @Summary Stop server-side polling for a shipment
// @Description Removes the watch for the AWB. Stopping an unwatched AWB is a no-op.
// @Tags tracking
// @Produce json
// @Param awb path string true "Air Waybill number"
// @Success 204
// @Router /tracking/{awb}/watch [delete]
func (h *TrackingHandler) StopWatch(c *fiber.Ctx) error {
	awb := c.Params("awb")

	h.mu.Lock()
	unsubscribe, ok := h.watches[awb]
	if ok {
		delete(h.watches, awb)
	}
	h.mu.Unlock()

	if ok {
		unsubscribe()
	}

	return c.SendStatus(fiber.StatusNoContent)
}
