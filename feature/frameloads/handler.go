package frameloads

import (
	"frameload-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for frame loads.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the frame load routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/frame-loads")
	group.Get("/", h.HandleListLoads)
	group.Post("/trigger", h.HandleTrigger)
	group.Get("/last", h.HandleLast)
	group.Get("/reports", h.HandleReports)
	group.Get("/schema", h.HandleSchema)
}

type triggerRequest struct {
	Trigger bool `json:"trigger"`
}

type triggerResponse struct {
	Ran    bool `json:"ran"`
	Output any  `json:"output"`
}

// HandleTrigger feeds a trigger sample to the controller. A run happens only
// when the trigger rises; otherwise the last output is replayed.
func (h *Handler) HandleTrigger(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req triggerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	out, ran := h.service.Trigger(c.UserContext(), req.Trigger)
	if ran {
		l.Info("Frame load run finished", zap.String("run_id", out.RunID), zap.Bool("aborted", out.Aborted))
	}
	return c.JSON(triggerResponse{Ran: ran, Output: out})
}

// HandleLast replays the last output.
func (h *Handler) HandleLast(c *fiber.Ctx) error {
	out, ok := h.service.Last()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no run yet",
		})
	}
	return c.JSON(out)
}

// HandleListLoads returns the stored frame loads.
func (h *Handler) HandleListLoads(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	loads, err := h.service.Loads(c.UserContext())
	if err != nil {
		l.Error("Listing frame loads failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(loads)
}

// HandleReports lists published report keys.
func (h *Handler) HandleReports(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	keys, err := h.service.Reports(c.UserContext())
	if err != nil {
		l.Error("Listing reports failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(keys)
}

// HandleSchema reports the required model columns that are missing.
func (h *Handler) HandleSchema(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	missing, err := h.service.store.CheckSchema(c.UserContext())
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"matched": len(missing) == 0,
		"missing": missing,
	})
}
