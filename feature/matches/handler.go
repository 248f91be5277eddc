package matches

import (
	"errors"
	"strconv"

	"boardgame-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for committed matches.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the matches routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/matches")
	group.Get("/", h.HandleList)
	group.Post("/", h.HandleAddManual)
	group.Delete("/:id", h.HandleRemove)
	group.Delete("/", h.HandleClear)
}

// HandleList returns the committed matches.
// @Summary List Matches
// @Description List every committed match of the configured account pair.
// @Tags matches
// @Produce json
// @Success 200 {array} reconcile.MatchRecord "Matches"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /matches [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	records, err := h.service.List(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to list matches", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(records)
}

// HandleAddManual commits an operator supplied pair.
// @Summary Accept Manual Pair
// @Description Commit a manual match. Returns 409 when either item is already matched.
// @Tags matches
// @Accept json
// @Produce json
// @Param pair body ManualPair true "Pair"
// @Success 201 {object} reconcile.ProposeResult "Accepted"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 409 {object} reconcile.ProposeResult "Conflict"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /matches [post]
func (h *Handler) HandleAddManual(c *fiber.Ctx) error {
	var pair ManualPair
	if err := c.BodyParser(&pair); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	res, err := h.service.AddManual(c.Context(), pair)
	if errors.Is(err, ErrInvalidPair) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to add manual pair", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(res.Accepted) == 0 {
		return c.Status(fiber.StatusConflict).JSON(res)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// HandleRemove deletes one match.
// @Summary Remove Match
// @Tags matches
// @Param id path int true "Match ID"
// @Success 204 "Removed"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /matches/{id} [delete]
func (h *Handler) HandleRemove(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid match id"})
	}

	if err := h.service.Remove(c.Context(), uint(id)); err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		logger.WithRayID(h.service.logger, c).Error("Failed to remove match", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleClear deletes every match of the account pair.
// @Summary Clear Matches
// @Description Delete every match of the configured account pair. Requires confirm=true.
// @Tags matches
// @Produce json
// @Param confirm query bool true "Confirm destructive action"
// @Success 200 {object} map[string]int64 "Deleted count"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /matches [delete]
func (h *Handler) HandleClear(c *fiber.Ctx) error {
	if !c.QueryBool("confirm") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "confirm=true is required"})
	}

	n, err := h.service.Clear(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to clear matches", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"deleted": n})
}
