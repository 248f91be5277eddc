package collection

import (
	"errors"

	"boardgame-sync/core/logger"
	"boardgame-sync/core/reconcile"
	"boardgame-sync/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AcceptRequest carries reviewed candidates.
type AcceptRequest struct {
	Candidates []reconcile.Candidate `json:"candidates"`
}

// Handler handles HTTP requests for reconciliation runs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Post("/", h.HandleSync)
	group.Get("/residuals", h.HandleResiduals)
	group.Post("/candidates", h.HandleAccept)
}

// HandleSync runs a reconciliation.
// @Summary Trigger Sync
// @Description Fetch both collections, commit exact matches and fuzzy matches. With review=true fuzzy candidates are returned instead of committed.
// @Tags sync
// @Produce json
// @Param review query bool false "Return fuzzy candidates for review"
// @Success 200 {object} reconcile.Result "Run result"
// @Failure 502 {object} map[string]string "Collection fetch failed"
// @Failure 500 {object} reconcile.Result "Storage failure with partial result"
// @Router /sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	result, err := h.service.Sync(c.Context(), c.QueryBool("review"))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Sync failed", zap.Error(err))
		if errors.Is(err, reconcile.ErrFetchFailed) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error(), "result": result})
	}
	return c.JSON(result)
}

// HandleResiduals lists unmatched items.
// @Summary List Residuals
// @Description List the items of both collections that have no match. Nothing is committed.
// @Tags sync
// @Produce json
// @Param offline query bool false "Use archived snapshots instead of fetching"
// @Success 200 {object} reconcile.Result "Residuals"
// @Failure 404 {object} map[string]string "No archived snapshot"
// @Failure 502 {object} map[string]string "Collection fetch failed"
// @Router /sync/residuals [get]
func (h *Handler) HandleResiduals(c *fiber.Ctx) error {
	result, err := h.service.Residuals(c.Context(), c.QueryBool("offline"))
	if err != nil {
		return h.fail(c, "Failed to list residuals", err)
	}
	return c.JSON(result)
}

// HandleAccept commits reviewed candidates.
// @Summary Accept Candidates
// @Description Commit reviewed fuzzy candidates. Returns 409 when none could be accepted.
// @Tags sync
// @Accept json
// @Produce json
// @Param request body AcceptRequest true "Candidates"
// @Success 201 {object} reconcile.ProposeResult "Accepted"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 409 {object} reconcile.ProposeResult "Conflict"
// @Router /sync/candidates [post]
func (h *Handler) HandleAccept(c *fiber.Ctx) error {
	var req AcceptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	res, err := h.service.Accept(c.Context(), req.Candidates)
	if err != nil {
		return h.fail(c, "Failed to accept candidates", err)
	}
	if len(res.Accepted) == 0 {
		return c.Status(fiber.StatusConflict).JSON(res)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNoCandidates):
		status = fiber.StatusBadRequest
	case errors.Is(err, ErrArchiveDisabled), errors.Is(err, storage.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, reconcile.ErrFetchFailed):
		status = fiber.StatusBadGateway
	}
	if status == fiber.StatusInternalServerError {
		logger.WithRayID(h.service.logger, c).Error(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
