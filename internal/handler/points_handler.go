package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/nursultan-dev/campus-hub-api/internal/dto"
	"github.com/nursultan-dev/campus-hub-api/internal/service"
	"github.com/nursultan-dev/campus-hub-api/internal/utils"
)

// PointsHandler exposes the ledger and category endpoints. Grants and
// category management are admin-only; category listing is shared so
// students can see what actions are rewarded.
type PointsHandler struct {
	service service.PointsService
	logger  zerolog.Logger
}

// NewPointsHandler constructs a handler instance.
func NewPointsHandler(service service.PointsService, logger zerolog.Logger) *PointsHandler {
	return &PointsHandler{
		service: service,
		logger:  logger.With().Str("component", "points_handler").Logger(),
	}
}

// Register binds the shared read routes.
func (h *PointsHandler) Register(router fiber.Router) {
	router.Get("/categories", h.listCategories)
}

// RegisterAdminRoutes binds the grant and category management routes.
func (h *PointsHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Post("/students/:id/points", h.applyTransaction)
	router.Get("/students/:id/points", h.listTransactions)
	router.Post("/point-categories", h.createCategory)
	router.Patch("/point-categories/:id", h.updateCategory)
}

func (h *PointsHandler) listCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(withRequestContext(c))
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "point categories", categories)
}

func (h *PointsHandler) applyTransaction(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.PointTransactionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	ctx := withRequestContext(c)

	response, err := h.service.ApplyTransaction(ctx, studentID, payload, actorFromContext(c))
	if err != nil {
		return utils.SendError(c, pointsErrorStatus(err), err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "points applied", response)
}

func (h *PointsHandler) listTransactions(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	perPage, err := parseQueryInt(c, "per_page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid per_page")
	}

	ledger, err := h.service.ListTransactions(withRequestContext(c), studentID, page, perPage)
	if err != nil {
		return utils.SendError(c, pointsErrorStatus(err), err.Error())
	}

	return utils.SendSuccess(c, "transactions", ledger)
}

func (h *PointsHandler) createCategory(c *fiber.Ctx) error {
	var payload dto.PointCategoryCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	category, err := h.service.CreateCategory(withRequestContext(c), payload, actorFromContext(c))
	if err != nil {
		return utils.SendError(c, pointsErrorStatus(err), err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "point category created", category)
}

func (h *PointsHandler) updateCategory(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.PointCategoryUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	category, err := h.service.UpdateCategory(withRequestContext(c), id, payload, actorFromContext(c))
	if err != nil {
		return utils.SendError(c, pointsErrorStatus(err), err.Error())
	}

	return utils.SendSuccess(c, "point category updated", category)
}

func pointsErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrStudentNotFound), errors.Is(err, service.ErrPointCategoryNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrInvalidInput), isValidationError(err):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
