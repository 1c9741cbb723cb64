package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/nursultan-dev/campus-hub-api/internal/dto"
	"github.com/nursultan-dev/campus-hub-api/internal/service"
	"github.com/nursultan-dev/campus-hub-api/internal/utils"
)

// TaxonomyHandler serves the shared vocabularies: skills and their
// categories, interests and team roles. Reads are open to every
// authenticated account; mutations are bound to admin route groups.
type TaxonomyHandler struct {
	service service.TaxonomyService
	logger  zerolog.Logger
}

// NewTaxonomyHandler constructs a handler instance.
func NewTaxonomyHandler(service service.TaxonomyService, logger zerolog.Logger) *TaxonomyHandler {
	return &TaxonomyHandler{
		service: service,
		logger:  logger.With().Str("component", "taxonomy_handler").Logger(),
	}
}

// Register binds the read-only vocabulary routes.
func (h *TaxonomyHandler) Register(router fiber.Router) {
	router.Get("/skills", h.listSkills)
	router.Get("/skill-categories", h.listSkillCategories)
	router.Get("/interests", h.listInterests)
	router.Get("/roles", h.listRoles)
}

// RegisterAdminRoutes binds the vocabulary mutation routes.
func (h *TaxonomyHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Post("/skills", h.createSkill)
	router.Delete("/skills/:id", h.deleteSkill)
	router.Post("/skill-categories", h.createSkillCategory)
	router.Delete("/skill-categories/:id", h.deleteSkillCategory)
	router.Post("/interests", h.createInterest)
	router.Delete("/interests/:id", h.deleteInterest)
	router.Post("/roles", h.createRole)
	router.Delete("/roles/:id", h.deleteRole)
}

func (h *TaxonomyHandler) listSkills(c *fiber.Ctx) error {
	skills, err := h.service.ListSkills(withRequestContext(c))
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "skills", skills)
}

func (h *TaxonomyHandler) listSkillCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListSkillCategories(withRequestContext(c))
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "skill categories", categories)
}

func (h *TaxonomyHandler) listInterests(c *fiber.Ctx) error {
	interests, err := h.service.ListInterests(withRequestContext(c))
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "interests", interests)
}

func (h *TaxonomyHandler) listRoles(c *fiber.Ctx) error {
	roles, err := h.service.ListRoles(withRequestContext(c))
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "roles", roles)
}

func (h *TaxonomyHandler) createSkill(c *fiber.Ctx) error {
	var payload dto.SkillCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	skill, err := h.service.CreateSkill(withRequestContext(c), payload, actorFromContext(c))
	if err != nil {
		return utils.SendError(c, taxonomyErrorStatus(err), err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "skill created", skill)
}

func (h *TaxonomyHandler) createSkillCategory(c *fiber.Ctx) error {
	var payload dto.SkillCategoryCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	category, err := h.service.CreateSkillCategory(withRequestContext(c), payload, actorFromContext(c))
	if err != nil {
		return utils.SendError(c, taxonomyErrorStatus(err), err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "skill category created", category)
}

func (h *TaxonomyHandler) createInterest(c *fiber.Ctx) error {
	var payload dto.InterestCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	interest, err := h.service.CreateInterest(withRequestContext(c), payload, actorFromContext(c))
	if err != nil {
		return utils.SendError(c, taxonomyErrorStatus(err), err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "interest created", interest)
}

func (h *TaxonomyHandler) createRole(c *fiber.Ctx) error {
	var payload dto.RoleCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	role, err := h.service.CreateRole(withRequestContext(c), payload, actorFromContext(c))
	if err != nil {
		return utils.SendError(c, taxonomyErrorStatus(err), err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "role created", role)
}

func (h *TaxonomyHandler) deleteSkill(c *fiber.Ctx) error {
	return h.deleteByID(c, h.service.DeleteSkill, "skill deleted")
}

func (h *TaxonomyHandler) deleteSkillCategory(c *fiber.Ctx) error {
	return h.deleteByID(c, h.service.DeleteSkillCategory, "skill category deleted")
}

func (h *TaxonomyHandler) deleteInterest(c *fiber.Ctx) error {
	return h.deleteByID(c, h.service.DeleteInterest, "interest deleted")
}

func (h *TaxonomyHandler) deleteRole(c *fiber.Ctx) error {
	return h.deleteByID(c, h.service.DeleteRole, "role deleted")
}

func (h *TaxonomyHandler) deleteByID(c *fiber.Ctx, remove func(ctx context.Context, id uint, actor service.Actor) error, message string) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := remove(withRequestContext(c), id, actorFromContext(c)); err != nil {
		return utils.SendError(c, taxonomyErrorStatus(err), err.Error())
	}

	return utils.SendSuccess(c, message, nil)
}

func taxonomyErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrVocabularyNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrCategoryNotEmpty), errors.Is(err, service.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrInvalidInput), isValidationError(err):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
