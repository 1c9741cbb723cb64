package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/nursultan-dev/campus-hub-api/internal/dto"
	"github.com/nursultan-dev/campus-hub-api/internal/service"
	"github.com/nursultan-dev/campus-hub-api/internal/utils"
)

// StudentHandler exposes the authenticated student's own profile, selection
// sets, point ledger and teammate recommendations.
type StudentHandler struct {
	students        service.StudentService
	points          service.PointsService
	recommendations service.RecommendationService
	logger          zerolog.Logger
}

// NewStudentHandler constructs a handler instance.
func NewStudentHandler(students service.StudentService, points service.PointsService, recommendations service.RecommendationService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		students:        students,
		points:          points,
		recommendations: recommendations,
		logger:          logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register binds the student self-service routes.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("/me", h.getMe)
	router.Patch("/me", h.updateMe)
	router.Get("/me/skill-map", h.getSkillMap)
	router.Put("/me/skills", h.replaceSkills)
	router.Put("/me/interests", h.replaceInterests)
	router.Put("/me/roles", h.replaceRoles)
	router.Get("/me/points", h.listPoints)
	router.Get("/me/recommendations", h.getRecommendations)
}

func (h *StudentHandler) getMe(c *fiber.Ctx) error {
	ctx := withRequestContext(c)

	profile, err := h.students.GetMe(ctx, userIDFromContext(c))
	if err != nil {
		return utils.SendError(c, studentErrorStatus(err), err.Error())
	}

	return utils.SendSuccess(c, "profile", profile)
}

func (h *StudentHandler) updateMe(c *fiber.Ctx) error {
	var payload dto.StudentProfileUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	ctx := withRequestContext(c)

	profile, err := h.students.UpdateMe(ctx, userIDFromContext(c), payload)
	if err != nil {
		return utils.SendError(c, studentErrorStatus(err), err.Error())
	}

	return utils.SendSuccess(c, "profile updated", profile)
}

func (h *StudentHandler) getSkillMap(c *fiber.Ctx) error {
	ctx := withRequestContext(c)

	skillMap, err := h.students.GetSkillMap(ctx, userIDFromContext(c))
	if err != nil {
		return utils.SendError(c, studentErrorStatus(err), err.Error())
	}

	return utils.SendSuccess(c, "skill map", skillMap)
}

func (h *StudentHandler) replaceSkills(c *fiber.Ctx) error {
	var payload dto.SkillsReplaceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	ctx := withRequestContext(c)

	if err := h.students.ReplaceSkills(ctx, userIDFromContext(c), payload.Skills); err != nil {
		return utils.SendError(c, studentErrorStatus(err), err.Error())
	}

	return utils.SendSuccess(c, "skills updated", nil)
}

func (h *StudentHandler) replaceInterests(c *fiber.Ctx) error {
	var payload dto.InterestsReplaceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	ctx := withRequestContext(c)

	if err := h.students.ReplaceInterests(ctx, userIDFromContext(c), payload.InterestIDs); err != nil {
		return utils.SendError(c, studentErrorStatus(err), err.Error())
	}

	return utils.SendSuccess(c, "interests updated", nil)
}

func (h *StudentHandler) replaceRoles(c *fiber.Ctx) error {
	var payload dto.RolesReplaceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	ctx := withRequestContext(c)

	if err := h.students.ReplaceRoles(ctx, userIDFromContext(c), payload.RoleIDs); err != nil {
		return utils.SendError(c, studentErrorStatus(err), err.Error())
	}

	return utils.SendSuccess(c, "roles updated", nil)
}

func (h *StudentHandler) listPoints(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	perPage, err := parseQueryInt(c, "per_page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid per_page")
	}

	ctx := withRequestContext(c)

	// The ledger endpoint is keyed by student profile id; resolve it from
	// the session first.
	profile, err := h.students.GetMe(ctx, userIDFromContext(c))
	if err != nil {
		return utils.SendError(c, studentErrorStatus(err), err.Error())
	}

	ledger, err := h.points.ListTransactions(ctx, profile.ID, page, perPage)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, service.ErrStudentNotFound) {
			status = fiber.StatusNotFound
		}
		return utils.SendError(c, status, err.Error())
	}

	return utils.SendSuccess(c, "points", ledger)
}

func (h *StudentHandler) getRecommendations(c *fiber.Ctx) error {
	request := dto.RecommendationsRequest{}

	var err error
	if request.InterestsPage, err = parseQueryInt(c, "interests_page"); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid interests_page")
	}
	if request.InterestsPerPage, err = parseQueryInt(c, "interests_per_page"); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid interests_per_page")
	}
	if request.RolesPage, err = parseQueryInt(c, "roles_page"); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid roles_page")
	}
	if request.RolesPerPage, err = parseQueryInt(c, "roles_per_page"); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid roles_per_page")
	}

	ctx := withRequestContext(c)

	response, err := h.recommendations.GetRecommendations(ctx, userIDFromContext(c), request)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "recommendations", response)
}

func studentErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrInvalidInput), isValidationError(err):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
