package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/nursultan-dev/campus-hub-api/internal/dto"
	"github.com/nursultan-dev/campus-hub-api/internal/service"
	"github.com/nursultan-dev/campus-hub-api/internal/utils"
)

// AdminHandler exposes the admin panel endpoints: the admin's own profile,
// student management and the audit log.
type AdminHandler struct {
	admins   service.AdminService
	activity service.ActivityService
	logger   zerolog.Logger
}

// NewAdminHandler constructs a handler instance.
func NewAdminHandler(admins service.AdminService, activity service.ActivityService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		admins:   admins,
		activity: activity,
		logger:   logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register binds the admin panel routes.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/me", h.getMe)
	router.Patch("/me", h.updateMe)
	router.Get("/students", h.listStudents)
	router.Delete("/students/:id", h.deactivateStudent)
	router.Get("/activity", h.listActivity)
}

func (h *AdminHandler) getMe(c *fiber.Ctx) error {
	profile, err := h.admins.GetMe(withRequestContext(c), actorFromContext(c))
	if err != nil {
		return utils.SendError(c, adminErrorStatus(err), err.Error())
	}

	return utils.SendSuccess(c, "profile", profile)
}

func (h *AdminHandler) updateMe(c *fiber.Ctx) error {
	var payload dto.AdminProfileUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	profile, err := h.admins.UpdateMe(withRequestContext(c), actorFromContext(c), payload)
	if err != nil {
		return utils.SendError(c, adminErrorStatus(err), err.Error())
	}

	return utils.SendSuccess(c, "profile updated", profile)
}

func (h *AdminHandler) listStudents(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	perPage, err := parseQueryInt(c, "per_page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid per_page")
	}

	request := dto.AdminStudentListRequest{
		Page:    page,
		PerPage: perPage,
		Search:  strings.TrimSpace(c.Query("search")),
	}

	students, err := h.admins.ListStudents(withRequestContext(c), request)
	if err != nil {
		return utils.SendError(c, adminErrorStatus(err), err.Error())
	}

	return utils.SendSuccess(c, "students", students)
}

func (h *AdminHandler) deactivateStudent(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.admins.DeactivateStudent(withRequestContext(c), actorFromContext(c), id); err != nil {
		return utils.SendError(c, adminErrorStatus(err), err.Error())
	}

	return utils.SendSuccess(c, "student deactivated", nil)
}

func (h *AdminHandler) listActivity(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	perPage, err := parseQueryInt(c, "per_page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid per_page")
	}

	request := dto.ActivityListRequest{
		Page:       page,
		PerPage:    perPage,
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
	}

	entries, err := h.activity.List(withRequestContext(c), request)
	if err != nil {
		return utils.SendError(c, adminErrorStatus(err), err.Error())
	}

	return utils.SendSuccess(c, "activity", entries)
}

func adminErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrStudentNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrInvalidInput), isValidationError(err):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
