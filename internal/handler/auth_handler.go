package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/nursultan-dev/campus-hub-api/internal/dto"
	"github.com/nursultan-dev/campus-hub-api/internal/service"
	"github.com/nursultan-dev/campus-hub-api/internal/utils"
)

// AuthHandler provides registration, login and token refresh endpoints.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs a handler instance.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register binds the public auth routes.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/register", h.register)
	router.Post("/login", h.login)
	router.Post("/refresh", h.refresh)
}

// RegisterAdminRoutes binds the admin registration route. The route stays
// public because the very first admin must be able to bootstrap itself;
// the service enforces admin-only access afterwards.
func (h *AuthHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Post("/register", h.registerAdmin)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	ctx := withRequestContext(c)

	response, err := h.service.Register(ctx, payload)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, service.ErrEmailTaken) {
			status = fiber.StatusConflict
		} else if isValidationError(err) {
			status = fiber.StatusBadRequest
		}
		return utils.SendError(c, status, err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "registered", response)
}

func (h *AuthHandler) registerAdmin(c *fiber.Ctx) error {
	var payload dto.AdminRegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	// The actor is nil for unauthenticated calls; the service only allows
	// those while no admin account exists yet.
	var actor *service.Actor
	if userIDFromContext(c) != 0 {
		value := actorFromContext(c)
		actor = &value
	}

	ctx := withRequestContext(c)

	response, err := h.service.RegisterAdmin(ctx, actor, payload)
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			status = fiber.StatusConflict
		case errors.Is(err, service.ErrForbidden):
			status = fiber.StatusForbidden
		case isValidationError(err):
			status = fiber.StatusBadRequest
		}
		return utils.SendError(c, status, err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "admin registered", response)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	ctx := withRequestContext(c)

	response, err := h.service.Login(ctx, payload)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, service.ErrInvalidCredentials) {
			status = fiber.StatusUnauthorized
		} else if isValidationError(err) {
			status = fiber.StatusBadRequest
		}
		return utils.SendError(c, status, err.Error())
	}

	return utils.SendSuccess(c, "logged in", response)
}

func (h *AuthHandler) refresh(c *fiber.Ctx) error {
	var payload dto.RefreshRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if payload.RefreshToken == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "refresh_token required")
	}

	ctx := withRequestContext(c)

	response, err := h.service.Refresh(ctx, payload.RefreshToken)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, service.ErrInvalidToken) {
			status = fiber.StatusUnauthorized
		}
		return utils.SendError(c, status, err.Error())
	}

	return utils.SendSuccess(c, "token refreshed", response)
}
