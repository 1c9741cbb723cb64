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

// ForumHandler exposes discussion topics and messages.
type ForumHandler struct {
	service service.ForumService
	logger  zerolog.Logger
}

// NewForumHandler constructs a handler instance.
func NewForumHandler(service service.ForumService, logger zerolog.Logger) *ForumHandler {
	return &ForumHandler{
		service: service,
		logger:  logger.With().Str("component", "forum_handler").Logger(),
	}
}

// Register binds the forum routes.
func (h *ForumHandler) Register(router fiber.Router) {
	router.Get("/topics", h.listTopics)
	router.Post("/topics", h.createTopic)
	router.Get("/topics/:id", h.getTopic)
	router.Patch("/topics/:id", h.updateTopic)
	router.Delete("/topics/:id", h.deleteTopic)

	router.Get("/topics/:id/messages", h.listMessages)
	router.Post("/topics/:id/messages", h.createMessage)
	router.Patch("/messages/:id", h.updateMessage)
	router.Delete("/messages/:id", h.deleteMessage)
}

func (h *ForumHandler) listTopics(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	perPage, err := parseQueryInt(c, "per_page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid per_page")
	}

	pinnedFirst := strings.ToLower(strings.TrimSpace(c.Query("pinned_first", "true"))) != "false"

	topics, err := h.service.ListTopics(withRequestContext(c), page, perPage, pinnedFirst)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "topics", topics)
}

func (h *ForumHandler) getTopic(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	topic, err := h.service.GetTopic(withRequestContext(c), id)
	if err != nil {
		return utils.SendError(c, forumErrorStatus(err), err.Error())
	}

	return utils.SendSuccess(c, "topic", topic)
}

func (h *ForumHandler) createTopic(c *fiber.Ctx) error {
	var payload dto.ForumTopicCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	topic, err := h.service.CreateTopic(withRequestContext(c), actorFromContext(c), payload)
	if err != nil {
		return utils.SendError(c, forumErrorStatus(err), err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "topic created", topic)
}

func (h *ForumHandler) updateTopic(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ForumTopicUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	topic, err := h.service.UpdateTopic(withRequestContext(c), id, actorFromContext(c), payload)
	if err != nil {
		return utils.SendError(c, forumErrorStatus(err), err.Error())
	}

	return utils.SendSuccess(c, "topic updated", topic)
}

func (h *ForumHandler) deleteTopic(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteTopic(withRequestContext(c), id, actorFromContext(c)); err != nil {
		return utils.SendError(c, forumErrorStatus(err), err.Error())
	}

	return utils.SendSuccess(c, "topic deleted", nil)
}

func (h *ForumHandler) listMessages(c *fiber.Ctx) error {
	topicID, err := parseUintParam(c, "id")
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

	messages, err := h.service.ListMessages(withRequestContext(c), topicID, page, perPage)
	if err != nil {
		return utils.SendError(c, forumErrorStatus(err), err.Error())
	}

	return utils.SendSuccess(c, "messages", messages)
}

func (h *ForumHandler) createMessage(c *fiber.Ctx) error {
	topicID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ForumMessageCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	message, err := h.service.CreateMessage(withRequestContext(c), topicID, actorFromContext(c), payload)
	if err != nil {
		return utils.SendError(c, forumErrorStatus(err), err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "message created", message)
}

func (h *ForumHandler) updateMessage(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ForumMessageUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	message, err := h.service.UpdateMessage(withRequestContext(c), id, actorFromContext(c), payload)
	if err != nil {
		return utils.SendError(c, forumErrorStatus(err), err.Error())
	}

	return utils.SendSuccess(c, "message updated", message)
}

func (h *ForumHandler) deleteMessage(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteMessage(withRequestContext(c), id, actorFromContext(c)); err != nil {
		return utils.SendError(c, forumErrorStatus(err), err.Error())
	}

	return utils.SendSuccess(c, "message deleted", nil)
}

func forumErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrTopicNotFound), errors.Is(err, service.ErrMessageNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrEditWindowExpired):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrTopicClosed), errors.Is(err, service.ErrNestingTooDeep):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrInvalidInput), isValidationError(err):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
