package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nursultan-dev/campus-hub-api/internal/dto"
	"github.com/nursultan-dev/campus-hub-api/internal/models"
	"github.com/nursultan-dev/campus-hub-api/internal/repository"
)

// Forum sentinels.
var (
	ErrTopicNotFound     = errors.New("topic not found")
	ErrMessageNotFound   = errors.New("message not found")
	ErrTopicClosed       = errors.New("topic is closed")
	ErrEditWindowExpired = errors.New("edit window expired")
	ErrNestingTooDeep    = errors.New("cannot reply to a reply")
)

// editWindow is how long non-admin authors may edit or delete their own
// messages.
const editWindow = 30 * time.Minute

// ForumService exposes discussion topics and messages with one level of
// reply nesting.
type ForumService interface {
	ListTopics(ctx context.Context, page, perPage int, pinnedFirst bool) (dto.ForumTopicListResponse, error)
	GetTopic(ctx context.Context, id uint) (dto.ForumTopicResponse, error)
	CreateTopic(ctx context.Context, actor Actor, payload dto.ForumTopicCreateRequest) (dto.ForumTopicResponse, error)
	UpdateTopic(ctx context.Context, id uint, actor Actor, payload dto.ForumTopicUpdateRequest) (dto.ForumTopicResponse, error)
	DeleteTopic(ctx context.Context, id uint, actor Actor) error

	ListMessages(ctx context.Context, topicID uint, page, perPage int) (dto.ForumMessageListResponse, error)
	GetMessage(ctx context.Context, id uint) (dto.ForumMessageResponse, error)
	CreateMessage(ctx context.Context, topicID uint, actor Actor, payload dto.ForumMessageCreateRequest) (dto.ForumMessageResponse, error)
	UpdateMessage(ctx context.Context, id uint, actor Actor, payload dto.ForumMessageUpdateRequest) (dto.ForumMessageResponse, error)
	DeleteMessage(ctx context.Context, id uint, actor Actor) error
}

type forumService struct {
	repo      repository.ForumRepository
	users     repository.UserRepository
	students  repository.StudentRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewForumService constructs the forum service.
func NewForumService(repo repository.ForumRepository, users repository.UserRepository, students repository.StudentRepository, validate *validator.Validate, logger zerolog.Logger) ForumService {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("br")

	return &forumService{
		repo:      repo,
		users:     users,
		students:  students,
		validator: validate,
		sanitizer: policy,
		logger:    logger.With().Str("component", "forum_service").Logger(),
		now:       time.Now,
	}
}

func (s *forumService) ListTopics(ctx context.Context, page, perPage int, pinnedFirst bool) (dto.ForumTopicListResponse, error) {
	page, perPage = clampPagination(page, perPage, 20)

	topics, total, err := s.repo.ListTopics(ctx, repository.ForumTopicFilter{
		Page:        page,
		PerPage:     perPage,
		PinnedFirst: pinnedFirst,
	})
	if err != nil {
		return dto.ForumTopicListResponse{}, err
	}

	items := make([]dto.ForumTopicResponse, 0, len(topics))
	for _, topic := range topics {
		response, err := s.topicResponse(ctx, topic)
		if err != nil {
			return dto.ForumTopicListResponse{}, err
		}
		items = append(items, response)
	}

	return dto.ForumTopicListResponse{
		Topics:     items,
		Pagination: dto.NewPaginationMeta(page, perPage, total),
	}, nil
}

func (s *forumService) GetTopic(ctx context.Context, id uint) (dto.ForumTopicResponse, error) {
	topic, err := s.repo.GetTopic(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ForumTopicResponse{}, ErrTopicNotFound
		}
		return dto.ForumTopicResponse{}, err
	}

	return s.topicResponse(ctx, topic)
}

func (s *forumService) CreateTopic(ctx context.Context, actor Actor, payload dto.ForumTopicCreateRequest) (dto.ForumTopicResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ForumTopicResponse{}, err
	}

	title := strings.TrimSpace(s.sanitizer.Sanitize(payload.Title))
	if title == "" {
		return dto.ForumTopicResponse{}, fmt.Errorf("%w: title empty after sanitization", ErrInvalidInput)
	}

	topic := models.ForumTopic{
		Title:       title,
		Description: strings.TrimSpace(s.sanitizer.Sanitize(payload.Description)),
		AuthorID:    actor.UserID,
	}

	if err := s.repo.CreateTopic(ctx, &topic); err != nil {
		return dto.ForumTopicResponse{}, err
	}

	s.logger.Info().Uint("topic_id", topic.ID).Uint("author_id", actor.UserID).Msg("forum topic created")

	return s.topicResponse(ctx, topic)
}

func (s *forumService) UpdateTopic(ctx context.Context, id uint, actor Actor, payload dto.ForumTopicUpdateRequest) (dto.ForumTopicResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ForumTopicResponse{}, err
	}

	topic, err := s.repo.GetTopic(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ForumTopicResponse{}, ErrTopicNotFound
		}
		return dto.ForumTopicResponse{}, err
	}

	if topic.AuthorID != actor.UserID && !actor.IsAdmin() {
		return dto.ForumTopicResponse{}, ErrForbidden
	}

	if payload.Title != nil {
		title := strings.TrimSpace(s.sanitizer.Sanitize(*payload.Title))
		if title == "" {
			return dto.ForumTopicResponse{}, fmt.Errorf("%w: title empty after sanitization", ErrInvalidInput)
		}
		topic.Title = title
	}

	if payload.Description != nil {
		topic.Description = strings.TrimSpace(s.sanitizer.Sanitize(*payload.Description))
	}

	// Only admins may pin or close topics.
	if actor.IsAdmin() {
		if payload.IsClosed != nil {
			topic.IsClosed = *payload.IsClosed
		}
		if payload.IsPinned != nil {
			topic.IsPinned = *payload.IsPinned
		}
	}

	if err := s.repo.UpdateTopic(ctx, &topic); err != nil {
		return dto.ForumTopicResponse{}, err
	}

	return s.topicResponse(ctx, topic)
}

func (s *forumService) DeleteTopic(ctx context.Context, id uint, actor Actor) error {
	topic, err := s.repo.GetTopic(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTopicNotFound
		}
		return err
	}

	if topic.AuthorID != actor.UserID && !actor.IsAdmin() {
		return ErrForbidden
	}

	return s.repo.DeleteTopic(ctx, id)
}

func (s *forumService) ListMessages(ctx context.Context, topicID uint, page, perPage int) (dto.ForumMessageListResponse, error) {
	topic, err := s.repo.GetTopic(ctx, topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ForumMessageListResponse{}, ErrTopicNotFound
		}
		return dto.ForumMessageListResponse{}, err
	}

	page, perPage = clampPagination(page, perPage, 50)

	messages, err := s.repo.ListRootMessages(ctx, topicID, page, perPage)
	if err != nil {
		return dto.ForumMessageListResponse{}, err
	}

	// The total covers every message in the topic, replies included.
	total, err := s.repo.CountMessages(ctx, topicID)
	if err != nil {
		return dto.ForumMessageListResponse{}, err
	}

	topicResponse, err := s.topicResponse(ctx, topic)
	if err != nil {
		return dto.ForumMessageListResponse{}, err
	}

	items := make([]dto.ForumMessageResponse, 0, len(messages))
	for _, message := range messages {
		items = append(items, s.messageResponse(ctx, message, true))
	}

	return dto.ForumMessageListResponse{
		Topic:      topicResponse,
		Messages:   items,
		Pagination: dto.NewPaginationMeta(page, perPage, total),
	}, nil
}

func (s *forumService) GetMessage(ctx context.Context, id uint) (dto.ForumMessageResponse, error) {
	message, err := s.repo.GetMessage(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ForumMessageResponse{}, ErrMessageNotFound
		}
		return dto.ForumMessageResponse{}, err
	}

	return s.messageResponse(ctx, message, true), nil
}

func (s *forumService) CreateMessage(ctx context.Context, topicID uint, actor Actor, payload dto.ForumMessageCreateRequest) (dto.ForumMessageResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ForumMessageResponse{}, err
	}

	topic, err := s.repo.GetTopic(ctx, topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ForumMessageResponse{}, ErrTopicNotFound
		}
		return dto.ForumMessageResponse{}, err
	}

	if topic.IsClosed {
		return dto.ForumMessageResponse{}, ErrTopicClosed
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if content == "" {
		return dto.ForumMessageResponse{}, fmt.Errorf("%w: content empty after sanitization", ErrInvalidInput)
	}

	if payload.ParentID != nil {
		parent, err := s.repo.GetMessage(ctx, *payload.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.ForumMessageResponse{}, ErrMessageNotFound
			}
			return dto.ForumMessageResponse{}, err
		}
		if parent.TopicID != topicID {
			return dto.ForumMessageResponse{}, fmt.Errorf("%w: parent message belongs to another topic", ErrInvalidInput)
		}
		if parent.ParentID != nil {
			return dto.ForumMessageResponse{}, ErrNestingTooDeep
		}
	}

	message := models.ForumMessage{
		Content:  content,
		TopicID:  topicID,
		AuthorID: actor.UserID,
		ParentID: payload.ParentID,
	}

	if err := s.repo.CreateMessage(ctx, &message); err != nil {
		return dto.ForumMessageResponse{}, err
	}

	return s.messageResponse(ctx, message, false), nil
}

func (s *forumService) UpdateMessage(ctx context.Context, id uint, actor Actor, payload dto.ForumMessageUpdateRequest) (dto.ForumMessageResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ForumMessageResponse{}, err
	}

	message, err := s.repo.GetMessage(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ForumMessageResponse{}, ErrMessageNotFound
		}
		return dto.ForumMessageResponse{}, err
	}

	if err := s.authorizeMessageMutation(message, actor); err != nil {
		return dto.ForumMessageResponse{}, err
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if content == "" {
		return dto.ForumMessageResponse{}, fmt.Errorf("%w: content empty after sanitization", ErrInvalidInput)
	}

	message.Content = content
	message.IsEdited = true

	if err := s.repo.UpdateMessage(ctx, &message); err != nil {
		return dto.ForumMessageResponse{}, err
	}

	return s.messageResponse(ctx, message, false), nil
}

func (s *forumService) DeleteMessage(ctx context.Context, id uint, actor Actor) error {
	message, err := s.repo.GetMessage(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		return err
	}

	// Admins may delete any message without time limits.
	if actor.IsAdmin() {
		return s.repo.DeleteMessage(ctx, id)
	}

	if err := s.authorizeMessageMutation(message, actor); err != nil {
		return err
	}

	return s.repo.DeleteMessage(ctx, id)
}

// authorizeMessageMutation enforces the author-only rule and, for
// non-admin authors, the 30-minute edit window.
func (s *forumService) authorizeMessageMutation(message models.ForumMessage, actor Actor) error {
	if message.AuthorID != actor.UserID {
		if actor.IsAdmin() {
			return nil
		}
		return ErrForbidden
	}

	if actor.IsAdmin() {
		return nil
	}

	if s.now().Sub(message.CreatedAt) > editWindow {
		return ErrEditWindowExpired
	}

	return nil
}

func (s *forumService) topicResponse(ctx context.Context, topic models.ForumTopic) (dto.ForumTopicResponse, error) {
	count, err := s.repo.CountMessages(ctx, topic.ID)
	if err != nil {
		return dto.ForumTopicResponse{}, err
	}

	return dto.ForumTopicResponse{
		ID:            topic.ID,
		Title:         topic.Title,
		Description:   topic.Description,
		IsClosed:      topic.IsClosed,
		IsPinned:      topic.IsPinned,
		MessagesCount: count,
		Author:        s.resolveAuthor(ctx, topic.AuthorID),
		CreatedAt:     topic.CreatedAt,
		UpdatedAt:     topic.UpdatedAt,
	}, nil
}

func (s *forumService) messageResponse(ctx context.Context, message models.ForumMessage, includeReplies bool) dto.ForumMessageResponse {
	author := s.resolveAuthor(ctx, message.AuthorID)
	return dto.NewForumMessageResponse(message, author, includeReplies, func(userID uint) dto.ForumAuthorResponse {
		return s.resolveAuthor(ctx, userID)
	})
}

// resolveAuthor builds the display identity for a message or topic author.
// Lookups are best-effort: a missing profile falls back to a bare account
// identity rather than failing the whole response.
func (s *forumService) resolveAuthor(ctx context.Context, userID uint) dto.ForumAuthorResponse {
	author := dto.ForumAuthorResponse{ID: userID}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return author
	}
	author.Role = user.Role

	if user.Role == models.RoleStudent {
		profile, err := s.students.GetByUserID(ctx, userID)
		if err == nil {
			author.Name = strings.TrimSpace(profile.FirstName + " " + profile.LastName)
		}
	}

	return author
}
