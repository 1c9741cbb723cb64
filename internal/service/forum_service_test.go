package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nursultan-dev/campus-hub-api/internal/dto"
	"github.com/nursultan-dev/campus-hub-api/internal/models"
	"github.com/nursultan-dev/campus-hub-api/internal/repository"
)

type stubForumRepo struct {
	repository.ForumRepository
	topics   map[uint]models.ForumTopic
	messages map[uint]models.ForumMessage
	nextID   uint
	deleted  []uint
}

func newStubForumRepo() *stubForumRepo {
	return &stubForumRepo{
		topics:   map[uint]models.ForumTopic{},
		messages: map[uint]models.ForumMessage{},
		nextID:   1,
	}
}

func (s *stubForumRepo) GetTopic(ctx context.Context, id uint) (models.ForumTopic, error) {
	topic, ok := s.topics[id]
	if !ok {
		return models.ForumTopic{}, gorm.ErrRecordNotFound
	}
	return topic, nil
}

func (s *stubForumRepo) CreateTopic(ctx context.Context, topic *models.ForumTopic) error {
	topic.ID = s.nextID
	s.nextID++
	s.topics[topic.ID] = *topic
	return nil
}

func (s *stubForumRepo) UpdateTopic(ctx context.Context, topic *models.ForumTopic) error {
	s.topics[topic.ID] = *topic
	return nil
}

func (s *stubForumRepo) GetMessage(ctx context.Context, id uint) (models.ForumMessage, error) {
	message, ok := s.messages[id]
	if !ok {
		return models.ForumMessage{}, gorm.ErrRecordNotFound
	}
	return message, nil
}

func (s *stubForumRepo) CreateMessage(ctx context.Context, message *models.ForumMessage) error {
	message.ID = s.nextID
	s.nextID++
	s.messages[message.ID] = *message
	return nil
}

func (s *stubForumRepo) UpdateMessage(ctx context.Context, message *models.ForumMessage) error {
	s.messages[message.ID] = *message
	return nil
}

func (s *stubForumRepo) DeleteMessage(ctx context.Context, id uint) error {
	delete(s.messages, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubForumRepo) CountMessages(ctx context.Context, topicID uint) (int64, error) {
	var count int64
	for _, message := range s.messages {
		if message.TopicID == topicID {
			count++
		}
	}
	return count, nil
}

func newForumFixture(t *testing.T) (*stubForumRepo, *forumService) {
	t.Helper()

	repo := newStubForumRepo()
	users := newStubUserRepo()
	users.users[1] = models.User{ID: 1, Email: "author@example.com", Role: models.RoleStudent, IsActive: true}
	users.users[2] = models.User{ID: 2, Email: "other@example.com", Role: models.RoleStudent, IsActive: true}
	users.users[3] = models.User{ID: 3, Email: "mod@example.com", Role: models.RoleAdmin, IsActive: true}
	students := &stubSelectionRepo{}

	svc, ok := NewForumService(repo, users, students, newTestValidator(), zerolog.Nop()).(*forumService)
	require.True(t, ok)
	return repo, svc
}

func TestForumServiceCreateMessageRejectsClosedTopic(t *testing.T) {
	repo, svc := newForumFixture(t)
	repo.topics[1] = models.ForumTopic{ID: 1, Title: "Общие вопросы", AuthorID: 1, IsClosed: true}

	_, err := svc.CreateMessage(context.Background(), 1, Actor{UserID: 2, Role: models.RoleStudent}, dto.ForumMessageCreateRequest{Content: "привет"})
	require.ErrorIs(t, err, ErrTopicClosed)
}

func TestForumServiceCreateMessageRejectsNestedReplies(t *testing.T) {
	repo, svc := newForumFixture(t)
	repo.topics[1] = models.ForumTopic{ID: 1, Title: "Общие вопросы", AuthorID: 1}
	rootID := uint(10)
	repo.messages[10] = models.ForumMessage{ID: 10, TopicID: 1, AuthorID: 1, Content: "корень"}
	repo.messages[11] = models.ForumMessage{ID: 11, TopicID: 1, AuthorID: 2, Content: "ответ", ParentID: &rootID}

	replyID := uint(11)
	_, err := svc.CreateMessage(context.Background(), 1, Actor{UserID: 1, Role: models.RoleStudent}, dto.ForumMessageCreateRequest{
		Content:  "ответ на ответ",
		ParentID: &replyID,
	})
	require.ErrorIs(t, err, ErrNestingTooDeep)

	// Replying to the root is still fine.
	response, err := svc.CreateMessage(context.Background(), 1, Actor{UserID: 1, Role: models.RoleStudent}, dto.ForumMessageCreateRequest{
		Content:  "ещё ответ",
		ParentID: &rootID,
	})
	require.NoError(t, err)
	require.Equal(t, &rootID, response.ParentID)
}

func TestForumServiceCreateMessageRejectsCrossTopicParent(t *testing.T) {
	repo, svc := newForumFixture(t)
	repo.topics[1] = models.ForumTopic{ID: 1, Title: "Первая", AuthorID: 1}
	repo.topics[2] = models.ForumTopic{ID: 2, Title: "Вторая", AuthorID: 1}
	repo.messages[10] = models.ForumMessage{ID: 10, TopicID: 2, AuthorID: 1, Content: "в другой теме"}

	parentID := uint(10)
	_, err := svc.CreateMessage(context.Background(), 1, Actor{UserID: 1, Role: models.RoleStudent}, dto.ForumMessageCreateRequest{
		Content:  "ответ",
		ParentID: &parentID,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestForumServiceSanitizesMarkup(t *testing.T) {
	repo, svc := newForumFixture(t)
	repo.topics[1] = models.ForumTopic{ID: 1, Title: "Общие вопросы", AuthorID: 1}

	response, err := svc.CreateMessage(context.Background(), 1, Actor{UserID: 1, Role: models.RoleStudent}, dto.ForumMessageCreateRequest{
		Content: `<script>alert(1)</script><b>жирный</b>`,
	})
	require.NoError(t, err)
	require.Equal(t, "<b>жирный</b>", response.Content)

	_, err = svc.CreateMessage(context.Background(), 1, Actor{UserID: 1, Role: models.RoleStudent}, dto.ForumMessageCreateRequest{
		Content: `<script>alert(1)</script>`,
	})
	require.ErrorIs(t, err, ErrInvalidInput, "markup-only content is empty after sanitization")
}

func TestForumServiceEditWindowExpires(t *testing.T) {
	repo, svc := newForumFixture(t)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.topics[1] = models.ForumTopic{ID: 1, Title: "Общие вопросы", AuthorID: 1}
	repo.messages[10] = models.ForumMessage{ID: 10, TopicID: 1, AuthorID: 1, Content: "старое", CreatedAt: created}

	author := Actor{UserID: 1, Role: models.RoleStudent}

	svc.now = func() time.Time { return created.Add(29 * time.Minute) }
	_, err := svc.UpdateMessage(context.Background(), 10, author, dto.ForumMessageUpdateRequest{Content: "новое"})
	require.NoError(t, err)
	require.True(t, repo.messages[10].IsEdited)

	svc.now = func() time.Time { return created.Add(31 * time.Minute) }
	_, err = svc.UpdateMessage(context.Background(), 10, author, dto.ForumMessageUpdateRequest{Content: "ещё раз"})
	require.ErrorIs(t, err, ErrEditWindowExpired)

	err = svc.DeleteMessage(context.Background(), 10, author)
	require.ErrorIs(t, err, ErrEditWindowExpired)

	// Admins are not bound by the window.
	_, err = svc.UpdateMessage(context.Background(), 10, Actor{UserID: 3, Role: models.RoleAdmin}, dto.ForumMessageUpdateRequest{Content: "модерация"})
	require.NoError(t, err)
	err = svc.DeleteMessage(context.Background(), 10, Actor{UserID: 3, Role: models.RoleAdmin})
	require.NoError(t, err)
}

func TestForumServiceMessageMutationIsAuthorOnly(t *testing.T) {
	repo, svc := newForumFixture(t)
	repo.topics[1] = models.ForumTopic{ID: 1, Title: "Общие вопросы", AuthorID: 1}
	repo.messages[10] = models.ForumMessage{ID: 10, TopicID: 1, AuthorID: 1, Content: "моё", CreatedAt: time.Now()}

	_, err := svc.UpdateMessage(context.Background(), 10, Actor{UserID: 2, Role: models.RoleStudent}, dto.ForumMessageUpdateRequest{Content: "чужое"})
	require.ErrorIs(t, err, ErrForbidden)

	err = svc.DeleteMessage(context.Background(), 10, Actor{UserID: 2, Role: models.RoleStudent})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestForumServiceOnlyAdminsPinAndClose(t *testing.T) {
	repo, svc := newForumFixture(t)
	repo.topics[1] = models.ForumTopic{ID: 1, Title: "Общие вопросы", AuthorID: 1}

	closed := true
	pinned := true

	// The author may edit text but the moderation flags are ignored.
	_, err := svc.UpdateTopic(context.Background(), 1, Actor{UserID: 1, Role: models.RoleStudent}, dto.ForumTopicUpdateRequest{
		IsClosed: &closed,
		IsPinned: &pinned,
	})
	require.NoError(t, err)
	require.False(t, repo.topics[1].IsClosed)
	require.False(t, repo.topics[1].IsPinned)

	_, err = svc.UpdateTopic(context.Background(), 1, Actor{UserID: 3, Role: models.RoleAdmin}, dto.ForumTopicUpdateRequest{
		IsClosed: &closed,
		IsPinned: &pinned,
	})
	require.NoError(t, err)
	require.True(t, repo.topics[1].IsClosed)
	require.True(t, repo.topics[1].IsPinned)
}

func TestForumServiceTopicMutationIsAuthorOrAdmin(t *testing.T) {
	repo, svc := newForumFixture(t)
	repo.topics[1] = models.ForumTopic{ID: 1, Title: "Общие вопросы", AuthorID: 1}

	title := "Переименовано"
	_, err := svc.UpdateTopic(context.Background(), 1, Actor{UserID: 2, Role: models.RoleStudent}, dto.ForumTopicUpdateRequest{Title: &title})
	require.ErrorIs(t, err, ErrForbidden)

	err = svc.DeleteTopic(context.Background(), 1, Actor{UserID: 2, Role: models.RoleStudent})
	require.ErrorIs(t, err, ErrForbidden)
}
