package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nursultan-dev/campus-hub-api/internal/models"
)

// ForumTopicFilter narrows the topic listing.
type ForumTopicFilter struct {
	Page        int
	PerPage     int
	PinnedFirst bool
}

// ForumRepository persists discussion topics and their messages.
type ForumRepository interface {
	ListTopics(ctx context.Context, filter ForumTopicFilter) ([]models.ForumTopic, int64, error)
	GetTopic(ctx context.Context, id uint) (models.ForumTopic, error)
	CreateTopic(ctx context.Context, topic *models.ForumTopic) error
	UpdateTopic(ctx context.Context, topic *models.ForumTopic) error
	DeleteTopic(ctx context.Context, id uint) error
	CountMessages(ctx context.Context, topicID uint) (int64, error)

	// ListRootMessages returns paginated top-level messages with their
	// replies preloaded, newest roots first.
	ListRootMessages(ctx context.Context, topicID uint, page, perPage int) ([]models.ForumMessage, error)
	GetMessage(ctx context.Context, id uint) (models.ForumMessage, error)
	CreateMessage(ctx context.Context, message *models.ForumMessage) error
	UpdateMessage(ctx context.Context, message *models.ForumMessage) error
	DeleteMessage(ctx context.Context, id uint) error
}

type forumRepository struct {
	db *gorm.DB
}

// NewForumRepository constructs a forum repository.
func NewForumRepository(db *gorm.DB) ForumRepository {
	return &forumRepository{db: db}
}

func (r *forumRepository) ListTopics(ctx context.Context, filter ForumTopicFilter) ([]models.ForumTopic, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ForumTopic{})

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PinnedFirst {
		query = query.Order("is_pinned DESC")
	}
	query = query.Order("created_at DESC")

	if filter.PerPage > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Limit(filter.PerPage).Offset((page - 1) * filter.PerPage)
	}

	var topics []models.ForumTopic
	if err := query.Find(&topics).Error; err != nil {
		return nil, 0, err
	}

	return topics, total, nil
}

func (r *forumRepository) GetTopic(ctx context.Context, id uint) (models.ForumTopic, error) {
	var topic models.ForumTopic
	if err := r.db.WithContext(ctx).First(&topic, id).Error; err != nil {
		return models.ForumTopic{}, err
	}

	return topic, nil
}

func (r *forumRepository) CreateTopic(ctx context.Context, topic *models.ForumTopic) error {
	return r.db.WithContext(ctx).Create(topic).Error
}

func (r *forumRepository) UpdateTopic(ctx context.Context, topic *models.ForumTopic) error {
	return r.db.WithContext(ctx).Save(topic).Error
}

// DeleteTopic removes the topic together with its messages.
func (r *forumRepository) DeleteTopic(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("topic_id = ?", id).Delete(&models.ForumMessage{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.ForumTopic{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

func (r *forumRepository) CountMessages(ctx context.Context, topicID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ForumMessage{}).
		Where("topic_id = ?", topicID).
		Count(&count).Error
	return count, err
}

func (r *forumRepository) ListRootMessages(ctx context.Context, topicID uint, page, perPage int) ([]models.ForumMessage, error) {
	if page <= 0 {
		page = 1
	}

	query := r.db.WithContext(ctx).
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("topic_id = ?", topicID).
		Where("parent_id IS NULL").
		Order("created_at DESC")

	if perPage > 0 {
		query = query.Limit(perPage).Offset((page - 1) * perPage)
	}

	var messages []models.ForumMessage
	err := query.Find(&messages).Error
	return messages, err
}

func (r *forumRepository) GetMessage(ctx context.Context, id uint) (models.ForumMessage, error) {
	var message models.ForumMessage
	err := r.db.WithContext(ctx).
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&message, id).Error
	if err != nil {
		return models.ForumMessage{}, err
	}

	return message, nil
}

func (r *forumRepository) CreateMessage(ctx context.Context, message *models.ForumMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *forumRepository) UpdateMessage(ctx context.Context, message *models.ForumMessage) error {
	return r.db.WithContext(ctx).Save(message).Error
}

func (r *forumRepository) DeleteMessage(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ForumMessage{}).
			Where("parent_id = ?", id).
			Update("parent_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.ForumMessage{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}
