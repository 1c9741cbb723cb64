package models

import "time"

// ForumTopic is a discussion thread. Closed topics reject new messages;
// pinned topics sort first in listings.
type ForumTopic struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	AuthorID    uint      `gorm:"not null" json:"author_id"`
	IsClosed    bool      `gorm:"not null;default:false" json:"is_closed"`
	IsPinned    bool      `gorm:"not null;default:false" json:"is_pinned"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Author   User           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Messages []ForumMessage `gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE" json:"-"`
}

// ForumMessage is a message inside a topic. ParentID allows exactly one
// level of nesting: replies to replies are rejected at the service layer.
type ForumMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	TopicID   uint      `gorm:"index;not null" json:"topic_id"`
	AuthorID  uint      `gorm:"not null" json:"author_id"`
	ParentID  *uint     `json:"parent_id"`
	IsEdited  bool      `gorm:"not null;default:false" json:"is_edited"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author  User           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Replies []ForumMessage `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
}
