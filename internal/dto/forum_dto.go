package dto

import (
	"time"

	"github.com/nursultan-dev/campus-hub-api/internal/models"
)

// ForumAuthorResponse identifies the author of a topic or message.
type ForumAuthorResponse struct {
	ID   uint   `json:"id"`
	Role string `json:"role"`
	Name string `json:"name"`
}

// ForumTopicCreateRequest captures new topics.
type ForumTopicCreateRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"omitempty,max=5000"`
}

// ForumTopicUpdateRequest allows patching a topic. IsClosed and IsPinned
// are honoured only for admin actors.
type ForumTopicUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	IsClosed    *bool   `json:"is_closed"`
	IsPinned    *bool   `json:"is_pinned"`
}

// ForumTopicResponse serializes a topic.
type ForumTopicResponse struct {
	ID            uint                `json:"id"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	IsClosed      bool                `json:"is_closed"`
	IsPinned      bool                `json:"is_pinned"`
	MessagesCount int64               `json:"messages_count"`
	Author        ForumAuthorResponse `json:"author"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// ForumTopicListResponse wraps a paginated topic listing.
type ForumTopicListResponse struct {
	Topics     []ForumTopicResponse `json:"topics"`
	Pagination PaginationMeta       `json:"pagination"`
}

// ForumMessageCreateRequest captures new messages. ParentID marks a reply
// to a root message; replies to replies are rejected.
type ForumMessageCreateRequest struct {
	Content  string `json:"content" validate:"required,min=1"`
	ParentID *uint  `json:"parent_id"`
}

// ForumMessageUpdateRequest captures message edits.
type ForumMessageUpdateRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

// ForumMessageResponse serializes a message with optional nested replies.
type ForumMessageResponse struct {
	ID        uint                   `json:"id"`
	Content   string                 `json:"content"`
	TopicID   uint                   `json:"topic_id"`
	ParentID  *uint                  `json:"parent_id"`
	IsEdited  bool                   `json:"is_edited"`
	Author    ForumAuthorResponse    `json:"author"`
	Replies   []ForumMessageResponse `json:"replies,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// ForumMessageListResponse wraps a topic with its paginated root messages.
type ForumMessageListResponse struct {
	Topic      ForumTopicResponse     `json:"topic"`
	Messages   []ForumMessageResponse `json:"messages"`
	Pagination PaginationMeta         `json:"pagination"`
}

// NewForumMessageResponse converts a message model into a DTO. Author names
// are resolved by the service, which knows the profile tables.
func NewForumMessageResponse(message models.ForumMessage, author ForumAuthorResponse, includeReplies bool, resolveAuthor func(userID uint) ForumAuthorResponse) ForumMessageResponse {
	response := ForumMessageResponse{
		ID:        message.ID,
		Content:   message.Content,
		TopicID:   message.TopicID,
		ParentID:  message.ParentID,
		IsEdited:  message.IsEdited,
		Author:    author,
		CreatedAt: message.CreatedAt,
		UpdatedAt: message.UpdatedAt,
	}

	if includeReplies {
		for _, reply := range message.Replies {
			replyAuthor := author
			if resolveAuthor != nil {
				replyAuthor = resolveAuthor(reply.AuthorID)
			}
			response.Replies = append(response.Replies, NewForumMessageResponse(reply, replyAuthor, false, nil))
		}
	}

	return response
}
