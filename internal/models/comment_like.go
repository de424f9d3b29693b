package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentLike represents a user's like on a comment or a reply.
// Rows are hard-deleted on unlike.
type CommentLike struct {
	ID             string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CommentID      string         `json:"comment_id" gorm:"not null;index;uniqueIndex:idx_comment_user_like"`
	UserID         string         `json:"user_id" gorm:"not null;index;uniqueIndex:idx_comment_user_like"`
	PostID         string         `json:"post_id" gorm:"index"`
	CommentType    CommentType    `json:"comment_type" gorm:"type:varchar(20);not null"`
	Classification Classification `json:"classification" gorm:"type:varchar(20)"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}

func (l *CommentLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
