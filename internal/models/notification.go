package models

import "time"

const (
	NotificationTypeCommentReply = "comment_reply"
	NotificationTypeCommentLike  = "comment_like"
)

// Notification represents a user notification (PostgreSQL)
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:30;index"` // comment_reply, comment_like
	ActorID     string    `json:"actor_id" gorm:"index"`
	RecipientID string    `json:"recipient_id" gorm:"index"`
	TargetID    string    `json:"target_id"`                  // comment or reply id
	TargetType  string    `json:"target_type" gorm:"size:20"` // comment, reply
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}
