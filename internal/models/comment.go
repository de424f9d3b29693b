package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentType tells whether an id refers to a top-level comment or a reply
type CommentType string

const (
	CommentTypeComment CommentType = "comment"
	CommentTypeReply   CommentType = "reply"
)

// ParseCommentType converts a request value into a CommentType
func ParseCommentType(s string) (CommentType, error) {
	switch CommentType(s) {
	case CommentTypeComment:
		return CommentTypeComment, nil
	case CommentTypeReply:
		return CommentTypeReply, nil
	}
	return "", NewValidationError("parse comment type", fmt.Sprintf("unknown comment type %q", s))
}

// CommentStatus is the lifecycle state of a comment. removed is terminal.
type CommentStatus string

const (
	CommentStatusActive  CommentStatus = "active"
	CommentStatusRemoved CommentStatus = "removed"
)

// Classification distinguishes regular posts from shared posts
type Classification string

const (
	ClassificationRegularPost Classification = "REGULAR_POST"
	ClassificationSharedPost  Classification = "SHARED_POST"
)

// ParseClassification converts a request value into a Classification
func ParseClassification(s string) (Classification, error) {
	switch Classification(s) {
	case ClassificationRegularPost:
		return ClassificationRegularPost, nil
	case ClassificationSharedPost:
		return ClassificationSharedPost, nil
	}
	return "", NewValidationError("parse classification", fmt.Sprintf("unknown classification %q", s))
}

// Comment represents a top-level comment on a post
type Comment struct {
	ID             string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID         string         `json:"user_id" gorm:"index;not null"` // identity provider subject
	PostID         string         `json:"post_id" gorm:"index;not null"`
	Content        string         `json:"content" gorm:"type:text;not null"`
	Status         CommentStatus  `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	Classification Classification `json:"classification" gorm:"type:varchar(20);index"`
	CreatedAt      time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

func (Comment) TableName() string {
	return "comments"
}

// BeforeCreate assigns a uuid when the caller did not set one
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CommentReply represents a reply to a top-level comment
type CommentReply struct {
	ID        string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CommentID string         `json:"comment_id" gorm:"index;not null"`
	UserID    string         `json:"user_id" gorm:"index;not null"`
	Content   string         `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

func (CommentReply) TableName() string {
	return "comment_replies"
}

func (r *CommentReply) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Status derives the lifecycle state from the soft-delete timestamp
func (r *CommentReply) Status() CommentStatus {
	if r.DeletedAt.Valid {
		return CommentStatusRemoved
	}
	return CommentStatusActive
}

// CommentEntry holds either a Comment or a CommentReply, selected by Type
type CommentEntry struct {
	Type    CommentType
	Comment *Comment
	Reply   *CommentReply
}

func (e CommentEntry) ID() string {
	switch e.Type {
	case CommentTypeComment:
		return e.Comment.ID
	case CommentTypeReply:
		return e.Reply.ID
	}
	return ""
}

func (e CommentEntry) OwnerID() string {
	switch e.Type {
	case CommentTypeComment:
		return e.Comment.UserID
	case CommentTypeReply:
		return e.Reply.UserID
	}
	return ""
}

// Removed reports whether the entry has been soft-deleted
func (e CommentEntry) Removed() bool {
	switch e.Type {
	case CommentTypeComment:
		return e.Comment.DeletedAt.Valid || e.Comment.Status == CommentStatusRemoved
	case CommentTypeReply:
		return e.Reply.DeletedAt.Valid
	}
	return false
}

// Value returns the wrapped model for JSON responses
func (e CommentEntry) Value() any {
	if e.Type == CommentTypeReply {
		return e.Reply
	}
	return e.Comment
}

// CommentView is a comment annotated for the requesting user, with its replies
type CommentView struct {
	Comment
	IsLiked    bool        `json:"is_liked"`
	LikesCount int64       `json:"likes_count"`
	Replies    []ReplyView `json:"replies"`
}

// ReplyView is a reply annotated for the requesting user
type ReplyView struct {
	CommentReply
	Status     CommentStatus `json:"status"`
	IsLiked    bool          `json:"is_liked"`
	LikesCount int64         `json:"likes_count"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	PostID         string `json:"postId" validate:"required"`
	Content        string `json:"content" validate:"required,min=1,max=500"`
	Classification string `json:"classification" validate:"required,oneof=REGULAR_POST SHARED_POST"`
}

// UpdateCommentRequest defines the request body for updating a comment or reply
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
	Type    string `json:"type" validate:"required,oneof=comment reply"`
}

// RemoveCommentRequest defines the request body for removing a comment or reply
type RemoveCommentRequest struct {
	Type string `json:"type" validate:"required,oneof=comment reply"`
}

// ReplyCommentRequest defines the request body for replying to a comment
type ReplyCommentRequest struct {
	CommentID string `json:"commentId" validate:"required"`
	Content   string `json:"content" validate:"required,min=1,max=500"`
}

// LikeCommentRequest defines the request body for liking or unliking a comment or reply
type LikeCommentRequest struct {
	CommentID      string `json:"commentId" validate:"required"`
	PostID         string `json:"postId" validate:"required"`
	Like           *bool  `json:"like" validate:"required"`
	Classification string `json:"classification" validate:"required,oneof=REGULAR_POST SHARED_POST"`
	CommentType    string `json:"commentType" validate:"omitempty,oneof=comment reply"`
}
