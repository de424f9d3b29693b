package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/anonto42/socialhub/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment and reply data operations.
// Reads return soft-deleted rows too; callers decide what to display.
type CommentRepository interface {
	NewComment(userID, postID, content string, classification models.Classification) (*models.Comment, error)
	NewReply(commentID, userID, content string) (*models.CommentReply, error)
	SaveComment(ctx context.Context, comment *models.Comment) error
	SaveReply(ctx context.Context, reply *models.CommentReply) error
	GetByID(ctx context.Context, id string, typ models.CommentType) (models.CommentEntry, bool, error)
	ListByPostID(ctx context.Context, postID string, classification models.Classification) ([]models.Comment, error)
	ListRepliesByCommentID(ctx context.Context, commentID string) ([]models.CommentReply, error)
	ListRepliesByCommentIDs(ctx context.Context, commentIDs []string) ([]models.CommentReply, error)
	Update(ctx context.Context, id, userID, content string, typ models.CommentType) (bool, error)
	SoftDelete(ctx context.Context, id string, typ models.CommentType) (bool, error)
	FindTypesByID(ctx context.Context, id string) ([]models.CommentType, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// NewComment builds an unsaved active comment. It does not touch the database.
func (r *PostgresCommentRepository) NewComment(userID, postID, content string, classification models.Classification) (*models.Comment, error) {
	const op = "comment.new"
	if userID == "" || postID == "" {
		return nil, models.NewValidationError(op, "user id and post id are required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError(op, "content is required")
	}
	return &models.Comment{
		UserID:         userID,
		PostID:         postID,
		Content:        content,
		Status:         models.CommentStatusActive,
		Classification: classification,
	}, nil
}

// NewReply builds an unsaved reply to commentID
func (r *PostgresCommentRepository) NewReply(commentID, userID, content string) (*models.CommentReply, error) {
	const op = "comment.new_reply"
	if commentID == "" || userID == "" {
		return nil, models.NewValidationError(op, "comment id and user id are required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError(op, "content is required")
	}
	return &models.CommentReply{
		CommentID: commentID,
		UserID:    userID,
		Content:   content,
	}, nil
}

// SaveComment persists a comment built by NewComment
func (r *PostgresCommentRepository) SaveComment(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewStorageError("comment.save", err)
	}
	return nil
}

// SaveReply persists a reply built by NewReply
func (r *PostgresCommentRepository) SaveReply(ctx context.Context, reply *models.CommentReply) error {
	if err := r.db.WithContext(ctx).Create(reply).Error; err != nil {
		return models.NewStorageError("comment.save_reply", err)
	}
	return nil
}

// GetByID looks up id in the table selected by typ. The boolean is false when
// no row exists; removed rows are returned with found=true.
func (r *PostgresCommentRepository) GetByID(ctx context.Context, id string, typ models.CommentType) (models.CommentEntry, bool, error) {
	const op = "comment.get_by_id"
	q := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).Limit(1)

	switch typ {
	case models.CommentTypeComment:
		var comments []models.Comment
		if err := q.Find(&comments).Error; err != nil {
			return models.CommentEntry{}, false, models.NewStorageError(op, err)
		}
		if len(comments) == 0 {
			return models.CommentEntry{}, false, nil
		}
		return models.CommentEntry{Type: typ, Comment: &comments[0]}, true, nil
	case models.CommentTypeReply:
		var replies []models.CommentReply
		if err := q.Find(&replies).Error; err != nil {
			return models.CommentEntry{}, false, models.NewStorageError(op, err)
		}
		if len(replies) == 0 {
			return models.CommentEntry{}, false, nil
		}
		return models.CommentEntry{Type: typ, Reply: &replies[0]}, true, nil
	}
	return models.CommentEntry{}, false, unknownType(op, typ)
}

// ListByPostID returns every comment of a post, newest first.
// An empty classification matches any.
func (r *PostgresCommentRepository) ListByPostID(ctx context.Context, postID string, classification models.Classification) ([]models.Comment, error) {
	q := r.db.WithContext(ctx).Unscoped().Where("post_id = ?", postID)
	if classification != "" {
		q = q.Where("classification = ?", classification)
	}

	comments := []models.Comment{}
	if err := q.Order("created_at DESC").Order("id DESC").Find(&comments).Error; err != nil {
		return nil, models.NewStorageError("comment.list_by_post", err)
	}
	return comments, nil
}

// ListRepliesByCommentID returns the replies of a comment, oldest first
func (r *PostgresCommentRepository) ListRepliesByCommentID(ctx context.Context, commentID string) ([]models.CommentReply, error) {
	return r.ListRepliesByCommentIDs(ctx, []string{commentID})
}

// ListRepliesByCommentIDs returns the replies of several comments in one query, oldest first
func (r *PostgresCommentRepository) ListRepliesByCommentIDs(ctx context.Context, commentIDs []string) ([]models.CommentReply, error) {
	replies := []models.CommentReply{}
	if len(commentIDs) == 0 {
		return replies, nil
	}
	err := r.db.WithContext(ctx).Unscoped().
		Where("comment_id IN ?", commentIDs).
		Order("created_at ASC").Order("id ASC").
		Find(&replies).Error
	if err != nil {
		return nil, models.NewStorageError("comment.list_replies", err)
	}
	return replies, nil
}

// Update changes the content of a row owned by userID that is not removed.
// It reports false when no row matched, without telling which condition failed.
func (r *PostgresCommentRepository) Update(ctx context.Context, id, userID, content string, typ models.CommentType) (bool, error) {
	const op = "comment.update"
	model, err := modelFor(op, typ)
	if err != nil {
		return false, err
	}

	res := r.db.WithContext(ctx).Unscoped().Model(model).
		Where("id = ? AND user_id = ? AND deleted_at IS NULL", id, userID).
		Updates(map[string]any{"content": content, "updated_at": time.Now()})
	if res.Error != nil {
		return false, models.NewStorageError(op, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// SoftDelete stamps deleted_at on a row that is not yet removed. Repeating the
// call succeeds and leaves the first timestamp alone; the boolean reports
// whether this call did the transition.
func (r *PostgresCommentRepository) SoftDelete(ctx context.Context, id string, typ models.CommentType) (bool, error) {
	const op = "comment.soft_delete"
	model, err := modelFor(op, typ)
	if err != nil {
		return false, err
	}

	now := time.Now()
	values := map[string]any{"deleted_at": now, "updated_at": now}
	if typ == models.CommentTypeComment {
		values["status"] = models.CommentStatusRemoved
	}

	res := r.db.WithContext(ctx).Unscoped().Model(model).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(values)
	if res.Error != nil {
		return false, models.NewStorageError(op, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// FindTypesByID reports in which of the comments and comment_replies tables id exists
func (r *PostgresCommentRepository) FindTypesByID(ctx context.Context, id string) ([]models.CommentType, error) {
	const op = "comment.find_types"
	var found []models.CommentType

	for _, typ := range []models.CommentType{models.CommentTypeComment, models.CommentTypeReply} {
		model, err := modelFor(op, typ)
		if err != nil {
			return nil, err
		}
		var count int64
		if err := r.db.WithContext(ctx).Unscoped().Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, models.NewStorageError(op, err)
		}
		if count > 0 {
			found = append(found, typ)
		}
	}
	return found, nil
}

func modelFor(op string, typ models.CommentType) (any, error) {
	switch typ {
	case models.CommentTypeComment:
		return &models.Comment{}, nil
	case models.CommentTypeReply:
		return &models.CommentReply{}, nil
	}
	return nil, unknownType(op, typ)
}

func unknownType(op string, typ models.CommentType) error {
	return models.NewValidationError(op, "unknown comment type "+string(typ))
}
