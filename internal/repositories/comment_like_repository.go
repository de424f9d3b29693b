package repositories

import (
	"context"

	"github.com/anonto42/socialhub/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentLikeRepository defines the interface for comment like operations
type CommentLikeRepository interface {
	NewLike(commentID, postID, userID string, typ models.CommentType, classification models.Classification) *models.CommentLike
	Save(ctx context.Context, like *models.CommentLike) (bool, error)
	GetByIDAndUserID(ctx context.Context, commentID, userID string) (*models.CommentLike, bool, error)
	DeleteByIDAndUserID(ctx context.Context, commentID, userID string) (int64, error)
	LikedIDs(ctx context.Context, userID string, commentIDs []string) (map[string]bool, error)
	CountByIDs(ctx context.Context, commentIDs []string) (map[string]int64, error)
}

type postgresCommentLikeRepository struct {
	db *gorm.DB
}

func NewPostgresCommentLikeRepository(db *gorm.DB) CommentLikeRepository {
	return &postgresCommentLikeRepository{db: db}
}

func (r *postgresCommentLikeRepository) NewLike(commentID, postID, userID string, typ models.CommentType, classification models.Classification) *models.CommentLike {
	return &models.CommentLike{
		CommentID:      commentID,
		PostID:         postID,
		UserID:         userID,
		CommentType:    typ,
		Classification: classification,
	}
}

// Save inserts the like unless one already exists for (comment_id, user_id).
// It reports whether a row was inserted.
func (r *postgresCommentLikeRepository) Save(ctx context.Context, like *models.CommentLike) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "comment_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(like)
	if res.Error != nil {
		return false, models.NewStorageError("comment_like.save", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *postgresCommentLikeRepository) GetByIDAndUserID(ctx context.Context, commentID, userID string) (*models.CommentLike, bool, error) {
	var likes []models.CommentLike
	err := r.db.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Limit(1).Find(&likes).Error
	if err != nil {
		return nil, false, models.NewStorageError("comment_like.get", err)
	}
	if len(likes) == 0 {
		return nil, false, nil
	}
	return &likes[0], true, nil
}

func (r *postgresCommentLikeRepository) DeleteByIDAndUserID(ctx context.Context, commentID, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&models.CommentLike{})
	if res.Error != nil {
		return 0, models.NewStorageError("comment_like.delete", res.Error)
	}
	return res.RowsAffected, nil
}

// LikedIDs returns the subset of commentIDs liked by userID
func (r *postgresCommentLikeRepository) LikedIDs(ctx context.Context, userID string, commentIDs []string) (map[string]bool, error) {
	liked := make(map[string]bool)
	if len(commentIDs) == 0 || userID == "" {
		return liked, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).Model(&models.CommentLike{}).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Pluck("comment_id", &ids).Error
	if err != nil {
		return nil, models.NewStorageError("comment_like.liked_ids", err)
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// CountByIDs returns the number of likes per comment id; ids without likes are absent
func (r *postgresCommentLikeRepository) CountByIDs(ctx context.Context, commentIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64)
	if len(commentIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		CommentID string
		Total     int64
	}
	err := r.db.WithContext(ctx).Model(&models.CommentLike{}).
		Select("comment_id, COUNT(*) AS total").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewStorageError("comment_like.count", err)
	}
	for _, row := range rows {
		counts[row.CommentID] = row.Total
	}
	return counts, nil
}
