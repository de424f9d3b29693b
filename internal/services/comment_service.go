package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/socialhub/backend/internal/models"
	"github.com/anonto42/socialhub/backend/internal/repositories"
	"go.uber.org/zap"
)

// PostCounter keeps the denormalised comment count on the parent post
type PostCounter interface {
	IncrementCommentsCount(ctx context.Context, postID string) error
	DecrementCommentsCount(ctx context.Context, postID string) error
}

// ActivityNotifier is told about replies and fresh likes so owners can be notified
type ActivityNotifier interface {
	CommentReplied(ctx context.Context, parent *models.Comment, reply *models.CommentReply) error
	CommentLiked(ctx context.Context, target models.CommentEntry, like *models.CommentLike) error
}

// CommentService owns the lifecycle of comments, replies and their likes
type CommentService struct {
	comments repositories.CommentRepository
	likes    repositories.CommentLikeRepository
	posts    PostCounter
	activity ActivityNotifier
	log      *zap.Logger
}

type AddCommentInput struct {
	UserID         string
	PostID         string
	Content        string
	Classification models.Classification
}

type GetCommentsInput struct {
	PostID           string
	RequestingUserID string
	Classification   models.Classification // empty matches any
}

type UpdateCommentInput struct {
	ID      string
	UserID  string
	Content string
	Type    models.CommentType
}

type RemoveCommentInput struct {
	ID     string
	UserID string
	Type   models.CommentType
}

type ReplyInput struct {
	CommentID string
	UserID    string
	Content   string
}

type LikeInput struct {
	CommentID      string
	PostID         string
	UserID         string
	Like           bool
	Classification models.Classification
	Type           models.CommentType
}

// LikeResult is the state of the (comment, user) like after a toggle.
// Changed is false when the call was a no-op.
type LikeResult struct {
	Liked   bool                `json:"liked"`
	Changed bool                `json:"changed"`
	Like    *models.CommentLike `json:"like,omitempty"`
}

// NewCommentService wires a CommentService. posts and activity may be nil.
func NewCommentService(
	comments repositories.CommentRepository,
	likes repositories.CommentLikeRepository,
	posts PostCounter,
	activity ActivityNotifier,
	log *zap.Logger,
) *CommentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CommentService{
		comments: comments,
		likes:    likes,
		posts:    posts,
		activity: activity,
		log:      log,
	}
}

func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	const op = "comment.add"
	if in.Classification != "" {
		if _, err := models.ParseClassification(string(in.Classification)); err != nil {
			return nil, err
		}
	}

	comment, err := s.comments.NewComment(in.UserID, in.PostID, in.Content, in.Classification)
	if err != nil {
		return nil, err
	}
	if err := s.comments.SaveComment(ctx, comment); err != nil {
		return nil, s.storageFailure(op, err)
	}

	if s.posts != nil {
		if err := s.posts.IncrementCommentsCount(ctx, comment.PostID); err != nil {
			s.log.Warn("comments count increment failed", zap.String("post_id", comment.PostID), zap.Error(err))
		}
	}
	return comment, nil
}

// GetCommentsByPost returns the visible comments of a post, newest first, each
// with its visible replies oldest first, annotated for the requesting user.
func (s *CommentService) GetCommentsByPost(ctx context.Context, in GetCommentsInput) ([]models.CommentView, error) {
	const op = "comment.list_by_post"
	if in.PostID == "" {
		return nil, models.NewValidationError(op, "post id is required")
	}

	comments, err := s.comments.ListByPostID(ctx, in.PostID, in.Classification)
	if err != nil {
		return nil, s.storageFailure(op, err)
	}

	commentIDs := make([]string, 0, len(comments))
	for _, c := range comments {
		if !c.DeletedAt.Valid && c.Status != models.CommentStatusRemoved {
			commentIDs = append(commentIDs, c.ID)
		}
	}

	replies, err := s.comments.ListRepliesByCommentIDs(ctx, commentIDs)
	if err != nil {
		return nil, s.storageFailure(op, err)
	}

	repliesByComment := make(map[string][]models.CommentReply, len(commentIDs))
	likeTargets := append([]string{}, commentIDs...)
	for _, r := range replies {
		if r.DeletedAt.Valid {
			continue
		}
		repliesByComment[r.CommentID] = append(repliesByComment[r.CommentID], r)
		likeTargets = append(likeTargets, r.ID)
	}

	liked, err := s.likes.LikedIDs(ctx, in.RequestingUserID, likeTargets)
	if err != nil {
		return nil, s.storageFailure(op, err)
	}
	counts, err := s.likes.CountByIDs(ctx, likeTargets)
	if err != nil {
		return nil, s.storageFailure(op, err)
	}

	views := make([]models.CommentView, 0, len(commentIDs))
	for _, c := range comments {
		if c.DeletedAt.Valid || c.Status == models.CommentStatusRemoved {
			continue
		}
		view := models.CommentView{
			Comment:    c,
			IsLiked:    liked[c.ID],
			LikesCount: counts[c.ID],
			Replies:    []models.ReplyView{},
		}
		for _, r := range repliesByComment[c.ID] {
			view.Replies = append(view.Replies, models.ReplyView{
				CommentReply: r,
				Status:       r.Status(),
				IsLiked:      liked[r.ID],
				LikesCount:   counts[r.ID],
			})
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (models.CommentEntry, error) {
	const op = "comment.update"
	if strings.TrimSpace(in.Content) == "" {
		return models.CommentEntry{}, models.NewValidationError(op, "content is required")
	}

	ok, err := s.comments.Update(ctx, in.ID, in.UserID, in.Content, in.Type)
	if err != nil {
		return models.CommentEntry{}, s.storageFailure(op, err)
	}
	if !ok {
		return models.CommentEntry{}, models.NewNotAuthorizedOrNotFoundError(op, string(in.Type), in.ID)
	}

	entry, found, err := s.comments.GetByID(ctx, in.ID, in.Type)
	if err != nil {
		return models.CommentEntry{}, s.storageFailure(op, err)
	}
	if !found {
		return models.CommentEntry{}, models.NewNotFoundError(op, string(in.Type), in.ID)
	}
	return entry, nil
}

// RemoveComment soft-deletes a comment or reply. It fails with NotFoundError
// only when id exists in neither table, and is idempotent otherwise.
func (s *CommentService) RemoveComment(ctx context.Context, in RemoveCommentInput) error {
	const op = "comment.remove"

	types, err := s.comments.FindTypesByID(ctx, in.ID)
	if err != nil {
		return s.storageFailure(op, err)
	}
	if len(types) == 0 {
		return models.NewNotFoundError(op, "comment", in.ID)
	}

	entry, found, err := s.comments.GetByID(ctx, in.ID, in.Type)
	if err != nil {
		return s.storageFailure(op, err)
	}
	if !found {
		// present only in the other table; nothing of this type to remove
		return nil
	}
	if in.UserID != "" && entry.OwnerID() != in.UserID {
		return models.NewNotAuthorizedOrNotFoundError(op, string(in.Type), in.ID)
	}

	removed, err := s.comments.SoftDelete(ctx, in.ID, in.Type)
	if err != nil {
		return s.storageFailure(op, err)
	}

	if removed && in.Type == models.CommentTypeComment && s.posts != nil {
		if err := s.posts.DecrementCommentsCount(ctx, entry.Comment.PostID); err != nil {
			s.log.Warn("comments count decrement failed", zap.String("post_id", entry.Comment.PostID), zap.Error(err))
		}
	}
	return nil
}

func (s *CommentService) ReplyToComment(ctx context.Context, in ReplyInput) (*models.CommentReply, error) {
	const op = "comment.reply"

	reply, err := s.comments.NewReply(in.CommentID, in.UserID, in.Content)
	if err != nil {
		return nil, err
	}

	parent, found, err := s.comments.GetByID(ctx, in.CommentID, models.CommentTypeComment)
	if err != nil {
		return nil, s.storageFailure(op, err)
	}
	if !found || parent.Removed() {
		return nil, models.NewNotFoundError(op, "comment", in.CommentID)
	}

	if err := s.comments.SaveReply(ctx, reply); err != nil {
		return nil, s.storageFailure(op, err)
	}

	if s.activity != nil && parent.OwnerID() != in.UserID {
		if err := s.activity.CommentReplied(ctx, parent.Comment, reply); err != nil {
			s.log.Warn("reply notification failed", zap.String("comment_id", in.CommentID), zap.Error(err))
		}
	}
	return reply, nil
}

// LikeOrUnlikeComment sets the user's like on a comment or reply to in.Like.
// Repeating the same call is a no-op.
func (s *CommentService) LikeOrUnlikeComment(ctx context.Context, in LikeInput) (*LikeResult, error) {
	const op = "comment.like"
	if in.CommentID == "" || in.UserID == "" {
		return nil, models.NewValidationError(op, "comment id and user id are required")
	}
	if in.Type == "" {
		in.Type = models.CommentTypeComment
	}

	existing, found, err := s.likes.GetByIDAndUserID(ctx, in.CommentID, in.UserID)
	if err != nil {
		return nil, s.storageFailure(op, err)
	}

	if !in.Like {
		if !found {
			return &LikeResult{Liked: false}, nil
		}
		deleted, err := s.likes.DeleteByIDAndUserID(ctx, in.CommentID, in.UserID)
		if err != nil {
			return nil, s.storageFailure(op, err)
		}
		return &LikeResult{Liked: false, Changed: deleted > 0}, nil
	}

	if found {
		return &LikeResult{Liked: true, Like: existing}, nil
	}

	target, found, err := s.comments.GetByID(ctx, in.CommentID, in.Type)
	if err != nil {
		return nil, s.storageFailure(op, err)
	}
	if !found || target.Removed() {
		return nil, models.NewNotFoundError(op, string(in.Type), in.CommentID)
	}

	like := s.likes.NewLike(in.CommentID, in.PostID, in.UserID, in.Type, in.Classification)
	inserted, err := s.likes.Save(ctx, like)
	if err != nil {
		return nil, s.storageFailure(op, err)
	}
	if !inserted {
		// a concurrent request won the insert
		existing, _, err := s.likes.GetByIDAndUserID(ctx, in.CommentID, in.UserID)
		if err != nil {
			return nil, s.storageFailure(op, err)
		}
		return &LikeResult{Liked: true, Like: existing}, nil
	}

	if s.activity != nil && target.OwnerID() != in.UserID {
		if err := s.activity.CommentLiked(ctx, target, like); err != nil {
			s.log.Warn("like notification failed", zap.String("comment_id", in.CommentID), zap.Error(err))
		}
	}
	return &LikeResult{Liked: true, Changed: true, Like: like}, nil
}

// storageFailure logs datastore failures with their operation and passes the error on
func (s *CommentService) storageFailure(op string, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Kind != models.KindStorage {
		return err
	}
	s.log.Error("storage failure", zap.String("op", op), zap.Error(err))
	if appErr == nil {
		return models.NewStorageError(op, err)
	}
	return err
}
