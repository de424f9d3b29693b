package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/socialhub/backend/internal/models"
	"github.com/anonto42/socialhub/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentService is the part of services.CommentService the handler uses
type CommentService interface {
	AddComment(ctx context.Context, in services.AddCommentInput) (*models.Comment, error)
	GetCommentsByPost(ctx context.Context, in services.GetCommentsInput) ([]models.CommentView, error)
	UpdateComment(ctx context.Context, in services.UpdateCommentInput) (models.CommentEntry, error)
	RemoveComment(ctx context.Context, in services.RemoveCommentInput) error
	ReplyToComment(ctx context.Context, in services.ReplyInput) (*models.CommentReply, error)
	LikeOrUnlikeComment(ctx context.Context, in services.LikeInput) (*services.LikeResult, error)
}

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentService CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/comment/add", h.AddComment)
	g.PATCH("/comment/update/:id", h.UpdateComment)
	g.PATCH("/comment/remove/:id", h.RemoveComment)
	g.POST("/comment/reply", h.ReplyToComment)
	g.POST("/comment/like", h.LikeOrUnlikeComment)
	g.GET("/comment/:postId", h.GetCommentsByPost)
}

// AddComment creates a new comment on a post
func (h *CommentHandler) AddComment(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.commentService.AddComment(c.Request().Context(), services.AddCommentInput{
		UserID:         userID,
		PostID:         req.PostID,
		Content:        req.Content,
		Classification: models.Classification(req.Classification),
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, comment)
}

// GetCommentsByPost returns the comment tree of a post for the requesting user
func (h *CommentHandler) GetCommentsByPost(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var classification models.Classification
	if raw := c.QueryParam("classification"); raw != "" {
		parsed, err := models.ParseClassification(raw)
		if err != nil {
			return toHTTPError(err)
		}
		classification = parsed
	}

	comments, err := h.commentService.GetCommentsByPost(c.Request().Context(), services.GetCommentsInput{
		PostID:           c.Param("postId"),
		RequestingUserID: userID,
		Classification:   classification,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, comments)
}

// UpdateComment edits the content of the caller's comment or reply
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	typ, err := models.ParseCommentType(req.Type)
	if err != nil {
		return toHTTPError(err)
	}

	entry, err := h.commentService.UpdateComment(c.Request().Context(), services.UpdateCommentInput{
		ID:      c.Param("id"),
		UserID:  userID,
		Content: req.Content,
		Type:    typ,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, entry.Value())
}

// RemoveComment soft-deletes the caller's comment or reply
func (h *CommentHandler) RemoveComment(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.RemoveCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	typ, err := models.ParseCommentType(req.Type)
	if err != nil {
		return toHTTPError(err)
	}

	id := c.Param("id")
	err = h.commentService.RemoveComment(c.Request().Context(), services.RemoveCommentInput{
		ID:     id,
		UserID: userID,
		Type:   typ,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "id": id})
}

// ReplyToComment adds a reply under an existing comment
func (h *CommentHandler) ReplyToComment(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.ReplyCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	reply, err := h.commentService.ReplyToComment(c.Request().Context(), services.ReplyInput{
		CommentID: req.CommentID,
		UserID:    userID,
		Content:   req.Content,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, reply)
}

// LikeOrUnlikeComment sets or clears the caller's like on a comment or reply
func (h *CommentHandler) LikeOrUnlikeComment(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.LikeCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	typ := models.CommentTypeComment
	if req.CommentType != "" {
		parsed, err := models.ParseCommentType(req.CommentType)
		if err != nil {
			return toHTTPError(err)
		}
		typ = parsed
	}

	result, err := h.commentService.LikeOrUnlikeComment(c.Request().Context(), services.LikeInput{
		CommentID:      req.CommentID,
		PostID:         req.PostID,
		UserID:         userID,
		Like:           *req.Like,
		Classification: models.Classification(req.Classification),
		Type:           typ,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, result)
}
