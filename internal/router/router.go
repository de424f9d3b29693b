package router

import (
	"net/http"

	"github.com/anonto42/socialhub/backend/internal/auth"
	"github.com/anonto42/socialhub/backend/internal/handlers"
	"github.com/anonto42/socialhub/backend/internal/middleware"
	"github.com/anonto42/socialhub/backend/internal/notifier"
	"github.com/anonto42/socialhub/backend/internal/repositories"
	"github.com/anonto42/socialhub/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the collaborators built by the composition root
type Dependencies struct {
	Postgres     *gorm.DB
	Mongo        *mongo.Database // nil disables post comment counters
	AuthProvider auth.Provider
	Directory    auth.Directory       // nil disables reply emails
	TokenIssuer  handlers.TokenIssuer // nil hides the dev token route
	Mailer       notifier.Mailer
	Log          *zap.Logger
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	log := deps.Log

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "comments api"})
	})

	// --- Initialize Repositories ---
	commentRepo := repositories.NewPostgresCommentRepository(deps.Postgres)
	commentLikeRepo := repositories.NewPostgresCommentLikeRepository(deps.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(deps.Postgres)

	var postCounter services.PostCounter
	if deps.Mongo != nil {
		postCounter = repositories.NewMongoPostRepository(deps.Mongo)
	}

	// --- Services ---
	dispatcher := notifier.NewDispatcher(notificationRepo, deps.Directory, deps.Mailer, log.Named("notifier"))
	commentService := services.NewCommentService(commentRepo, commentLikeRepo, postCounter, dispatcher, log.Named("comments"))

	// --- Unprotected routes for authentication ---
	if deps.TokenIssuer != nil {
		authGroup := e.Group("/api/v1/auth")
		handlers.NewAuthHandler(deps.TokenIssuer).RegisterAuthRoutes(authGroup)
		log.Warn("development token route enabled")
	}

	// --- Protected routes ---
	api := e.Group("/api/v1")
	api.Use(middleware.Authenticate(deps.AuthProvider))

	handlers.NewCommentHandler(commentService).RegisterCommentRoutes(api)
	handlers.NewNotificationHandler(notificationRepo).RegisterNotificationRoutes(api)

	log.Info("all routes configured")
}
