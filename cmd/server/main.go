package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/socialhub/backend/internal/auth"
	"github.com/anonto42/socialhub/backend/internal/notifier"
	"github.com/anonto42/socialhub/backend/internal/router"
	"github.com/anonto42/socialhub/backend/pkg/config"
	"github.com/anonto42/socialhub/backend/pkg/firebase"
	"github.com/anonto42/socialhub/backend/pkg/logger"
	"github.com/anonto42/socialhub/backend/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	// Initialize database connections
	db, err := config.InitDB(cfg, zl)
	if err != nil {
		zl.Fatal("database init", zap.Error(err))
	}
	defer db.CloseDB()

	if err := config.Migrate(db.Postgres); err != nil {
		zl.Fatal("auto migrate", zap.Error(err))
	}
	zl.Info("auto-migrations completed")

	deps := router.Dependencies{
		Postgres: db.Postgres,
		Log:      zl,
	}
	if db.Mongo != nil {
		deps.Mongo = db.Mongo.Database(cfg.MongoDatabase)
	}

	// Identity provider
	ctx := context.Background()
	switch cfg.AuthMode {
	case "jwt":
		jwtProvider := auth.NewJWTProvider(cfg.JWTSecret, 72*time.Hour)
		deps.AuthProvider = jwtProvider
		if cfg.DevTokensEnabled() {
			deps.TokenIssuer = jwtProvider
		}
	default:
		authClient, err := firebase.NewAuthClient(ctx, firebase.Options{
			CredentialsPath: cfg.FirebaseCredentialsPath,
			ProjectID:       cfg.FirebaseProjectID,
		})
		if err != nil {
			zl.Fatal("firebase init", zap.Error(err))
		}
		firebaseProvider := auth.NewFirebaseProvider(authClient)
		deps.AuthProvider = firebaseProvider
		deps.Directory = firebaseProvider
	}

	// Outbound mail
	if cfg.SMTPHost != "" {
		deps.Mailer = notifier.NewSMTPMailer(notifier.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	} else {
		deps.Mailer = notifier.NewLogMailer(zl.Named("mail"))
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	config.SetupMiddleware(e, zl)
	router.SetupRoutes(e, deps)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("server shutdown", zap.Error(err))
	}
}
