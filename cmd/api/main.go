package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/learnhubhq/learnhub-api/internal/config"
	delivery "github.com/learnhubhq/learnhub-api/internal/delivery/http"
	"github.com/learnhubhq/learnhub-api/internal/mail"
	"github.com/learnhubhq/learnhub-api/internal/media"
	"github.com/learnhubhq/learnhub-api/internal/payment"
	"github.com/learnhubhq/learnhub-api/internal/repository"
	"github.com/learnhubhq/learnhub-api/internal/usecase"
	"github.com/learnhubhq/learnhub-api/pkg/security"

	_ "github.com/lib/pq" // Postgres driver
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// 1. Load configuration from the environment, once.
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	// 2. Infrastructure.
	db, err := sql.Open("postgres", cfg.DBURL)
	if err != nil {
		logger.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
	defer rdb.Close()

	// 3. Collaborators.
	mailer, err := mail.NewSMTPMailer(mail.Config{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.MailFrom,
	})
	if err != nil {
		logger.Fatal("failed to initialize mailer", zap.Error(err))
	}
	mediaStorage := media.NewClient(cfg.MediaBaseURL, cfg.MediaAPIKey)
	gateway := payment.NewStripeGateway(cfg.StripeSecretKey)

	// 4. Repositories.
	userRepo := repository.NewPostgresUserRepo(db)
	layoutRepo := repository.NewPostgresLayoutRepo(db)
	courseRepo := repository.NewPostgresCourseRepo(db)
	orderRepo := repository.NewPostgresOrderRepo(db)
	userCache := repository.NewRedisUserCache(rdb)

	// 5. Core logic.
	codec := security.NewTokenCodec(security.TokenSecrets{
		Activation:  cfg.Secrets.Activation,
		Reset:       cfg.Secrets.Reset,
		ResetGrant:  cfg.Secrets.ResetGrant,
		EmailChange: cfg.Secrets.EmailChange,
		Access:      cfg.Secrets.Access,
		Refresh:     cfg.Secrets.Refresh,
	}, cfg.AccessTTL, cfg.RefreshTTL, cfg.ChallengeTTL)

	userUsecase := usecase.NewUserUsecase(userRepo, userCache, mailer, mediaStorage, codec)
	layoutUsecase := usecase.NewLayoutUsecase(layoutRepo, mediaStorage)
	courseUsecase := usecase.NewCourseUsecase(courseRepo, mediaStorage)
	orderUsecase := usecase.NewOrderUsecase(orderRepo, courseRepo, userRepo, userCache, mailer, gateway)

	sessions := delivery.NewSessionManager(codec)
	gate := delivery.NewGate(sessions, userUsecase)

	// 6. HTTP server.
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{getOrigin()},
		AllowCredentials: true,
	}))
	e.Use(middleware.Secure())

	v1 := e.Group("/api/v1")
	delivery.NewUserHandler(v1, userUsecase, sessions, gate)
	delivery.NewLayoutHandler(v1, layoutUsecase, gate)
	delivery.NewCourseHandler(v1, courseUsecase, gate)
	delivery.NewOrderHandler(v1, orderUsecase, cfg.StripePublishableKey, gate)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// 7. Start with graceful shutdown.
	go func() {
		logger.Info("starting LearnHub API", zap.String("port", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}

// getOrigin returns the allowed browser origin. Cookies are SameSite=None, so
// CORS has to name the frontend explicitly instead of using a wildcard.
func getOrigin() string {
	if origin := os.Getenv("FRONTEND_ORIGIN"); origin != "" {
		return origin
	}
	return "http://localhost:3000"
}
