package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/anihub/anihub-api/internal/config"
	"github.com/anihub/anihub-api/internal/domain/anime"
	"github.com/anihub/anihub-api/internal/domain/auth"
	"github.com/anihub/anihub-api/internal/domain/feedback"
	"github.com/anihub/anihub-api/internal/domain/forum"
	"github.com/anihub/anihub-api/internal/domain/friendship"
	"github.com/anihub/anihub-api/internal/domain/home"
	"github.com/anihub/anihub-api/internal/domain/moderation"
	"github.com/anihub/anihub-api/internal/domain/notification"
	"github.com/anihub/anihub-api/internal/domain/review"
	"github.com/anihub/anihub-api/internal/domain/user"
	"github.com/anihub/anihub-api/internal/middleware"
	"github.com/anihub/anihub-api/internal/pkg/database"
	"github.com/anihub/anihub-api/internal/pkg/email"
	"github.com/anihub/anihub-api/internal/pkg/jwt"
	"github.com/anihub/anihub-api/internal/pkg/logger"
	pkgresponse "github.com/anihub/anihub-api/internal/pkg/response"
	"github.com/anihub/anihub-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.IsDevelopment())

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting AniHub API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	s3Storage, err := storage.NewS3Storage(storage.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create S3 storage")
	}

	mailer := email.NewClient(cfg.ResendAPIKey, cfg.FromEmail)

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	forumRepo := forum.NewRepository(db)
	reviewRepo := review.NewRepository(db)
	animeRepo := anime.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	moderationRepo := moderation.NewRepository(db)
	friendshipRepo := friendship.NewRepository(db)
	feedbackRepo := feedback.NewRepository(db)
	homeRepo := home.NewRepository(db)

	// ---------- Services ----------
	authService := auth.NewService(userRepo, jwtService)
	notificationService := notification.NewService(notificationRepo, redis)
	forumService := forum.NewService(forumRepo, notificationService)
	animeService := anime.NewService(animeRepo, notificationService)
	moderationService := moderation.NewService(
		moderationRepo, forumRepo, reviewRepo, userRepo, notificationService, mailer)
	friendshipService := friendship.NewService(friendshipRepo, userRepo)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userRepo, s3Storage)
	forumHandler := forum.NewHandler(forumService)
	reviewHandler := review.NewHandler(reviewRepo)
	animeHandler := anime.NewHandler(animeService)
	notificationHandler := notification.NewHandler(notificationService)
	moderationHandler := moderation.NewHandler(moderationService)
	friendshipHandler := friendship.NewHandler(friendshipService)
	feedbackHandler := feedback.NewHandler(feedbackRepo)
	homeHandler := home.NewHandler(homeRepo)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(chimw.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/anime", animeHandler.Routes(authMiddleware))
		r.Mount("/forum", forumHandler.Routes(authMiddleware))
		r.Mount("/notifications", notificationHandler.Routes(authMiddleware))
		r.Mount("/report", moderationHandler.ReportRoutes(authMiddleware))
		r.Mount("/admin", moderationHandler.AdminRoutes(authMiddleware))
		r.Mount("/feedback", feedbackHandler.Routes(authMiddleware))

		r.With(authMiddleware, middleware.RequireAdmin()).Get("/admin/dev-feedback", feedbackHandler.ListAll)

		r.Get("/home", homeHandler.Feed)
		r.Get("/news", moderationHandler.ListNews)

		r.Get("/anime/{id}/reviews", reviewHandler.ListByAnime)
		r.With(authMiddleware).Post("/anime/{id}/reviews", reviewHandler.Create)

		r.Get("/user/by-username/{username}", userHandler.GetByUsername)
		r.With(authMiddleware).Post("/profile/avatar", userHandler.UploadAvatar)

		// friend graph, messaging and user search live at the API root
		r.Mount("/", friendshipHandler.Routes(authMiddleware))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
