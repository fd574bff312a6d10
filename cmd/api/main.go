package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/inkpost/inkpost-go/internal/config"
	"github.com/inkpost/inkpost-go/internal/handler"
	"github.com/inkpost/inkpost-go/internal/mailer"
	"github.com/inkpost/inkpost-go/internal/middleware"
	"github.com/inkpost/inkpost-go/internal/repository"
	"github.com/inkpost/inkpost-go/internal/service"
	"github.com/inkpost/inkpost-go/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	uploads, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		logger.Error("upload storage init failed", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	postRepo := repository.NewPostRepository(db)

	smtp := mailer.NewSMTPMailer(cfg.SMTP, logger)

	authService := service.NewAuthService(userRepo, sessionRepo, cfg.JWTSecret, cfg.JWTExpiry, cfg.SessionLifetime)
	resetService := service.NewResetService(userRepo, smtp, cfg.BaseURL, cfg.MailTimeout, logger)
	postService := service.NewPostService(postRepo, uploads, logger)

	authHandler := handler.NewAuthHandler(authService)
	resetHandler := handler.NewResetHandler(resetService)
	postHandler := handler.NewPostHandler(postService)

	go authService.SweepSessions(ctx, time.Hour, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/v1/p/{slug}", postHandler.HandleViewBySlug)
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploads.Dir()))))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAnonymous(authService, cfg.JWTSecret))
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/api/v1/auth/register", authHandler.HandleRegister)
		r.Post("/api/v1/auth/login", authHandler.HandleLogin)
		r.Post("/api/v1/auth/forgot-password", resetHandler.HandleForgotPassword)
		r.Post("/api/v1/auth/reset-password", resetHandler.HandleResetPassword)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(authService, cfg.JWTSecret))
		r.Post("/api/v1/auth/logout", authHandler.HandleLogout)
		r.Get("/api/v1/auth/me", authHandler.HandleMe)
		r.Post("/api/v1/auth/token", authHandler.HandleIssueToken)

		r.Get("/api/v1/posts", postHandler.HandleList)
		r.Post("/api/v1/posts", postHandler.HandleCreate)
		r.Get("/api/v1/posts/{post_id}", postHandler.HandleGet)
		r.Put("/api/v1/posts/{post_id}", postHandler.HandleUpdate)
		r.Delete("/api/v1/posts/{post_id}", postHandler.HandleDelete)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
