package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/authgate/authgate-go/internal/captcha"
	"github.com/authgate/authgate-go/internal/config"
	"github.com/authgate/authgate-go/internal/handler"
	"github.com/authgate/authgate-go/internal/mailer"
	"github.com/authgate/authgate-go/internal/middleware"
	"github.com/authgate/authgate-go/internal/repository"
	"github.com/authgate/authgate-go/internal/service"
	"github.com/authgate/authgate-go/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := repository.AutoMigrate(db); err != nil {
		slog.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	sessions := session.NewManager(sessionRepo, session.Config{
		Secret:           cfg.SessionSecret,
		TTL:              cfg.SessionTTL,
		SecureCookie:     cfg.IsProduction(),
		StrictRevocation: cfg.StrictRevocation,
	})

	var captchaClient *captcha.Client
	if cfg.RecaptchaSecret != "" {
		captchaClient = captcha.New(cfg.RecaptchaSecret)
	} else {
		slog.Warn("no RECAPTCHA_SECRET_KEY set — captcha verification disabled")
	}

	notifier := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	if notifier == nil {
		slog.Warn("no SMTP_HOST set — login notifications disabled")
	}

	authService := service.NewAuthService(userRepo, sessionRepo, captchaClient)
	authHandler := handler.NewAuthHandler(authService, sessions, notifier)

	r := chi.NewRouter()
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.AccessGate(sessions))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/", handler.Page("Home"))
	r.Get("/login", handler.Page("Login"))
	r.Get("/signup", handler.Page("Sign up"))
	r.Get("/reset-password", handler.Page("Reset password"))
	r.Get("/dashboard", handler.Page("Dashboard"))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/api/signup", authHandler.HandleSignup)
		r.Post("/api/login", authHandler.HandleLogin)
		r.Post("/api/reset-password", authHandler.HandleResetPassword)
	})

	r.Post("/api/logout", authHandler.HandleLogout)
	r.Get("/api/session", authHandler.HandleSession)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
