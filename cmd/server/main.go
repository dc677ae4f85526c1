package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-api/internal/config"
	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/database"
	"github.com/yukikurage/todo-api/internal/handlers"
	"github.com/yukikurage/todo-api/internal/middleware"
	"github.com/yukikurage/todo-api/internal/repository"
	"github.com/yukikurage/todo-api/internal/services"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)
	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg, log)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	taskRepo := repository.NewTaskRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	userRepo := repository.NewUserRepository(db)

	authService := services.NewAuthService(userRepo)
	accessService := services.NewAccessService(taskRepo)
	taskService := services.NewTaskService(taskRepo, categoryRepo, accessService)
	categoryService := services.NewCategoryService(categoryRepo)

	if cfg.AdminUsername != "" {
		created, err := authService.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
		log.Info("admin account ready", "username", cfg.AdminUsername, "created", created)
	}

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	} else {
		log.Info("OPENAI_API_KEY not set, task suggestions disabled")
	}

	store, err := newSessionStore(cfg)
	if err != nil {
		return err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	handlers.RegisterRoutes(r, handlers.Handlers{
		Health:   handlers.NewHealthHandler(db),
		Auth:     handlers.NewAuthHandler(authService),
		Category: handlers.NewCategoryHandler(categoryService),
		Task:     handlers.NewTaskHandler(taskService, aiService),
	}, middleware.RequireAuth(authService))

	srv := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           r,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", cfg.HTTPAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	switch cfg.SessionStore {
	case "redis":
		rs, err := redisStore.NewStore(
			10,                 // Redis pool size
			"tcp",              // network type
			cfg.RedisAddress(), // Redis address from config
			"",                 // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
		store = rs
	default:
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	isProduction := cfg.GinMode == gin.ReleaseMode
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}
