package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "taskboard/docs"
	"taskboard/internal/auth"
	"taskboard/internal/board"
	"taskboard/internal/config"
	"taskboard/internal/handler"
	"taskboard/internal/middleware"
	"taskboard/internal/repository"
	"taskboard/internal/store"
	"taskboard/internal/stream"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
	Config *config.Config

	hub         *stream.Hub
	unsubscribe []store.Unsubscribe
}

// Handlers groups what the router needs.
type Handlers struct {
	Auth   *handler.AuthHandler
	Board  *handler.BoardHandler
	Task   *handler.TaskHandler
	Tokens middleware.TokenParser
	Users  middleware.UserLookup
}

func Init(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	if err := repository.Migrate(cfg.MigrationURL()); err != nil {
		return nil, fmt.Errorf("❌ failed to migrate DB: %w", err)
	}
	db, err := repository.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Info("✅ Connected to database")

	rc := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rc.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("❌ failed to connect to redis: %w", err)
	}
	log.Info("✅ Connected to redis")

	policy, err := board.ParsePolicy(cfg.ReorderPolicy)
	if err != nil {
		return nil, &config.ConfigurationError{Err: err}
	}

	// Initialize repositories and the live store
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	adapter := store.New(taskRepo, userRepo, rc)

	engine := board.NewEngine()
	hub := stream.NewHub()
	engine.OnChange(func(snapshot board.Snapshot) {
		data, err := json.Marshal(snapshot)
		if err != nil {
			log.WithError(err).Error("failed to encode board snapshot")
			return
		}
		hub.Publish(data)
	})

	s := &Server{DB: db, Redis: rc, Config: cfg, hub: hub}

	// Users first so the first task delivery already has its columns.
	unsubUsers, err := adapter.SubscribeUsers(ctx, engine.OnUsersChanged)
	if err != nil {
		return nil, fmt.Errorf("❌ failed to subscribe to users: %w", err)
	}
	unsubTasks, err := adapter.SubscribeTasks(ctx, engine.OnTasksChanged)
	if err != nil {
		unsubUsers()
		return nil, fmt.Errorf("❌ failed to subscribe to tasks: %w", err)
	}
	s.unsubscribe = []store.Unsubscribe{unsubUsers, unsubTasks}
	log.WithField("policy", policy).Info("✅ Board feeds live")

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)
	provider := auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)

	// Initialize handlers
	s.Engine = NewRouter(Handlers{
		Auth:   handler.NewAuthHandler(provider, adapter, tokens, cfg.AllowedOrigins),
		Board:  handler.NewBoardHandler(engine, hub),
		Task:   handler.NewTaskHandler(board.NewService(adapter), board.NewCoordinator(adapter, engine, policy)),
		Tokens: tokens,
		Users:  adapter,
	})
	return s, nil
}

func NewRouter(h Handlers) *gin.Engine {
	r := gin.Default()

	// Public routes
	r.GET("/healthz", handler.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/auth/google/login", h.Auth.Login)
	r.GET("/auth/google/callback", h.Auth.Callback)

	// Protected routes - require a session
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(h.Tokens), middleware.SessionUser(h.Users))
	{
		authorized.GET("/me", h.Auth.Me)

		authorized.GET("/board", h.Board.Get)
		authorized.GET("/board/counts", h.Board.Counts)
		authorized.GET("/stream", h.Board.Stream)

		authorized.POST("/tasks", h.Task.Create)
		authorized.POST("/columns/:user_id/reorder", h.Task.Reorder)
	}
	return r
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}
	// Open streams never finish on their own.
	srv.RegisterOnShutdown(s.hub.Close)

	go func() {
		log.Infof("🚀 Server running on port %s", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warnf("⚠️ Server forced to shutdown: %s", err)
	}

	s.Close()
	log.Info("✅ Server exited properly")
}

// Close stops the feeds and releases connections.
func (s *Server) Close() {
	for _, unsubscribe := range s.unsubscribe {
		unsubscribe()
	}
	if err := s.Redis.Close(); err != nil {
		log.WithError(err).Warn("closing redis client")
	}
	if sqlDB, err := s.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
