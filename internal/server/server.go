package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"backend/internal/auth"
	"backend/internal/config"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	cfg    *config.Config
	logger *zap.Logger
}

func NewServer(db *sqlx.DB, cfg *config.Config, logger *zap.Logger) *Server {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	s := &Server{
		router: router,
		db:     db,
		cfg:    cfg,
		logger: logger,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	corsConfig := cors.DefaultConfig()
	if len(s.cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = s.cfg.CORS.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	s.router.Use(cors.New(corsConfig))

	tokens := auth.NewTokenService(s.cfg.Auth.JWTSecret, s.cfg.TokenTTL())

	userRepo := repository.NewUserRepository(s.db, s.logger)
	taskRepo := repository.NewTaskRepository(s.db, s.logger)

	authService := service.NewAuthService(userRepo, tokens, s.logger)
	taskService := service.NewTaskService(taskRepo, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	taskHandler := handler.NewTaskHandler(taskService, s.logger)
	dashboardHandler := handler.NewDashboardHandler(taskService, s.logger)

	// Health check also reports whether the database answers.
	s.router.GET("/api/health", func(c *gin.Context) {
		database := "connected"
		if err := s.db.Ping(); err != nil {
			database = "disconnected"
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": database})
	})

	// Authentication routes
	authGroup := s.router.Group("/api/auth")
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/login", authHandler.Login)

	// Authenticated routes
	authRequired := s.router.Group("/api")
	authRequired.Use(middleware.AuthMiddleware(tokens, s.logger))
	{
		authRequired.GET("/auth/me", authHandler.Me)
		authRequired.GET("/tasks", taskHandler.List)
		authRequired.POST("/tasks", taskHandler.Create)
		authRequired.PUT("/tasks/:id", taskHandler.Update)
		authRequired.DELETE("/tasks/:id", taskHandler.Delete)
		authRequired.GET("/dashboard-stats", dashboardHandler.Stats)
	}
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
