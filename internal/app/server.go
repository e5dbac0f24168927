// File: internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"startupteam_backend/internal/application"
	"startupteam_backend/internal/auth"
	"startupteam_backend/internal/common"
	"startupteam_backend/internal/config"
	"startupteam_backend/internal/dashboard"
	"startupteam_backend/internal/domain"
	"startupteam_backend/internal/filestorage"
	"startupteam_backend/internal/jobs"
	"startupteam_backend/internal/middleware"
	"startupteam_backend/internal/notification"
	"startupteam_backend/internal/profile"
	"startupteam_backend/internal/role"
	"startupteam_backend/internal/shared"
	"startupteam_backend/internal/startup"
	"startupteam_backend/internal/user"
)

// Handlers groups every HTTP handler the server mounts.
type Handlers struct {
	User         *user.Handler
	Auth         *auth.Handler
	Profile      *profile.Handler
	Startup      *startup.Handler
	Role         *role.Handler
	Application  *application.Handler
	Dashboard    *dashboard.Handler
	Notification *notification.Handler
	Upload       *filestorage.Handler
}

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger
	purgeJob   *jobs.CredentialPurgeJob
}

// NewServer builds the router with every route mounted under /api/v1.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	handlers Handlers,
	tokenService shared.TokenService,
	users middleware.UserLookup,
	purgeJob *jobs.CredentialPurgeJob,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := common.RegisterValidators(v, cfg.DefaultPhoneRegion); err != nil {
			return nil, err
		}
	} else {
		return nil, errors.New("gin validator engine is not go-playground/validator")
	}

	router := gin.New()
	router.Use(middleware.ZapLogger(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	if len(corsConfig.AllowOrigins) == 0 {
		logger.Warn("CORS_ALLOWED_ORIGINS is empty, allowing FRONTEND_URL only", zap.String("frontend_url", cfg.FrontendURL))
		corsConfig.AllowOrigins = []string{cfg.FrontendURL}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	authMW := middleware.AuthMiddleware(tokenService, users, logger.Named("AuthMiddleware"))
	founderMW := middleware.RoleAuthMiddleware(domain.RoleFounder)
	memberMW := middleware.RoleAuthMiddleware(domain.RoleMember)
	rateLimitMW := middleware.NewRateLimiter(cfg.AuthRateLimitPerMinute).Handler()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "StartupTeam API is healthy!"})
	})
	if cfg.ImageStorageDriver == config.StorageDriverLocal {
		router.Static("/uploads", cfg.LocalStoragePath)
	}

	v1 := router.Group("/api/v1")

	handlers.Auth.RegisterRoutes(v1, rateLimitMW)
	handlers.User.RegisterRoutes(v1, authMW, rateLimitMW)
	handlers.Profile.RegisterRoutes(v1, authMW, founderMW, memberMW)
	handlers.Upload.RegisterRoutes(v1, authMW, founderMW)
	handlers.Notification.RegisterRoutes(v1.Group("/notifications", authMW))

	founder := v1.Group("/founder", authMW, founderMW)
	handlers.Startup.RegisterFounderRoutes(founder)
	handlers.Role.RegisterRoutes(founder)
	handlers.Application.RegisterFounderRoutes(founder)
	handlers.Dashboard.RegisterFounderRoutes(founder)

	member := v1.Group("/member", authMW, memberMW)
	handlers.Startup.RegisterMemberRoutes(member)
	handlers.Application.RegisterMemberRoutes(member)
	handlers.Dashboard.RegisterMemberRoutes(member)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		cfg:        cfg,
		logger:     logger,
		purgeJob:   purgeJob,
	}, nil
}

// Router exposes the engine for in-process HTTP tests.
func (s *Server) Router() *gin.Engine { return s.router }

// Start runs the scheduled jobs and blocks serving HTTP until Shutdown.
func (s *Server) Start() error {
	if s.purgeJob != nil {
		if err := s.purgeJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to start credential purge job", zap.Error(err))
		}
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.purgeJob != nil {
		s.purgeJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
