// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"labadmin-service/internal/cache"
	"labadmin-service/internal/config"
	"labadmin-service/internal/db"
	dashboardHandler "labadmin-service/internal/handlers/dashboard"
	flaggingHandler "labadmin-service/internal/handlers/flagging"
	profileHandler "labadmin-service/internal/handlers/profile"
	userHandler "labadmin-service/internal/handlers/user"
	"labadmin-service/internal/middleware"
	"labadmin-service/internal/pkg/jwt"
	"labadmin-service/internal/pkg/session"
	"labadmin-service/internal/repository/postgres"
	dashboardUsecase "labadmin-service/internal/service/dashboard"
	flaggingUsecase "labadmin-service/internal/service/flagging"
	profileUsecase "labadmin-service/internal/service/profile"
	userUsecase "labadmin-service/internal/service/user"
	"labadmin-service/internal/upstream"
	"labadmin-service/internal/websocket"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger

	httpServer *http.Server
	hubCancel  context.CancelFunc
}

func NewServer() *Server {
	cfg := config.Load()
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		// the service degrades to uncached operation without Redis
		logger.Warn("failed to connect to Redis, caching disabled", zap.Error(err))
		redisClient = nil
	}

	// ----- JWT Manager -----
	jwtManager, err := jwt.LoadAndBuild(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT manager: %w", err)
	}

	// ----- Session Manager, Cache & Rate Limiter -----
	sessionManager := session.NewManager(redisClient, s.cfg.SessionTTL)
	rateLimiter := session.NewRateLimiter(redisClient)
	appCache := cache.New(redisClient)

	// ----- Upstream Clients -----
	userUpstream := upstream.NewUserService(s.cfg.UserServiceURL, s.cfg.UpstreamTimeout, logger)
	labCoreUpstream := upstream.NewLabCore(s.cfg.LabCoreServiceURL, s.cfg.UpstreamTimeout, logger)

	// ----- Repositories -----
	flaggingRepo := postgres.NewFlaggingConfigRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(logger)
	hubCtx, hubCancel := context.WithCancel(context.Background())
	s.hubCancel = hubCancel
	go hub.Run(hubCtx)

	// ----- Services (Usecases) -----
	userService := userUsecase.NewUserService(
		userUpstream,
		appCache,
		auditRepo,
		rateLimiter,
		hub,
		logger,
		s.cfg.CatalogCacheTTL,
		s.cfg.ReconcileDeadline,
	)
	profileService := profileUsecase.NewProfileService(userUpstream, logger)
	dashboardService := dashboardUsecase.NewDashboardService(
		userUpstream,
		labCoreUpstream,
		appCache,
		logger,
		s.cfg.DashboardCacheTTL,
	)
	flaggingService := flaggingUsecase.NewFlaggingService(flaggingRepo, logger)

	// ----- Handlers -----
	userHandlerInst := userHandler.NewUserHandler(userService)
	profileHandlerInst := profileHandler.NewProfileHandler(profileService)
	dashboardHandlerInst := dashboardHandler.NewDashboardHandler(dashboardService)
	flaggingHandlerInst := flaggingHandler.NewFlaggingHandler(flaggingService)
	wsHandlerInst := websocket.NewHandler(hub, logger)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(sessionManager, jwtManager, logger)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.RequestID(),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		UserHandler:      userHandlerInst,
		ProfileHandler:   profileHandlerInst,
		DashboardHandler: dashboardHandlerInst,
		FlaggingHandler:  flaggingHandlerInst,
		WSHandler:        wsHandlerInst,
		AuthMiddleware:   authMiddleware,
	}
	SetupRouter(s.engine, logger, handlers)

	// ----- Start HTTP -----
	s.httpServer = &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}
	log.Printf("🚀 Server running on %s", s.cfg.HTTPAddr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the event hub.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.hubCancel != nil {
		s.hubCancel()
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
