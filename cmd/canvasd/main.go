package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zombiedigital/internal/core/domain"
	"zombiedigital/internal/core/services"
	httphandlers "zombiedigital/internal/handlers/http"
	wshandlers "zombiedigital/internal/handlers/ws"
	"zombiedigital/internal/infrastructure/middleware"
	"zombiedigital/internal/infrastructure/monitoring"
	"zombiedigital/internal/infrastructure/repositories"
	"zombiedigital/internal/infrastructure/twitch"
	"zombiedigital/pkg/config"
	"zombiedigital/pkg/logger"
	"zombiedigital/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func canvasIDParam(c *gin.Context) domain.CanvasID {
	return domain.CanvasID(c.Param("id"))
}

func main() {
	startTime := time.Now()

	// Try multiple config paths
	configPaths := []string{
		"configs/config.yaml",
		"./configs/config.yaml",
		"/etc/zombiedigital/config.yaml",
		"config.yaml",
	}

	var cfg *config.Config
	var err error

	for _, path := range configPaths {
		cfg, err = config.Load(path)
		if err == nil {
			break
		}
	}

	if err != nil {
		// Fallback to defaults if config cannot be loaded
		cfg = config.DefaultConfig()
	}

	// Initialize logger
	zapLogger := logger.New(cfg.Logging.Level)
	defer zapLogger.Sync()

	log := zapLogger.Sugar()

	log.Infow("configuration loaded",
		"redis_enabled", cfg.Redis.Enabled,
		"twitch_client_id", utils.MaskSensitive(cfg.Twitch.ClientID, 4),
	)

	// Initialize repository factory
	repoFactory, err := repositories.NewRepositoryFactory(cfg, log)
	if err != nil {
		log.Fatalw("failed to create repository factory", "error", err)
	}
	defer repoFactory.Close()

	// Initialize repositories
	canvasRepo := repoFactory.CreateCanvasRepository()
	mediaRepo := repoFactory.CreateMediaObjectRepository()
	allowedRepo := repoFactory.CreateAllowedUserRepository()
	modCacheRepo := repoFactory.CreateModCacheRepository()
	changeFeed := repoFactory.CreateChangeFeed()

	// Initialize Twitch Helix client for live moderator verification
	twitchClient := twitch.NewClient(twitch.Config{
		ClientID:       cfg.Twitch.ClientID,
		ClientSecret:   cfg.Twitch.ClientSecret,
		APIBaseURL:     cfg.Twitch.APIBaseURL,
		AuthBaseURL:    cfg.Twitch.AuthBaseURL,
		RequestTimeout: cfg.Twitch.RequestTimeout,
	}, log)

	// Initialize monitoring
	prometheusCollector := monitoring.NewPrometheusCollector()

	healthChecker := monitoring.NewHealthChecker()
	healthChecker.AddRepositoryCheck(canvasRepo, 30*time.Second, 2*time.Second)
	if redisClient := repoFactory.RedisClient(); redisClient != nil {
		healthChecker.AddRedisCheck(redisClient, 30*time.Second, 2*time.Second)
	}

	// Initialize services
	moderationService := services.NewModerationService(modCacheRepo, twitchClient, cfg.Twitch.ModCacheTTL, prometheusCollector, log)
	accessService := services.NewAccessService(canvasRepo, allowedRepo, moderationService, prometheusCollector, log)
	canvasService := services.NewCanvasService(canvasRepo, mediaRepo, allowedRepo, changeFeed, prometheusCollector, log)
	if cfg.Canvas.CacheTTL > 0 {
		canvasService = services.NewCachedCanvasService(canvasService, cfg.Canvas.CacheTTL)
	}
	authService := services.NewAuthService(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)

	// Initialize handlers
	authHandler := httphandlers.NewAuthHandler(authService, cfg.Auth.AccessTokenTTL)
	canvasHandler := httphandlers.NewCanvasHandler(canvasService)
	accessHandler := httphandlers.NewAccessHandler(accessService)
	relayHandler := httphandlers.NewRelayHandler(changeFeed, prometheusCollector, cfg.Relay.HeartbeatInterval, log)

	wsRelay := wshandlers.NewRelayServer(changeFeed, prometheusCollector, log)
	wsRelay.SetPingInterval(cfg.Relay.PingInterval)
	wsRelay.SetPongTimeout(cfg.Relay.PongTimeout)

	// Configure Gin
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.ErrorHandlerMiddleware(log))
	router.Use(middleware.TracingMiddleware())
	router.Use(middleware.RequestLogMiddleware(logger.NewContextLogger(log)))

	// Global HTTP rate limiting (if enabled)
	router.Use(middleware.NewHTTPRateLimitMiddleware(cfg))

	// Setup auth routes (public)
	authHandler.SetupRoutes(router)

	// Canvas API. Writes require authentication; reads and the relay go
	// through the access resolver, which denies anonymous callers on private
	// canvases by itself.
	api := router.Group("/api/v1")
	{
		authed := api.Group("")
		authed.Use(middleware.AuthMiddleware(authService))
		{
			authed.POST("/canvases", canvasHandler.CreateCanvas)
			authed.GET("/canvases", canvasHandler.ListCanvases)
		}

		canvases := api.Group("/canvases/:id")
		canvases.Use(middleware.OptionalAuthMiddleware(authService))
		{
			canvases.GET("/access", accessHandler.GetAccess)

			guarded := canvases.Group("")
			guarded.Use(middleware.CanvasAccessMiddleware(accessService))
			{
				guarded.GET("", canvasHandler.GetCanvas)
				guarded.GET("/media", canvasHandler.ListMedia)

				streaming := guarded.Group("")
				streaming.Use(middleware.NewStreamRateLimitMiddleware(cfg))
				{
					streaming.GET("/events", relayHandler.StreamEvents)
					streaming.GET("/ws", func(c *gin.Context) {
						wsRelay.HandleCanvasFeed(c.Writer, c.Request, canvasIDParam(c))
					})
				}

				editing := guarded.Group("")
				editing.Use(middleware.CanvasEditMiddleware())
				{
					editing.POST("/media", canvasHandler.AddMedia)
					editing.PATCH("/media/:mediaId", canvasHandler.UpdateMedia)
					editing.DELETE("/media/:mediaId", canvasHandler.RemoveMedia)
				}

				owner := guarded.Group("")
				owner.Use(middleware.CanvasOwnerMiddleware())
				{
					owner.PATCH("", canvasHandler.UpdateSettings)
					owner.DELETE("", canvasHandler.DeleteCanvas)
					owner.POST("/allowed", canvasHandler.GrantAccess)
					owner.GET("/allowed", canvasHandler.ListAllowedUsers)
					owner.DELETE("/allowed/:userId", canvasHandler.RevokeAccess)
				}
			}
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		status := healthChecker.CheckAll(c.Request.Context())
		code := 200
		if status.Status != "healthy" {
			code = 503
		}
		c.JSON(code, gin.H{
			"status":    status.Status,
			"timestamp": status.Timestamp,
			"uptime":    time.Since(startTime).String(),
			"checks":    status.Checks,
		})
	})

	// Readiness endpoint
	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := repoFactory.HealthCheck(ctx); err != nil || !healthChecker.IsReady(ctx) {
			resp := gin.H{
				"status":       "not_ready",
				"timestamp":    time.Now(),
				"dependencies": "unhealthy",
			}
			if err != nil {
				resp["error"] = err.Error()
			}
			c.JSON(503, resp)
			return
		}

		c.JSON(200, gin.H{
			"status":       "ready",
			"timestamp":    time.Now(),
			"dependencies": "ok",
		})
	})

	// Prometheus metrics endpoint
	if cfg.Monitoring.PrometheusEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
		log.Info("Prometheus metrics enabled")
	}

	// Create HTTP server with timeouts
	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Starting canvas server on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for shutdown signals or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatalw("Server failed", "error", err)
	case sig := <-sigChan:
		log.Infow("Received shutdown signal", "signal", sig)
	}

	log.Info("Shutting down canvas server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Shutdown HTTP server gracefully
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Error during server shutdown", "error", err)
		// Force close if graceful shutdown fails
		if closeErr := srv.Close(); closeErr != nil {
			log.Errorw("Error force closing server", "error", closeErr)
		}
	} else {
		log.Info("Server shutdown gracefully")
	}

	// Close repository factory
	if err := repoFactory.Close(); err != nil {
		log.Errorw("Error closing repository factory", "error", err)
	}

	log.Info("Canvas server stopped")
}
