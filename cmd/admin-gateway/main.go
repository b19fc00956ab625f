package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"givehope/admin-portal/admin-gateway/internal/config"
	"givehope/admin-portal/admin-gateway/internal/funds"
	"givehope/admin-portal/admin-gateway/internal/notifications/websocket"
	"givehope/admin-portal/admin-gateway/internal/platform"
	"givehope/admin-portal/admin-gateway/internal/review"
)

func main() {
	// Environment variables from .env override config.json defaults
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		cfg, _ = config.LoadConfig("")
	}

	// Initialize logger
	logger := buildLogger(cfg.Logging.Level)
	defer logger.Sync()

	// Upstream platform client
	client := platform.NewClient(cfg.Platform.BaseURL,
		platform.WithAuthToken(cfg.Platform.AuthToken),
	)

	// Notification transport
	wsManager := websocket.NewManager(logger)

	// Verification review module
	reviewHandler := review.NewHandler(client, wsManager.Publish, logger)

	// Fund tracking module
	fundsService := funds.NewService(client, logger)
	fundsHandler := funds.NewHandler(fundsService, logger)
	refresher := funds.NewRefresher(fundsService, cfg.Funds.RefreshSchedule, logger)
	if err := refresher.Start(); err != nil {
		logger.Fatal("Failed to start fund overview refresher", zap.Error(err))
	}
	defer refresher.Stop()

	// Setup Router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// CORS Middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Review-Session")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Register Routes
	api := router.Group("/api/v1")
	{
		reviewHandler.RegisterRoutes(api)
		fundsHandler.RegisterRoutes(api)
	}

	// Toast stream, one socket per review session
	router.GET("/ws/notifications", func(c *gin.Context) {
		sessionID := c.Query("session")
		if sessionID == "" || !reviewHandler.HasSession(sessionID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown review session"})
			return
		}
		if err := wsManager.HandleConnection(c.Writer, c.Request, sessionID); err != nil {
			logger.Error("websocket upgrade failed", zap.Error(err))
		}
	})

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	// Start Server
	srv := &http.Server{
		Addr:    cfg.Server.GetServerAddr(),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen: %s\n", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.String("addr", cfg.Server.GetServerAddr()),
		zap.String("platform", cfg.Platform.BaseURL),
	)

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", zap.Error(err))
	}

	logger.Info("Server exiting")
}

func buildLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := zapCfg.Build()
	if err != nil {
		logger, _ = zap.NewDevelopment()
	}
	return logger
}
