// File: /main.go
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"friends-api/cache"
	"friends-api/config"
	"friends-api/database"
	"friends-api/middleware"
	"friends-api/routes"
	"friends-api/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("Failed to migrate database")
	}

	// Seed database with test data (optional - for development)
	if err := database.SeedData(db); err != nil {
		logrus.WithError(err).Warn("Failed to seed database")
	}

	// De-duplication cache: Redis when configured, in-memory otherwise
	var requestCache cache.RequestCache
	if cfg.RedisAddr != "" {
		requestCache = cache.NewRedisRequestCache(cfg.RedisAddr)
		logrus.WithField("addr", cfg.RedisAddr).Info("Using Redis request cache")
	} else {
		requestCache = cache.NewMemoryRequestCache()
		logrus.Info("Using in-memory request cache")
	}

	// Notification sink
	emailService := services.NewEmailService(cfg)
	defer emailService.Close()

	// Set Gin mode based on environment
	if cfg.Port == "8080" { // Development
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RateLimit(120, 20))

	// Setup routes
	routes.SetupRoutes(router, db, cfg, requestCache, emailService)

	// Drain the email queue on shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		emailService.Close()
		os.Exit(0)
	}()

	logrus.WithField("port", cfg.Port).Info("Starting Friends API server")

	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("Failed to start server")
	}
}
