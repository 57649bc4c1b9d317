// File: /routes/routes.go
package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"friends-api/cache"
	"friends-api/config"
	"friends-api/controllers"
	"friends-api/middleware"
	"friends-api/repositories"
	"friends-api/services"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, requestCache cache.RequestCache, notifier services.Notifier) {
	relationshipRepo := repositories.NewRelationshipRepository(db, cfg.InsecureFields)
	userRepo := repositories.NewUserRepository(db)

	friendService := services.NewFriendService(
		relationshipRepo,
		userRepo,
		requestCache,
		notifier,
		time.Duration(cfg.FriendAddTimeoutSeconds)*time.Second,
	)
	friendController := controllers.NewFriendController(friendService)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// API version 1
	v1 := r.Group("/api/v1")

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		friends := protected.Group("/friends")
		{
			friends.GET("", friendController.GetFriends)
			friends.GET("/requests", friendController.GetFriendRequests)
			friends.POST("/add", friendController.AddFriend)
			friends.POST("/accept", friendController.AcceptFriendRequest)
			friends.DELETE("/remove", friendController.RemoveFriend)
		}
	}
}
