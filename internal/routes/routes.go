package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/handlers"
	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/middleware"
)

func SetupRoutes(r *gin.Engine, groupHandler *handlers.GroupHandler, messageHandler *handlers.MessageHandler) {
	// API v1
	v1 := r.Group("/api/v1")

	// Group routes
	groups := v1.Group("/groups")
	groups.Use(middleware.AuthRequired())
	{
		groups.POST("", groupHandler.CreateGroup)
		groups.POST("/join", groupHandler.JoinGroup)
		groups.GET("", groupHandler.GetUserGroups)
		groups.GET("/:id", groupHandler.GetGroupDetails)
		groups.POST("/:id/leave", groupHandler.LeaveGroup)
		groups.POST("/:id/remove-member", groupHandler.RemoveMember)
		groups.GET("/:id/messages", messageHandler.GetGroupMessages)
		groups.POST("/:id/messages", messageHandler.CreateGroupMessage)
	}

	// Public group routes (no auth required for invite preview)
	publicGroups := v1.Group("/public-groups")
	{
		publicGroups.GET("/invite/:code", groupHandler.GetGroupByInviteCode)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
