package routes

import (
	"bugtracker-api/internal/handlers"
	"bugtracker-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers bundles the handler sets the router mounts.
type Handlers struct {
	Auth  *handlers.AuthHandler
	Users *handlers.UserHandler
	Tasks *handlers.TaskHandler
	WS    *handlers.WSHandler
}

func SetupRoutes(h Handlers) *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204) // This depends on the implementation of the frontend
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Bug tracker API is running in Health Check Endpoint",
		})
	})

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		// Login endpoint
		api.POST("/login", h.Auth.Login)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware())
	{
		// Derived views (registered before :id so the paths do not collide)
		protectedRoutes.GET("/tasks/overdue", h.Tasks.GetOverdue)
		protectedRoutes.GET("/tasks/pending", h.Tasks.GetPending)
		protectedRoutes.GET("/tasks/activity", h.Tasks.GetActivity)
		// Task endpoints
		protectedRoutes.GET("/tasks", h.Tasks.GetTasks)
		protectedRoutes.POST("/tasks", h.Tasks.CreateTask)
		protectedRoutes.PUT("/tasks/:id", h.Tasks.UpdateTask)
		protectedRoutes.DELETE("/tasks/:id", h.Tasks.DeleteTask)
		// Quick actions
		protectedRoutes.POST("/tasks/:id/close", h.Tasks.CloseTask)
		protectedRoutes.POST("/tasks/:id/approve", h.Tasks.ApproveTask)
		protectedRoutes.POST("/tasks/:id/reopen", h.Tasks.ReopenTask)
		protectedRoutes.POST("/tasks/:id/time", h.Tasks.LogTime)
		// Users endpoint
		protectedRoutes.GET("/users", h.Users.GetAllUsers)
		// Live snapshot feed
		protectedRoutes.GET("/ws", h.WS.Handle)
	}

	return ginRouter
}
