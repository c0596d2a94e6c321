package events

import (
	"ticketflow/internal/shared/middleware"
	"ticketflow/internal/users"

	"github.com/gin-gonic/gin"
)

func SetupEventRoutes(router *gin.RouterGroup, controller Controller, auth gin.HandlerFunc) {
	// Public routes - anyone can browse events
	publicEvents := router.Group("/events")
	{
		publicEvents.GET("", controller.ListEvents)  // GET /api/v1/events
		publicEvents.GET("/:id", controller.GetEvent) // GET /api/v1/events/:id
	}

	// Provider routes - providers manage their own events, admins manage all
	providerEvents := router.Group("/events")
	providerEvents.Use(auth, middleware.RequireRoles(users.RoleProvider, users.RoleAdmin))
	{
		providerEvents.GET("/mine", controller.ListMyEvents)  // GET /api/v1/events/mine
		providerEvents.POST("", controller.CreateEvent)       // POST /api/v1/events
		providerEvents.PUT("/:id", controller.UpdateEvent)    // PUT /api/v1/events/:id
		providerEvents.DELETE("/:id", controller.DeleteEvent) // DELETE /api/v1/events/:id
	}
}
