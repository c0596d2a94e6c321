package bookings

import (
	"ticketflow/internal/shared/middleware"
	"ticketflow/internal/users"

	"github.com/gin-gonic/gin"
)

func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	booking := rg.Group("/events")
	booking.Use(auth, middleware.RequireRoles(users.RoleCustomer, users.RoleAdmin))
	{
		booking.POST("/:id/book", controller.BookTicket) // POST /api/v1/events/:id/book
	}
}
