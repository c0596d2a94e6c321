package tickets

import (
	"ticketflow/internal/shared/middleware"
	"ticketflow/internal/users"

	"github.com/gin-gonic/gin"
)

func SetupTicketRoutes(rg *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	tickets := rg.Group("/tickets")
	tickets.Use(auth)
	{
		tickets.GET("", controller.ListMyTickets)                 // GET /api/v1/tickets
		tickets.GET("/:id", controller.GetTicket)                 // GET /api/v1/tickets/:id
		tickets.GET("/:id/qr", controller.GetTicketQR)            // GET /api/v1/tickets/:id/qr
		tickets.GET("/:id/document", controller.GetTicketDocument) // GET /api/v1/tickets/:id/document
	}

	// Providers see who bought tickets for their events
	eventTickets := rg.Group("/events")
	eventTickets.Use(auth, middleware.RequireRoles(users.RoleProvider, users.RoleAdmin))
	{
		eventTickets.GET("/:id/tickets", controller.ListEventTickets) // GET /api/v1/events/:id/tickets
	}
}
