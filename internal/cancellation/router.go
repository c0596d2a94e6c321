package cancellation

import (
	"github.com/gin-gonic/gin"
)

func SetupCancellationRoutes(rg *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	tickets := rg.Group("/tickets")
	tickets.Use(auth)
	{
		tickets.POST("/:id/cancel", controller.CancelTicket) // POST /api/v1/tickets/:id/cancel
	}

	cancellations := rg.Group("/cancellations")
	cancellations.Use(auth)
	{
		cancellations.GET("", controller.GetUserCancellations) // GET /api/v1/cancellations
	}
}
