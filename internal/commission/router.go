package commission

import (
	"ticketflow/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupCommissionRoutes(rg *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	admin := rg.Group("/admin")
	admin.Use(auth, middleware.RequireAdmin())
	{
		admin.GET("/commission-rate", controller.GetRate)
		admin.PUT("/commission-rate", controller.SetRate)
		admin.DELETE("/commission-rate", controller.ResetRate)
	}
}
