package analytics

import (
	"ticketflow/internal/shared/middleware"
	"ticketflow/internal/users"

	"github.com/gin-gonic/gin"
)

func SetupAnalyticsRoutes(rg *gin.RouterGroup, controller Controller, auth gin.HandlerFunc) {
	analytics := rg.Group("/analytics")
	analytics.Use(auth)

	analytics.GET("/provider", middleware.RequireRoles(users.RoleProvider, users.RoleAdmin), controller.GetProviderDashboard)
	analytics.GET("/staff", middleware.RequireRoles(users.RoleStaff, users.RoleAdmin), controller.GetStaffDashboard)
	analytics.GET("/admin", middleware.RequireAdmin(), controller.GetAdminDashboard)
}
