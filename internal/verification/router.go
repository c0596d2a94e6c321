package verification

import (
	"ticketflow/internal/shared/middleware"
	"ticketflow/internal/users"

	"github.com/gin-gonic/gin"
)

func SetupVerificationRoutes(rg *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	verify := rg.Group("/verify")
	verify.Use(auth, middleware.RequireRoles(users.RoleStaff, users.RoleAdmin))
	{
		verify.POST("/tickets", controller.VerifyTicket)         // POST /api/v1/verify/tickets
		verify.POST("/invitations", controller.VerifyInvitation) // POST /api/v1/verify/invitations
	}
}
