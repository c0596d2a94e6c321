package invitations

import (
	"ticketflow/internal/shared/middleware"
	"ticketflow/internal/users"

	"github.com/gin-gonic/gin"
)

func SetupInvitationRoutes(rg *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	invitations := rg.Group("/invitations")
	invitations.Use(auth, middleware.RequireRoles(users.RoleProvider, users.RoleAdmin))
	{
		invitations.POST("", controller.CreateInvitation)                 // POST /api/v1/invitations
		invitations.GET("", controller.ListInvitations)                   // GET /api/v1/invitations
		invitations.GET("/:id", controller.GetInvitation)                 // GET /api/v1/invitations/:id
		invitations.GET("/:id/qr", controller.GetInvitationQR)            // GET /api/v1/invitations/:id/qr
		invitations.GET("/:id/document", controller.GetInvitationDocument) // GET /api/v1/invitations/:id/document
	}
}
