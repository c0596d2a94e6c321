package invitations

import (
	"context"
	"net/http"

	"ticketflow/internal/shared/middleware"
	"ticketflow/internal/shared/utils/response"
	"ticketflow/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{service: service, validator: validator.New()}
}

// CreateInvitation handles POST /api/v1/invitations
func (ctrl *Controller) CreateInvitation(c *gin.Context) {
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}

	var req CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidation(c, err)
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondValidation(c, err)
		return
	}

	inv, err := ctrl.service.CreateInvitation(c.Request.Context(), caller, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c, http.StatusCreated, "Invitation created successfully", inv)
}

// ListInvitations handles GET /api/v1/invitations
func (ctrl *Controller) ListInvitations(c *gin.Context) {
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}

	var query ListInvitationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondValidation(c, err)
		return
	}
	if err := ctrl.validator.Struct(&query); err != nil {
		response.RespondValidation(c, err)
		return
	}

	page, err := ctrl.service.ListInvitations(c.Request.Context(), caller, query)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c, http.StatusOK, "Invitations retrieved successfully", page)
}

// GetInvitation handles GET /api/v1/invitations/:id
func (ctrl *Controller) GetInvitation(c *gin.Context) {
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid invitation ID", nil, err.Error())
		return
	}

	inv, err := ctrl.service.GetInvitation(c.Request.Context(), caller, id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c, http.StatusOK, "Invitation retrieved successfully", inv)
}

// GetInvitationQR handles GET /api/v1/invitations/:id/qr
func (ctrl *Controller) GetInvitationQR(c *gin.Context) {
	ctrl.sendFile(c, ctrl.service.InvitationQRCode, "inline")
}

// GetInvitationDocument handles GET /api/v1/invitations/:id/document
func (ctrl *Controller) GetInvitationDocument(c *gin.Context) {
	ctrl.sendFile(c, ctrl.service.InvitationDocument, "attachment")
}

func (ctrl *Controller) sendFile(c *gin.Context, load func(context.Context, users.Identity, uuid.UUID) (*File, error), disposition string) {
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid invitation ID", nil, err.Error())
		return
	}

	file, err := load(c.Request.Context(), caller, id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	c.Header("Content-Disposition", disposition+`; filename="`+file.Filename+`"`)
	c.Header("Cache-Control", "private, no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
