package verification

import (
	"net/http"

	"ticketflow/internal/shared/middleware"
	"ticketflow/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{service: service, validator: validator.New()}
}

// VerifyTicket handles POST /api/v1/verify/tickets
func (ctrl *Controller) VerifyTicket(c *gin.Context) {
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}

	var req VerifyTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidation(c, err)
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondValidation(c, err)
		return
	}

	result, err := ctrl.service.VerifyTicket(c.Request.Context(), caller, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c, http.StatusOK, result.Message, result)
}

// VerifyInvitation handles POST /api/v1/verify/invitations
func (ctrl *Controller) VerifyInvitation(c *gin.Context) {
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}

	var req VerifyInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidation(c, err)
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondValidation(c, err)
		return
	}

	result, err := ctrl.service.VerifyInvitation(c.Request.Context(), caller, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c, http.StatusOK, result.Message, result)
}
