package cancellation

import (
	"errors"
	"io"
	"net/http"

	"ticketflow/internal/shared/middleware"
	"ticketflow/internal/shared/utils/response"

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

// CancelTicket handles POST /api/v1/tickets/:id/cancel
func (ctrl *Controller) CancelTicket(c *gin.Context) {
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid ticket ID", nil, err.Error())
		return
	}

	var req CancelTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondValidation(c, err)
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondValidation(c, err)
		return
	}

	result, err := ctrl.service.CancelTicket(c.Request.Context(), caller, ticketID, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c, http.StatusOK, "Ticket cancelled successfully", result)
}

// GetUserCancellations handles GET /api/v1/cancellations
func (ctrl *Controller) GetUserCancellations(c *gin.Context) {
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}

	list, err := ctrl.service.GetUserCancellations(c.Request.Context(), caller)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c, http.StatusOK, "Cancellations retrieved successfully", list)
}
