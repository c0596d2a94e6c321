package bookings

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

// BookTicket handles POST /api/v1/events/:id/book
func (ctrl *Controller) BookTicket(c *gin.Context) {
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	// The body is optional
	var req BookTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondValidation(c, err)
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondValidation(c, err)
		return
	}

	booking, err := ctrl.service.Book(c.Request.Context(), caller, eventID, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c, http.StatusCreated, "Ticket booked successfully", booking)
}
