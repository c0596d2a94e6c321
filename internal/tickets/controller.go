package tickets

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

// GetTicket handles GET /api/v1/tickets/:id
func (ctrl *Controller) GetTicket(c *gin.Context) {
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid ticket ID", nil, err.Error())
		return
	}

	ticket, err := ctrl.service.GetTicket(c.Request.Context(), caller, ticketID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c, http.StatusOK, "Ticket retrieved successfully", ticket)
}

// ListMyTickets handles GET /api/v1/tickets
func (ctrl *Controller) ListMyTickets(c *gin.Context) {
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	query, ok := ctrl.bindQuery(c)
	if !ok {
		return
	}

	page, err := ctrl.service.ListMyTickets(c.Request.Context(), caller, query)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c, http.StatusOK, "Tickets retrieved successfully", page)
}

// ListEventTickets handles GET /api/v1/events/:id/tickets
func (ctrl *Controller) ListEventTickets(c *gin.Context) {
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}
	query, ok := ctrl.bindQuery(c)
	if !ok {
		return
	}

	page, err := ctrl.service.ListEventTickets(c.Request.Context(), caller, eventID, query)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c, http.StatusOK, "Tickets retrieved successfully", page)
}

// GetTicketQR handles GET /api/v1/tickets/:id/qr
func (ctrl *Controller) GetTicketQR(c *gin.Context) {
	ctrl.sendFile(c, ctrl.service.TicketQRCode, "inline")
}

// GetTicketDocument handles GET /api/v1/tickets/:id/document
func (ctrl *Controller) GetTicketDocument(c *gin.Context) {
	ctrl.sendFile(c, ctrl.service.TicketDocument, "attachment")
}

type fileFunc func(ctx context.Context, caller users.Identity, id uuid.UUID) (*DocumentFile, error)

func (ctrl *Controller) sendFile(c *gin.Context, load fileFunc, disposition string) {
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid ticket ID", nil, err.Error())
		return
	}

	file, err := load(c.Request.Context(), caller, ticketID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	c.Header("Content-Disposition", disposition+`; filename="`+file.Filename+`"`)
	c.Header("Cache-Control", "private, no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

func (ctrl *Controller) bindQuery(c *gin.Context) (ListTicketsQuery, bool) {
	var query ListTicketsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondValidation(c, err)
		return query, false
	}
	if err := ctrl.validator.Struct(&query); err != nil {
		response.RespondValidation(c, err)
		return query, false
	}
	return query, true
}
