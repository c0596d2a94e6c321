package events

import (
	"net/http"

	"ticketflow/internal/shared/middleware"
	"ticketflow/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller interface {
	CreateEvent(c *gin.Context)
	GetEvent(c *gin.Context)
	ListEvents(c *gin.Context)
	ListMyEvents(c *gin.Context)
	UpdateEvent(c *gin.Context)
	DeleteEvent(c *gin.Context)
}

type controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) Controller {
	return &controller{service: service, validator: validator.New()}
}

// CreateEvent handles POST /api/v1/events
func (ctrl *controller) CreateEvent(c *gin.Context) {
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidation(c, err)
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondValidation(c, err)
		return
	}

	event, err := ctrl.service.CreateEvent(c.Request.Context(), caller, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondSuccess(c, http.StatusCreated, "Event created successfully", event)
}

// GetEvent handles GET /api/v1/events/:id
func (ctrl *controller) GetEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	event, err := ctrl.service.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondSuccess(c, http.StatusOK, "Event retrieved successfully", event)
}

// ListEvents handles GET /api/v1/events
func (ctrl *controller) ListEvents(c *gin.Context) {
	var query EventListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondValidation(c, err)
		return
	}
	if err := ctrl.validator.Struct(&query); err != nil {
		response.RespondValidation(c, err)
		return
	}

	page, err := ctrl.service.ListEvents(c.Request.Context(), query)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondSuccess(c, http.StatusOK, "Events retrieved successfully", page)
}

// ListMyEvents handles GET /api/v1/events/mine
func (ctrl *controller) ListMyEvents(c *gin.Context) {
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}

	var query EventListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondValidation(c, err)
		return
	}
	if err := ctrl.validator.Struct(&query); err != nil {
		response.RespondValidation(c, err)
		return
	}

	page, err := ctrl.service.ListProviderEvents(c.Request.Context(), caller, query)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondSuccess(c, http.StatusOK, "Events retrieved successfully", page)
}

// UpdateEvent handles PUT /api/v1/events/:id
func (ctrl *controller) UpdateEvent(c *gin.Context) {
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidation(c, err)
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondValidation(c, err)
		return
	}

	event, err := ctrl.service.UpdateEvent(c.Request.Context(), caller, eventID, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondSuccess(c, http.StatusOK, "Event updated successfully", event)
}

// DeleteEvent handles DELETE /api/v1/events/:id
func (ctrl *controller) DeleteEvent(c *gin.Context) {
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	result, err := ctrl.service.DeleteEvent(c.Request.Context(), caller, eventID)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondSuccess(c, http.StatusOK, "Event deleted successfully", result)
}
