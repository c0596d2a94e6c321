package commission

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

// GetRate handles GET /api/v1/admin/commission-rate
func (ctrl *Controller) GetRate(c *gin.Context) {
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	rate, err := ctrl.service.GetRate(c.Request.Context(), caller)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c, http.StatusOK, "Commission rate retrieved successfully", rate)
}

// SetRate handles PUT /api/v1/admin/commission-rate
func (ctrl *Controller) SetRate(c *gin.Context) {
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	var req SetRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidation(c, err)
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondValidation(c, err)
		return
	}

	rate, err := ctrl.service.SetRate(c.Request.Context(), caller, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c, http.StatusOK, "Commission rate updated successfully", rate)
}

// ResetRate handles DELETE /api/v1/admin/commission-rate
func (ctrl *Controller) ResetRate(c *gin.Context) {
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	rate, err := ctrl.service.ResetRate(c.Request.Context(), caller)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c, http.StatusOK, "Commission rate reset successfully", rate)
}
