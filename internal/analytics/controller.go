package analytics

import (
	"net/http"

	"ticketflow/internal/shared/middleware"
	"ticketflow/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	GetProviderDashboard(c *gin.Context)
	GetStaffDashboard(c *gin.Context)
	GetAdminDashboard(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// GetProviderDashboard handles GET /api/v1/analytics/provider
func (ctrl *controller) GetProviderDashboard(c *gin.Context) {
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	dash, err := ctrl.service.ProviderDashboard(c.Request.Context(), caller)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c, http.StatusOK, "Provider dashboard retrieved successfully", dash)
}

// GetStaffDashboard handles GET /api/v1/analytics/staff
func (ctrl *controller) GetStaffDashboard(c *gin.Context) {
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	dash, err := ctrl.service.StaffDashboard(c.Request.Context(), caller)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c, http.StatusOK, "Staff dashboard retrieved successfully", dash)
}

// GetAdminDashboard handles GET /api/v1/analytics/admin
func (ctrl *controller) GetAdminDashboard(c *gin.Context) {
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	dash, err := ctrl.service.AdminDashboard(c.Request.Context(), caller)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c, http.StatusOK, "Admin dashboard retrieved successfully", dash)
}
