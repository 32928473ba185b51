// internal/handlers/dashboard/dashboard.go
package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"labadmin-service/internal/middleware"
	xerrors "labadmin-service/internal/pkg/errors"
	"labadmin-service/internal/pkg/response"
	service "labadmin-service/internal/service/dashboard"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// Summary serves the headline counters.
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context(), middleware.GetToken(c))
	if err != nil {
		response.Error(c, statusFor(err), "failed to build dashboard summary", err)
		return
	}

	response.Success(c, http.StatusOK, "dashboard summary retrieved successfully", summary)
}

// Charts serves every chart dataset in one response.
func (h *DashboardHandler) Charts(c *gin.Context) {
	charts, err := h.dashboardService.Charts(c.Request.Context(), middleware.GetToken(c))
	if err != nil {
		response.Error(c, statusFor(err), "failed to build dashboard charts", err)
		return
	}

	response.Success(c, http.StatusOK, "dashboard charts retrieved successfully", charts)
}

func statusFor(err error) int {
	switch {
	case xerrors.Is(err, xerrors.ErrOperationTimedOut):
		return http.StatusGatewayTimeout
	case xerrors.Is(err, xerrors.ErrUpstreamStatus):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
