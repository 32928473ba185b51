// internal/handlers/flagging/flagging.go
package flagging

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"labadmin-service/internal/domain/flagging"
	xerrors "labadmin-service/internal/pkg/errors"
	"labadmin-service/internal/pkg/response"
	service "labadmin-service/internal/service/flagging"
)

type FlaggingHandler struct {
	flaggingService *service.FlaggingService
}

func NewFlaggingHandler(flaggingService *service.FlaggingService) *FlaggingHandler {
	return &FlaggingHandler{
		flaggingService: flaggingService,
	}
}

// AddConfigs creates a batch of flagging thresholds.
func (h *FlaggingHandler) AddConfigs(c *gin.Context) {
	var req flagging.AddConfigsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	views, err := h.flaggingService.AddConfigs(c.Request.Context(), &req)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, "invalid flagging config", err)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to create flagging configs", err)
		return
	}

	response.Success(c, http.StatusCreated, "flagging configs created successfully", views)
}

// ListConfigs serves every stored flagging threshold.
func (h *FlaggingHandler) ListConfigs(c *gin.Context) {
	views, err := h.flaggingService.ListConfigs(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list flagging configs", err)
		return
	}

	response.Success(c, http.StatusOK, "flagging configs retrieved successfully", views)
}
