// internal/handlers/user/privileges.go
package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"labadmin-service/internal/domain/user"
	"labadmin-service/internal/middleware"
	xerrors "labadmin-service/internal/pkg/errors"
	"labadmin-service/internal/pkg/response"
)

// AddPrivileges grants privileges to a target user and reports the reconciled
// detail.
func (h *UserHandler) AddPrivileges(c *gin.Context) {
	var req user.UpdatePrivilegesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	outcome, err := h.userService.AddPrivileges(
		c.Request.Context(), middleware.GetToken(c), middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, statusFor(err), "failed to add privileges", err)
		return
	}

	response.Success(c, http.StatusOK, "privileges updated successfully", outcome)
}

// ResetPrivileges clears a target's added privileges. Destructive, so an
// explicit confirm=true query param is required.
func (h *UserHandler) ResetPrivileges(c *gin.Context) {
	if c.Query("confirm") != "true" {
		response.Error(c, http.StatusBadRequest, "reset requires confirm=true", xerrors.ErrInvalidInput)
		return
	}

	var req user.ResetPrivilegesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	outcome, err := h.userService.ResetPrivileges(
		c.Request.Context(), middleware.GetToken(c), middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, statusFor(err), "failed to reset privileges", err)
		return
	}

	response.Success(c, http.StatusOK, "privileges reset successfully", outcome)
}

// MutationHistory serves the recent privilege mutation audit trail for one
// target user.
func (h *UserHandler) MutationHistory(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		response.Error(c, http.StatusBadRequest, "email is required", xerrors.ErrMissingIdentifier)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	history, err := h.userService.MutationHistory(c.Request.Context(), email, limit)
	if err != nil {
		response.Error(c, statusFor(err), "failed to fetch mutation history", err)
		return
	}

	response.Success(c, http.StatusOK, "mutation history retrieved successfully", history)
}
