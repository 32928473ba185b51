// internal/handlers/user/user.go
package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"labadmin-service/internal/domain/user"
	xerrors "labadmin-service/internal/pkg/errors"
	"labadmin-service/internal/pkg/response"
	"labadmin-service/internal/middleware"
	service "labadmin-service/internal/service/user"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers serves the filtered administrative user list.
func (h *UserHandler) ListUsers(c *gin.Context) {
	var filters user.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid filters", err)
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), middleware.GetToken(c), &filters)
	if err != nil {
		response.Error(c, statusFor(err), "failed to list users", err)
		return
	}

	response.Success(c, http.StatusOK, "users retrieved successfully", users)
}

// GetDetail serves the normalized per-user detail, keyed by email.
func (h *UserHandler) GetDetail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		response.Error(c, http.StatusBadRequest, "email is required", xerrors.ErrMissingIdentifier)
		return
	}

	detail, err := h.userService.GetDetail(c.Request.Context(), middleware.GetToken(c), email)
	if err != nil {
		response.Error(c, statusFor(err), "failed to fetch user detail", err)
		return
	}

	response.Success(c, http.StatusOK, "user detail retrieved successfully", detail)
}

// DeleteUser removes a user by id.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID := c.Param("id")
	if err := h.userService.DeleteUser(c.Request.Context(), middleware.GetToken(c), userID); err != nil {
		response.Error(c, statusFor(err), "failed to delete user", err)
		return
	}

	response.Success(c, http.StatusOK, "user deleted successfully", nil)
}

// Catalog serves the full privilege catalog.
func (h *UserHandler) Catalog(c *gin.Context) {
	catalog, err := h.userService.Catalog(c.Request.Context(), middleware.GetToken(c))
	if err != nil {
		response.Error(c, statusFor(err), "failed to fetch privilege catalog", err)
		return
	}

	response.Success(c, http.StatusOK, "privilege catalog retrieved successfully", catalog)
}

// Available serves the privileges a target user could still be granted.
func (h *UserHandler) Available(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		response.Error(c, http.StatusBadRequest, "email is required", xerrors.ErrMissingIdentifier)
		return
	}

	available, err := h.userService.Available(c.Request.Context(), middleware.GetToken(c), email)
	if err != nil {
		response.Error(c, statusFor(err), "failed to compute available privileges", err)
		return
	}

	response.Success(c, http.StatusOK, "available privileges retrieved successfully", available)
}

// Roles serves the role list.
func (h *UserHandler) Roles(c *gin.Context) {
	roles, err := h.userService.Roles(c.Request.Context(), middleware.GetToken(c))
	if err != nil {
		response.Error(c, statusFor(err), "failed to fetch roles", err)
		return
	}

	response.Success(c, http.StatusOK, "roles retrieved successfully", roles)
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case xerrors.Is(err, xerrors.ErrMissingIdentifier),
		xerrors.Is(err, xerrors.ErrNoValidPrivilegesSelected),
		xerrors.Is(err, xerrors.ErrInvalidInput):
		return http.StatusBadRequest
	case xerrors.Is(err, xerrors.ErrIdentityUnresolved),
		xerrors.Is(err, xerrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case xerrors.Is(err, xerrors.ErrForbidden):
		return http.StatusForbidden
	case xerrors.Is(err, xerrors.ErrNotFound):
		return http.StatusNotFound
	case xerrors.Is(err, xerrors.ErrRateLimited):
		return http.StatusTooManyRequests
	case xerrors.Is(err, xerrors.ErrOperationTimedOut):
		return http.StatusGatewayTimeout
	case xerrors.Is(err, xerrors.ErrUpstreamStatus):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
