// internal/handlers/profile/profile.go
package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"labadmin-service/internal/domain/user"
	"labadmin-service/internal/middleware"
	xerrors "labadmin-service/internal/pkg/errors"
	"labadmin-service/internal/pkg/response"
	service "labadmin-service/internal/service/profile"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// GetProfile serves the viewer's own profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileService.GetProfile(
		c.Request.Context(), middleware.GetToken(c), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, statusFor(err), "failed to fetch profile", err)
		return
	}

	response.Success(c, http.StatusOK, "profile retrieved successfully", profile)
}

// UpdateProfile patches the viewer's profile with the changed fields only.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req user.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	profile, err := h.profileService.UpdateProfile(
		c.Request.Context(), middleware.GetToken(c), middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, statusFor(err), "failed to update profile", err)
		return
	}

	response.Success(c, http.StatusOK, "profile updated successfully", profile)
}

func statusFor(err error) int {
	switch {
	case xerrors.Is(err, xerrors.ErrInvalidInput),
		xerrors.Is(err, xerrors.ErrMissingIdentifier):
		return http.StatusBadRequest
	case xerrors.Is(err, xerrors.ErrIdentityUnresolved):
		return http.StatusUnauthorized
	case xerrors.Is(err, xerrors.ErrNotFound):
		return http.StatusNotFound
	case xerrors.Is(err, xerrors.ErrOperationTimedOut):
		return http.StatusGatewayTimeout
	case xerrors.Is(err, xerrors.ErrUpstreamStatus):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
