package profile

import (
	"context"

	"go.uber.org/zap"

	"labadmin-service/internal/domain/user"
	xerrors "labadmin-service/internal/pkg/errors"
	"labadmin-service/internal/upstream"
)

type ProfileService struct {
	users  *upstream.UserService
	logger *zap.Logger
}

func NewProfileService(users *upstream.UserService, logger *zap.Logger) *ProfileService {
	return &ProfileService{users: users, logger: logger}
}

// GetProfile fetches the viewer's own profile.
func (s *ProfileService) GetProfile(ctx context.Context, token, userID string) (*user.Profile, error) {
	if userID == "" {
		return nil, xerrors.ErrIdentityUnresolved
	}
	return s.users.GetProfile(ctx, token, userID)
}

// UpdateProfile patches only the fields the viewer changed and returns the
// re-read profile so the caller renders what the upstream actually stored.
func (s *ProfileService) UpdateProfile(ctx context.Context, token, userID string, req *user.UpdateProfileRequest) (*user.Profile, error) {
	if userID == "" {
		return nil, xerrors.ErrIdentityUnresolved
	}

	payload := map[string]interface{}{"userId": userID}
	setIf := func(key string, v *string) {
		if v != nil && *v != "" {
			payload[key] = *v
		}
	}
	setIf("fullName", req.FullName)
	setIf("email", req.Email)
	setIf("phoneNumber", req.PhoneNumber)
	setIf("gender", req.Gender)
	setIf("address", req.Address)
	setIf("dateOfBirth", req.DateOfBirth)
	if req.Age != nil {
		payload["age"] = *req.Age
	}

	if len(payload) == 1 {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "no profile fields to update")
	}

	if err := s.users.UpdateProfile(ctx, token, payload); err != nil {
		return nil, err
	}
	return s.users.GetProfile(ctx, token, userID)
}
