package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"labadmin-service/internal/domain/user"
	xerrors "labadmin-service/internal/pkg/errors"
	"labadmin-service/internal/pkg/privilege"
)

// UserService is the client for the legacy identity/user service. The detail
// endpoint is keyed by email, not id, per the legacy contract.
type UserService struct {
	*Client
}

func NewUserService(baseURL string, timeout time.Duration, logger *zap.Logger) *UserService {
	return &UserService{Client: NewClient(baseURL, timeout, logger)}
}

// GetUserDetail fetches the raw detail payload for the given email. The shape
// is left loose on purpose: privilege fields vary by casing and nesting, and
// normalization is the caller's job.
func (s *UserService) GetUserDetail(ctx context.Context, token, email string) (map[string]interface{}, error) {
	if email == "" {
		return nil, xerrors.ErrMissingIdentifier
	}
	q := url.Values{"email": {email}}
	var raw map[string]interface{}
	if err := s.get(ctx, token, "/User/detail", q, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", xerrors.ErrDetailFetchFailed, err)
	}
	return raw, nil
}

// ListUsers queries the filtered user list.
func (s *UserService) ListUsers(ctx context.Context, token string, filters *user.ListFilters) ([]user.Summary, error) {
	q := url.Values{}
	setIfPresent := func(key, val string) {
		if val != "" {
			q.Set(key, val)
		}
	}
	setIfPresent("Keyword", filters.Keyword)
	setIfPresent("FilterField", filters.FilterField)
	setIfPresent("Gender", filters.GenderParam())
	setIfPresent("Address", filters.Address)
	setIfPresent("SortBy", filters.SortBy)
	setIfPresent("SortOrder", filters.SortOrder)
	if filters.MinAge != nil {
		q.Set("MinAge", strconv.Itoa(*filters.MinAge))
	}
	if filters.MaxAge != nil {
		q.Set("MaxAge", strconv.Itoa(*filters.MaxAge))
	}

	var raw json.RawMessage
	if err := s.get(ctx, token, "/User/getListOfUser", q, &raw); err != nil {
		return nil, err
	}
	var users []user.Summary
	if err := itemsOrArray(raw, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteUser removes a user by id.
func (s *UserService) DeleteUser(ctx context.Context, token, userID string) error {
	if userID == "" {
		return xerrors.ErrMissingIdentifier
	}
	return s.do(ctx, "DELETE", token, "/User/delete/"+url.PathEscape(userID), nil, nil, nil)
}

// GetProfile fetches the profile for a user id.
func (s *UserService) GetProfile(ctx context.Context, token, userID string) (*user.Profile, error) {
	if userID == "" {
		return nil, xerrors.ErrMissingIdentifier
	}
	q := url.Values{"userId": {userID}}
	var p user.Profile
	if err := s.get(ctx, token, "/User/getUserProfile", q, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile patches the given fields. The payload carries the userId and
// only the fields that changed.
func (s *UserService) UpdateProfile(ctx context.Context, token string, payload map[string]interface{}) error {
	return s.do(ctx, "PATCH", token, "/User/updateUserProfile", nil, payload, nil)
}

// privilegeMutation is the wire shape of the legacy update endpoint. Field
// casing is the upstream's, not ours.
type privilegeMutation struct {
	UserID       string  `json:"UserId"`
	Email        string  `json:"Email"`
	ActionType   string  `json:"ActionType"`
	PrivilegeIDs []int64 `json:"PrivilegeIds,omitempty"`
}

// UpdatePrivileges issues an add or reset mutation against the target user.
func (s *UserService) UpdatePrivileges(ctx context.Context, token, userID, email, actionType string, privilegeIDs []int64) error {
	body := privilegeMutation{
		UserID:       userID,
		Email:        email,
		ActionType:   actionType,
		PrivilegeIDs: privilegeIDs,
	}
	if err := s.do(ctx, "PUT", token, "/User/update", nil, body, nil); err != nil {
		return fmt.Errorf("%w: %w", xerrors.ErrMutationFailed, err)
	}
	return nil
}

// ListPrivileges fetches the full privilege catalog.
func (s *UserService) ListPrivileges(ctx context.Context, token string) ([]privilege.CatalogEntry, error) {
	var raw json.RawMessage
	if err := s.get(ctx, token, "/Privileges", nil, &raw); err != nil {
		return nil, err
	}
	var catalog []privilege.CatalogEntry
	if err := itemsOrArray(raw, &catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// Role is one role entry from the identity service.
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// ListRoles fetches all roles.
func (s *UserService) ListRoles(ctx context.Context, token string) ([]Role, error) {
	var raw json.RawMessage
	if err := s.get(ctx, token, "/Roles", nil, &raw); err != nil {
		return nil, err
	}
	var roles []Role
	if err := itemsOrArray(raw, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}
