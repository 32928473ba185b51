package user

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"labadmin-service/internal/cache"
	"labadmin-service/internal/domain/user"
	wstypes "labadmin-service/internal/domain/websocket"
	xerrors "labadmin-service/internal/pkg/errors"
	"labadmin-service/internal/pkg/privilege"
	"labadmin-service/internal/pkg/session"
	"labadmin-service/internal/repository/postgres"
	"labadmin-service/internal/upstream"
)

const catalogCacheKey = cache.KeyPrivilegeCatalog

// EventPublisher pushes admin events to connected dashboards.
type EventPublisher interface {
	Broadcast(event string, data interface{})
}

type UserService struct {
	users       *upstream.UserService
	cache       *cache.Cache
	auditRepo   *postgres.AuditRepository
	limiter     *session.RateLimiter
	events      EventPublisher
	logger      *zap.Logger
	catalogTTL  time.Duration
	reconcileIn time.Duration

	targets keyedMutex
}

func NewUserService(
	users *upstream.UserService,
	cache *cache.Cache,
	auditRepo *postgres.AuditRepository,
	limiter *session.RateLimiter,
	events EventPublisher,
	logger *zap.Logger,
	catalogTTL, reconcileDeadline time.Duration,
) *UserService {
	return &UserService{
		users:       users,
		cache:       cache,
		auditRepo:   auditRepo,
		limiter:     limiter,
		events:      events,
		logger:      logger,
		catalogTTL:  catalogTTL,
		reconcileIn: reconcileDeadline,
	}
}

// ListUsers validates the filters and queries the upstream list.
func (s *UserService) ListUsers(ctx context.Context, token string, filters *user.ListFilters) ([]user.Summary, error) {
	if err := filters.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", xerrors.ErrInvalidInput, err.Error())
	}
	return s.users.ListUsers(ctx, token, filters)
}

// GetDetail fetches and normalizes the per-user detail keyed by email.
func (s *UserService) GetDetail(ctx context.Context, token, email string) (*user.Detail, error) {
	raw, err := s.users.GetUserDetail(ctx, token, email)
	if err != nil {
		return nil, err
	}
	return normalizeDetail(email, raw), nil
}

// Catalog returns the full privilege catalog, cached briefly since the set
// changes rarely but backs every mutation.
func (s *UserService) Catalog(ctx context.Context, token string) ([]privilege.CatalogEntry, error) {
	var catalog []privilege.CatalogEntry
	if hit, _ := s.cache.Get(ctx, catalogCacheKey, &catalog); hit {
		return catalog, nil
	}

	catalog, err := s.users.ListPrivileges(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch privilege catalog: %w", err)
	}

	if err := s.cache.Set(ctx, catalogCacheKey, catalog, s.catalogTTL); err != nil {
		s.logger.Warn("failed to cache privilege catalog", zap.Error(err))
	}
	return catalog, nil
}

// Available returns the catalog entries the target user does not yet hold.
func (s *UserService) Available(ctx context.Context, token, email string) ([]privilege.CatalogEntry, error) {
	detail, err := s.GetDetail(ctx, token, email)
	if err != nil {
		return nil, err
	}
	catalog, err := s.Catalog(ctx, token)
	if err != nil {
		return nil, err
	}
	return privilege.Available(catalog, privilege.Detail{
		Email:      detail.Email,
		Privileges: detail.Privileges,
		Raw:        detail.Raw,
	}), nil
}

// Roles fetches the role list from the identity service.
func (s *UserService) Roles(ctx context.Context, token string) ([]upstream.Role, error) {
	return s.users.ListRoles(ctx, token)
}

// DeleteUser removes the user upstream and notifies listeners. The cached
// dashboard counters include the user total, so they are dropped too.
func (s *UserService) DeleteUser(ctx context.Context, token, userID string) error {
	if err := s.users.DeleteUser(ctx, token, userID); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, cache.KeyDashboardSummary, cache.KeyDashboardCharts); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
	if s.events != nil {
		s.events.Broadcast(wstypes.EventUserDeleted, map[string]string{"userId": userID})
	}
	return nil
}

// normalizeDetail builds the outward detail shape from the raw upstream
// payload: privilege names extracted through the alias scan, role fields
// pulled out when present.
func normalizeDetail(email string, raw map[string]interface{}) *user.Detail {
	norm := privilege.NormalizeDetail(raw)
	d := &user.Detail{
		Email:      norm.Email,
		Privileges: norm.Privileges,
		Raw:        raw,
	}
	if d.Email == "" {
		d.Email = email
	}

	idKeys := []string{"roleId", "RoleId"}
	nameKeys := []string{"roleName", "RoleName"}
	codeKeys := []string{"roleCode", "RoleCode"}
	roleObj := raw
	if nested, ok := raw["role"].(map[string]interface{}); ok {
		// bare id/name/code are unambiguous inside a nested role object
		roleObj = nested
		idKeys = append(idKeys, "id")
		nameKeys = append(nameKeys, "name")
		codeKeys = append(codeKeys, "code")
	}
	for _, key := range idKeys {
		if id, ok := asInt64(roleObj[key]); ok && id > 0 {
			d.RoleID = id
			break
		}
	}
	for _, key := range nameKeys {
		if name, ok := roleObj[key].(string); ok && name != "" {
			d.RoleName = name
			break
		}
	}
	for _, key := range codeKeys {
		if code, ok := roleObj[key].(string); ok && code != "" {
			d.RoleCode = code
			break
		}
	}
	return d
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}
