package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labadmin-service/internal/domain/user"
	xerrors "labadmin-service/internal/pkg/errors"
)

func TestNormalizeDetailExtractsRoleFields(t *testing.T) {
	raw := map[string]interface{}{
		"email": "doc@lab.test",
		"role": map[string]interface{}{
			"id":   float64(3),
			"name": "Doctor",
			"code": "DOC",
		},
		"privileges": []interface{}{"VIEW_USER"},
	}

	d := normalizeDetail("fallback@lab.test", raw)

	assert.Equal(t, "doc@lab.test", d.Email)
	assert.Equal(t, int64(3), d.RoleID)
	assert.Equal(t, "Doctor", d.RoleName)
	assert.Equal(t, "DOC", d.RoleCode)
	assert.Equal(t, []string{"VIEW_USER"}, d.Privileges)
}

func TestNormalizeDetailFlatRoleAndEmailFallback(t *testing.T) {
	raw := map[string]interface{}{
		"roleId":   float64(7),
		"roleName": "Technician",
		// bare id must not be mistaken for a role id outside a role object
		"id":         float64(99),
		"Privileges": []interface{}{"EDIT_USER"},
	}

	d := normalizeDetail("tech@lab.test", raw)

	assert.Equal(t, "tech@lab.test", d.Email)
	assert.Equal(t, int64(7), d.RoleID)
	assert.Equal(t, "Technician", d.RoleName)
	assert.Empty(t, d.RoleCode)
}

func TestNormalizeDetailIgnoresBareIDWithoutRoleKeys(t *testing.T) {
	d := normalizeDetail("x@lab.test", map[string]interface{}{
		"id": float64(99),
	})
	assert.Zero(t, d.RoleID)
}

func TestListUsersRejectsInvalidAgeRange(t *testing.T) {
	f := newFakeUpstream(t, nil)
	s := newTestService(f)

	min, max := 40, 20
	_, err := s.ListUsers(context.Background(), "tok", &user.ListFilters{
		MinAge: &min,
		MaxAge: &max,
	})
	require.ErrorIs(t, err, xerrors.ErrInvalidInput)
	assert.Zero(t, f.requests.Load(), "invalid filters must not reach the upstream")
}
