package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"labadmin-service/internal/domain/user"
	xerrors "labadmin-service/internal/pkg/errors"
)

func newTestUserService(t *testing.T, handler http.HandlerFunc) *UserService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewUserService(srv.URL, 2*time.Second, zap.NewNop())
}

func TestListUsers_QueryNormalization(t *testing.T) {
	var gotQuery map[string][]string
	svc := newTestUserService(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		assert.Equal(t, "/User/getListOfUser", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`[{"userId":"1","email":"a@b.com"}]`))
	})

	minAge, maxAge := 18, 60
	users, err := svc.ListUsers(context.Background(), "tok", &user.ListFilters{
		Keyword: "ng",
		Gender:  []string{"male", "female"},
		MinAge:  &minAge,
		MaxAge:  &maxAge,
		SortBy:  "fullName",
	})
	require.NoError(t, err)
	require.Len(t, users, 1)

	assert.Equal(t, []string{"male,female"}, gotQuery["Gender"])
	assert.Equal(t, []string{"18"}, gotQuery["MinAge"])
	assert.Equal(t, []string{"60"}, gotQuery["MaxAge"])
	_, hasAddress := gotQuery["Address"]
	assert.False(t, hasAddress, "empty filters must not be sent")
}

func TestListUsers_ItemsEnvelope(t *testing.T) {
	svc := newTestUserService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"userId":"1"},{"userId":"2"}]}`))
	})
	users, err := svc.ListUsers(context.Background(), "", &user.ListFilters{})
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestGetUserDetail_RawPassThrough(t *testing.T) {
	svc := newTestUserService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "a@b.com", r.URL.Query().Get("email"))
		w.Write([]byte(`{"email":"a@b.com","Privileges":["VIEW_USER"]}`))
	})
	raw, err := svc.GetUserDetail(context.Background(), "", "a@b.com")
	require.NoError(t, err)
	assert.Contains(t, raw, "Privileges")
}

func TestGetUserDetail_EmptyEmail(t *testing.T) {
	svc := newTestUserService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := svc.GetUserDetail(context.Background(), "", "")
	assert.ErrorIs(t, err, xerrors.ErrMissingIdentifier)
}

func TestUpdatePrivileges_ServerMessageSurfaced(t *testing.T) {
	svc := newTestUserService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"privilege already assigned"}`))
	})
	err := svc.UpdatePrivileges(context.Background(), "", "u1", "a@b.com", "add", []int64{2})
	require.Error(t, err)
	assert.ErrorIs(t, err, xerrors.ErrMutationFailed)
	assert.ErrorIs(t, err, xerrors.ErrUpstreamStatus)
	assert.Contains(t, err.Error(), "privilege already assigned")
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	svc := NewUserService(srv.URL, 50*time.Millisecond, zap.NewNop())
	_, err := svc.ListRoles(context.Background(), "")
	assert.ErrorIs(t, err, xerrors.ErrOperationTimedOut)
}

func TestListPrivileges_MixedShapes(t *testing.T) {
	svc := newTestUserService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["VIEW_USER",{"id":2,"name":"EDIT_USER"}]`))
	})
	catalog, err := svc.ListPrivileges(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, catalog, 2)
	assert.Equal(t, "VIEW_USER", catalog[0].Name)
	assert.EqualValues(t, 2, catalog[1].ID)
}
