package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"labadmin-service/internal/pkg/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func mintToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func newTestRouter(t *testing.T, required ...string) *gin.Engine {
	t.Helper()
	m := NewAuthMiddleware(session.NewManager(nil, time.Minute), nil, zap.NewNop())

	r := gin.New()
	handlers := []gin.HandlerFunc{m.Auth()}
	if len(required) > 0 {
		handlers = append(handlers, m.RequirePrivilege(required...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":    GetUserID(c),
			"privileges": GetPrivileges(c),
		})
	})
	r.GET("/whoami", handlers...)
	return r
}

func doWhoami(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRejectsMissingToken(t *testing.T) {
	r := newTestRouter(t)
	w := doWhoami(r, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthResolvesIdentityFromToken(t *testing.T) {
	r := newTestRouter(t)
	token := mintToken(t, map[string]interface{}{
		"uid":        "u-77",
		"privileges": []string{"VIEW_USER"},
	})

	w := doWhoami(r, map[string]string{"Authorization": "Bearer " + token})

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "u-77", body["user_id"])
}

func TestAuthStoredBlobOverridesTokenID(t *testing.T) {
	r := newTestRouter(t)
	token := mintToken(t, map[string]interface{}{"uid": "from-token"})
	blob := `{"userId":"from-storage","email":"admin@lab.test"}`

	w := doWhoami(r, map[string]string{
		"Authorization":  "Bearer " + token,
		"X-Session-User": blob,
	})

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "from-storage", body["user_id"])
}

func TestAuthChangedBlobReResolvesIdentity(t *testing.T) {
	r := newTestRouter(t)
	token := mintToken(t, map[string]interface{}{"uid": "from-token"})

	// first request carries no blob and resolves from token claims
	w := doWhoami(r, map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "from-token", body["user_id"])

	// the same token with a blob attached must yield the stored identity,
	// not the one resolved for the blobless request
	w = doWhoami(r, map[string]string{
		"Authorization":  "Bearer " + token,
		"X-Session-User": `{"userId":"stored-user"}`,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "stored-user", body["user_id"])
}

func TestAuthRejectsUnresolvableIdentity(t *testing.T) {
	r := newTestRouter(t)
	token := mintToken(t, map[string]interface{}{"unrelated": "claim"})

	w := doWhoami(r, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequirePrivilegeGates(t *testing.T) {
	r := newTestRouter(t, PrivilegeManageUser)

	viewer := mintToken(t, map[string]interface{}{
		"uid":        "u-1",
		"privileges": []string{"VIEW_USER"},
	})
	w := doWhoami(r, map[string]string{"Authorization": "Bearer " + viewer})
	assert.Equal(t, http.StatusForbidden, w.Code)

	manager := mintToken(t, map[string]interface{}{
		"uid":        "u-2",
		"privileges": []string{"MANAGE_USER"},
	})
	w = doWhoami(r, map[string]string{"Authorization": "Bearer " + manager})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequirePrivilegeIsCaseSensitive(t *testing.T) {
	r := newTestRouter(t, PrivilegeManageUser)
	token := mintToken(t, map[string]interface{}{
		"uid":        "u-3",
		"privileges": []string{"manage_user"},
	})

	w := doWhoami(r, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
