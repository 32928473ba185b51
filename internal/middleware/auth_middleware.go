// internal/middleware/auth_middleware.go
package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"labadmin-service/internal/pkg/claims"
	"labadmin-service/internal/pkg/jwt"
	"labadmin-service/internal/pkg/response"
	"labadmin-service/internal/pkg/session"
)

// Context keys set by Auth().
const (
	ctxKeyUserID     = "user_id"
	ctxKeyEmail      = "user_email"
	ctxKeyPrivileges = "privileges"
	ctxKeyToken      = "access_token"
	ctxKeyVerified   = "token_verified"
)

// Privileges gating the admin surface.
const (
	PrivilegeViewUser   = "VIEW_USER"
	PrivilegeManageUser = "MANAGE_USER"
)

type AuthMiddleware struct {
	sessions *session.Manager
	jwt      *jwt.Manager
	logger   *zap.Logger
}

func NewAuthMiddleware(sessions *session.Manager, jwtManager *jwt.Manager, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		jwt:      jwtManager,
		logger:   logger,
	}
}

// Auth resolves the viewer's identity from the Bearer token, with the stored
// session blob (X-Session-User header, JSON as the front-end persisted it)
// taking priority for the user id. Signature verification is attempted when a
// public key is configured but its absence does not block the request; the
// legacy tokens were never verifiable here.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "missing authorization token")
			return
		}

		// The blob is part of the cache identity: a request with a new or
		// changed blob must re-resolve, the stored user id outranks token
		// claims.
		storedBlob := []byte(c.GetHeader("X-Session-User"))

		if cached, err := m.sessions.Lookup(c.Request.Context(), token, storedBlob); err == nil && cached != nil {
			setViewer(c, token, cached)
			c.Next()
			return
		}

		identity, err := claims.ResolveIdentity(token, storedBlob)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "cannot determine current user, please re-authenticate", err)
			return
		}

		viewer := &session.ViewerSession{
			UserID:     identity.UserID,
			Email:      emailFromIdentity(identity),
			Privileges: claims.ResolvePrivileges(identity.RawClaims, identity.StoredUser),
			ResolvedAt: time.Now(),
		}

		if m.jwt != nil && m.jwt.Verifier != nil {
			if verified, err := m.jwt.Verifier.Verify(token); err == nil {
				viewer.Verified = true
				if id := verified.SubjectID(); id != "" && viewer.UserID == "" {
					viewer.UserID = id
				}
			} else {
				m.logger.Debug("token signature not verified", zap.Error(err))
			}
		}

		if err := m.sessions.Store(c.Request.Context(), token, storedBlob, viewer); err != nil {
			m.logger.Warn("failed to cache viewer session", zap.Error(err))
		}

		setViewer(c, token, viewer)
		c.Next()
	}
}

// RequirePrivilege requires the viewer to hold at least one of the named
// privileges. Matching is exact and case sensitive. MUST be used after Auth().
func (m *AuthMiddleware) RequirePrivilege(privileges ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		held := GetPrivileges(c)
		for _, h := range held {
			for _, required := range privileges {
				if h == required {
					c.Next()
					return
				}
			}
		}
		response.Forbidden(c, "insufficient privileges")
	}
}

func setViewer(c *gin.Context, token string, v *session.ViewerSession) {
	c.Set(ctxKeyUserID, v.UserID)
	c.Set(ctxKeyEmail, v.Email)
	c.Set(ctxKeyPrivileges, v.Privileges)
	c.Set(ctxKeyToken, token)
	c.Set(ctxKeyVerified, v.Verified)
}

func emailFromIdentity(identity *claims.Identity) string {
	if identity.StoredUser != nil {
		if email, ok := identity.StoredUser["email"].(string); ok && email != "" {
			return email
		}
	}
	for _, key := range []string{"email", "Email"} {
		if email, ok := identity.RawClaims[key].(string); ok && email != "" {
			return email
		}
	}
	return ""
}

// extractToken extracts the Bearer token from the Authorization header, with
// a query-param fallback for the websocket handshake.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}
	return c.Query("token")
}
