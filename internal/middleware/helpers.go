// internal/middleware/helpers.go
package middleware

import "github.com/gin-gonic/gin"

// GetUserID gets the resolved viewer user id from context.
func GetUserID(c *gin.Context) string {
	id, _ := c.Get(ctxKeyUserID)
	s, _ := id.(string)
	return s
}

// GetEmail gets the viewer's email from context, empty when unknown.
func GetEmail(c *gin.Context) string {
	email, _ := c.Get(ctxKeyEmail)
	s, _ := email.(string)
	return s
}

// GetToken gets the raw access token for pass-through to upstreams.
func GetToken(c *gin.Context) string {
	token, _ := c.Get(ctxKeyToken)
	s, _ := token.(string)
	return s
}

// GetPrivileges gets the viewer's effective privileges from context.
func GetPrivileges(c *gin.Context) []string {
	privileges, exists := c.Get(ctxKeyPrivileges)
	if !exists {
		return []string{}
	}
	list, ok := privileges.([]string)
	if !ok {
		return []string{}
	}
	return list
}

// HasPrivilege checks a single privilege by exact name.
func HasPrivilege(c *gin.Context, privilege string) bool {
	for _, p := range GetPrivileges(c) {
		if p == privilege {
			return true
		}
	}
	return false
}

// IsVerified reports whether the token signature was actually checked.
func IsVerified(c *gin.Context) bool {
	v, _ := c.Get(ctxKeyVerified)
	b, _ := v.(bool)
	return b
}
