package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the verified JWT claims issued by the identity service.
type Claims struct {
	UserID     string   `json:"userId,omitempty"`
	Privileges []string `json:"privileges,omitempty"`
	Roles      []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// HasPrivilege checks if the claims contain a specific privilege
func (c *Claims) HasPrivilege(privilege string) bool {
	for _, p := range c.Privileges {
		if p == privilege {
			return true
		}
	}
	return false
}

// Subject returns the best subject identifier the token carries.
func (c *Claims) SubjectID() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.RegisteredClaims.Subject
}

// VerifyAudience checks if the expected audience is listed in the claims.
func (c *Claims) VerifyAudience(audience string, required bool) bool {
	if len(c.Audience) == 0 {
		// If audience is required but missing
		return !required
	}

	for _, aud := range c.Audience {
		if aud == audience {
			return true
		}
	}

	return false
}
