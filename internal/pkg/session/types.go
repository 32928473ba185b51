package session

import "time"

// ViewerSession is the cached resolution result for one bearer token: the
// viewer's identity and effective privilege set. Caching avoids re-decoding
// and re-scanning on every request; the token itself is never stored, only a
// digest of it.
type ViewerSession struct {
	UserID     string    `json:"user_id"`
	Email      string    `json:"email,omitempty"`
	Privileges []string  `json:"privileges"`
	Verified   bool      `json:"verified"`
	ResolvedAt time.Time `json:"resolved_at"`
}
