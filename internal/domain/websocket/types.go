package websocket

import "time"

// Event names pushed to connected admin dashboards.
const (
	EventPrivilegesUpdated = "privileges.updated"
	EventUserDeleted       = "user.deleted"
)

// Event is one message on the admin event feed.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
