package audit

import (
	"time"

	"github.com/lib/pq"
)

// Mutation actions recorded in the audit trail.
const (
	ActionAdd   = "add"
	ActionReset = "reset"
)

// PrivilegeMutation is one privilege add/reset attempt against a target user,
// recorded regardless of outcome.
type PrivilegeMutation struct {
	ID             string         `json:"id"`
	ActorID        string         `json:"actor_id"`
	TargetUserID   string         `json:"target_user_id"`
	TargetEmail    string         `json:"target_email"`
	Action         string         `json:"action"`
	PrivilegeNames pq.StringArray `json:"privilege_names"`
	Succeeded      bool           `json:"succeeded"`
	Message        string         `json:"message,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}
