package user

import (
	"fmt"
	"strings"
)

// ListFilters are the user-list search parameters. Gender supports
// multi-select; the upstream contract wants a single comma-joined string.
type ListFilters struct {
	Keyword     string   `form:"keyword"`
	FilterField string   `form:"filter_field"`
	Gender      []string `form:"gender"`
	MinAge      *int     `form:"min_age"`
	MaxAge      *int     `form:"max_age"`
	Address     string   `form:"address"`
	SortBy      string   `form:"sort_by"`
	SortOrder   string   `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

// Validate enforces the age-range rules before any upstream call is made.
func (f *ListFilters) Validate() error {
	if f.MinAge != nil && *f.MinAge < 0 {
		return fmt.Errorf("min_age must be greater than or equal to 0")
	}
	if f.MaxAge != nil && *f.MaxAge < 0 {
		return fmt.Errorf("max_age must be greater than or equal to 0")
	}
	if f.MinAge != nil && f.MaxAge != nil && *f.MinAge >= *f.MaxAge {
		return fmt.Errorf("min_age must be less than max_age")
	}
	return nil
}

// GenderParam renders the gender selection for the upstream query: empty for
// none, the value itself for one, comma-joined for several.
func (f *ListFilters) GenderParam() string {
	cleaned := make([]string, 0, len(f.Gender))
	for _, g := range f.Gender {
		if g = strings.TrimSpace(g); g != "" {
			cleaned = append(cleaned, g)
		}
	}
	return strings.Join(cleaned, ",")
}

// UpdatePrivilegesRequest is the add-privileges submission from the admin UI.
// Privileges may be numeric catalog ids or names needing catalog resolution.
type UpdatePrivilegesRequest struct {
	UserID     string        `json:"user_id" binding:"required"`
	Email      string        `json:"email" binding:"required,email"`
	Privileges []interface{} `json:"privileges" binding:"required"`
}

// ResetPrivilegesRequest clears a user's added privileges back to baseline.
type ResetPrivilegesRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
}

// UpdateProfileRequest carries only the fields the viewer actually changed.
type UpdateProfileRequest struct {
	FullName    *string `json:"full_name" binding:"omitempty,max=255"`
	Email       *string `json:"email" binding:"omitempty,email,max=255"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=20"`
	Gender      *string `json:"gender"`
	Age         *int    `json:"age" binding:"omitempty,min=0"`
	Address     *string `json:"address"`
	DateOfBirth *string `json:"date_of_birth"`
}

// MutationOutcome reports a privilege mutation plus the reconciled detail that
// was re-read from the source of truth afterwards.
type MutationOutcome struct {
	Action          string   `json:"action"`
	SubmittedIDs    []int64  `json:"submitted_ids,omitempty"`
	Unresolved      []string `json:"unresolved,omitempty"`
	Detail          *Detail  `json:"detail"`
	Verified        bool     `json:"verified"`
	UpstreamMessage string   `json:"upstream_message,omitempty"`
}
