package flagging

import (
	"database/sql"
	"time"
)

// Config is one result-flagging threshold: a test parameter whose measured
// value outside [Min, Max) gets flagged for review.
type Config struct {
	ID            int64          `json:"id"`
	TestCode      string         `json:"testCode"`
	ParameterName string         `json:"parameterName"`
	Description   sql.NullString `json:"-"`
	Unit          string         `json:"unit"`
	Gender        sql.NullString `json:"-"`
	Min           float64        `json:"min"`
	Max           float64        `json:"max"`
	IsActive      bool           `json:"isActive"`
	EffectiveDate time.Time      `json:"effectiveDate"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// View is the JSON shape served to the admin UI.
type View struct {
	ID            int64     `json:"id"`
	TestCode      string    `json:"testCode"`
	ParameterName string    `json:"parameterName"`
	Description   string    `json:"description,omitempty"`
	Unit          string    `json:"unit"`
	Gender        string    `json:"gender,omitempty"`
	Min           float64   `json:"min"`
	Max           float64   `json:"max"`
	IsActive      bool      `json:"isActive"`
	EffectiveDate time.Time `json:"effectiveDate"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToView flattens nullable columns for the API response.
func (c *Config) ToView() View {
	return View{
		ID:            c.ID,
		TestCode:      c.TestCode,
		ParameterName: c.ParameterName,
		Description:   c.Description.String,
		Unit:          c.Unit,
		Gender:        c.Gender.String,
		Min:           c.Min,
		Max:           c.Max,
		IsActive:      c.IsActive,
		EffectiveDate: c.EffectiveDate,
		CreatedAt:     c.CreatedAt,
	}
}
