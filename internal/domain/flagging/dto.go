package flagging

import (
	"fmt"
	"strings"
	"time"
)

// AddConfigsRequest is the bulk-add submission from the flagging modal.
type AddConfigsRequest struct {
	Configs []ConfigInput `json:"configs" binding:"required,min=1"`
}

// ConfigInput is one threshold to create.
type ConfigInput struct {
	TestCode      string     `json:"testCode"`
	ParameterName string     `json:"parameterName"`
	Description   string     `json:"description"`
	Unit          string     `json:"unit"`
	Gender        string     `json:"gender"`
	Min           *float64   `json:"min"`
	Max           *float64   `json:"max"`
	IsActive      *bool      `json:"isActive"`
	EffectiveDate *time.Time `json:"effectiveDate"`
}

// Validate mirrors the modal's rules: test code, parameter name and unit are
// required, min and max must both be present with min < max, and an effective
// date must be given.
func (in *ConfigInput) Validate() error {
	if strings.TrimSpace(in.TestCode) == "" {
		return fmt.Errorf("testCode is required")
	}
	if strings.TrimSpace(in.ParameterName) == "" {
		return fmt.Errorf("parameterName is required")
	}
	if strings.TrimSpace(in.Unit) == "" {
		return fmt.Errorf("unit is required")
	}
	if in.Min == nil {
		return fmt.Errorf("min value is required")
	}
	if in.Max == nil {
		return fmt.Errorf("max value is required")
	}
	if *in.Min >= *in.Max {
		return fmt.Errorf("max must be greater than min")
	}
	if in.EffectiveDate == nil || in.EffectiveDate.IsZero() {
		return fmt.Errorf("effectiveDate is required")
	}
	return nil
}
