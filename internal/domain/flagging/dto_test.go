package flagging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validInput() ConfigInput {
	min, max := 4.0, 11.0
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return ConfigInput{
		TestCode:      "CBC",
		ParameterName: "WBC",
		Unit:          "10^9/L",
		Min:           &min,
		Max:           &max,
		EffectiveDate: &date,
	}
}

func TestConfigInputValidateAccepts(t *testing.T) {
	in := validInput()
	assert.NoError(t, in.Validate())
}

func TestConfigInputValidateRules(t *testing.T) {
	t.Run("test code required", func(t *testing.T) {
		in := validInput()
		in.TestCode = "  "
		assert.ErrorContains(t, in.Validate(), "testCode")
	})

	t.Run("parameter name required", func(t *testing.T) {
		in := validInput()
		in.ParameterName = ""
		assert.ErrorContains(t, in.Validate(), "parameterName")
	})

	t.Run("unit required", func(t *testing.T) {
		in := validInput()
		in.Unit = ""
		assert.ErrorContains(t, in.Validate(), "unit")
	})

	t.Run("min required", func(t *testing.T) {
		in := validInput()
		in.Min = nil
		assert.ErrorContains(t, in.Validate(), "min")
	})

	t.Run("max must exceed min", func(t *testing.T) {
		in := validInput()
		equal := *in.Min
		in.Max = &equal
		assert.ErrorContains(t, in.Validate(), "greater than min")
	})

	t.Run("effective date required", func(t *testing.T) {
		in := validInput()
		in.EffectiveDate = nil
		assert.ErrorContains(t, in.Validate(), "effectiveDate")
	})
}
