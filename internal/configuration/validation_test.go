package configuration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() Configuration {
	return Configuration{
		FanScale:  ScaleConfig{MinRpm: 200, MaxRpm: 2000},
		PumpScale: ScaleConfig{MinRpm: 1000, MaxRpm: 2700},
		Safety: SafetyConfig{
			Enabled:    true,
			CpuCrit:    85,
			WaterCrit:  45,
			Hysteresis: 5,
		},
		Curves: CurvesConfig{
			Enabled:     true,
			ApplyPump:   true,
			Target:      DefaultTargetCurveId,
			Definitions: DefaultCurveDefinitions(),
		},
	}
}

func TestValidateDefaultConfig(t *testing.T) {
	// GIVEN
	config := validConfig()

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.NoError(t, err)
}

func TestValidateInvertedScale(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.FanScale = ScaleConfig{MinRpm: 2000, MaxRpm: 200}

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "minRpm must be below maxRpm")
}

func TestValidateNegativeHysteresis(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Safety.Hysteresis = -1

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.Error(t, err)
}

func TestValidateCurveWithBothTypes(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Curves.Definitions[0].Function = &FunctionCurveConfig{
		Type:   FunctionMaximum,
		Curves: []string{"water"},
	}

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "only one curve type")
}

func TestValidateCurveWithoutType(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Curves.Definitions = append(config.Curves.Definitions, CurveConfig{ID: "empty"})

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.Error(t, err)
}

func TestValidateUnknownSensor(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Curves.Definitions[0].Linear.Sensor = "gpu"

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sensor")
}

func TestValidateOutOfOrderPoints(t *testing.T) {
	// GIVEN control points whose temperatures descend
	config := validConfig()
	config.Curves.Definitions[0].Linear.Points = CurvePoints{
		{Temp: 60, Duty: 60},
		{Temp: 30, Duty: 20},
		{Temp: 80, Duty: 100},
	}

	// WHEN
	err := validateConfig(&config)

	// THEN they are rejected instead of silently reordered
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ascending")
}

func TestValidateEqualTemperaturePointsAreLegal(t *testing.T) {
	// GIVEN a step curve with two points at the same temperature
	config := validConfig()
	config.Curves.Definitions[0].Linear.Points = CurvePoints{
		{Temp: 30, Duty: 20},
		{Temp: 50, Duty: 60},
		{Temp: 50, Duty: 80},
		{Temp: 70, Duty: 100},
	}

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.NoError(t, err)
}

func TestValidateDutyOutOfRange(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Curves.Definitions[0].Linear.Points[2].Duty = 140

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.Error(t, err)
}

func TestValidateSelfReferencingCurve(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Curves.Definitions = append(config.Curves.Definitions, CurveConfig{
		ID:       "loop",
		Function: &FunctionCurveConfig{Type: FunctionMaximum, Curves: []string{"loop"}},
	})

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot reference itself")
}

func TestValidateCurveCycle(t *testing.T) {
	// GIVEN two function curves referencing each other
	config := validConfig()
	config.Curves.Definitions = append(config.Curves.Definitions,
		CurveConfig{
			ID:       "a",
			Function: &FunctionCurveConfig{Type: FunctionMaximum, Curves: []string{"b"}},
		},
		CurveConfig{
			ID:       "b",
			Function: &FunctionCurveConfig{Type: FunctionMaximum, Curves: []string{"a"}},
		},
	)

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestValidateMissingTargetCurve(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Curves.Target = "nope"

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.Error(t, err)
}

func TestValidateProfileDutyRange(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Profiles = map[string]ProfileConfig{
		"silent": {FanDuties: []int{20, 20, 120}, PumpDuty: 50},
	}

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.Error(t, err)
}
