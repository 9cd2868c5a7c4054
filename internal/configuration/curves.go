package configuration

// Well-known sensor ids a linear curve can reference.
const (
	SensorCpu     = "cpu"
	SensorCoolant = "coolant"
)

const (
	FunctionMinimum = "minimum"
	FunctionAverage = "average"
	FunctionMaximum = "maximum"
)

// DefaultTargetCurveId is the curve the controller applies when the user
// does not configure their own set.
const DefaultTargetCurveId = "combined"

type CurvesConfig struct {
	// Enabled switches automatic curve control on.
	Enabled bool `json:"enabled"`
	// ApplyPump also applies the evaluated target duty to the pump.
	ApplyPump bool `json:"applyPump"`
	// Target is the id of the curve whose value is applied to the channels.
	Target string `json:"target"`

	Definitions []CurveConfig `json:"definitions"`
}

type CurveConfig struct {
	ID       string               `json:"id"`
	Linear   *LinearCurveConfig   `json:"linear,omitempty"`
	Function *FunctionCurveConfig `json:"function,omitempty"`
}

// LinearCurveConfig interpolates a duty between control points on the
// temperature axis of a single sensor.
type LinearCurveConfig struct {
	Sensor string      `json:"sensor"`
	Points CurvePoints `json:"points"`
}

// FunctionCurveConfig combines the values of other curves.
type FunctionCurveConfig struct {
	Type   string   `json:"type"`
	Curves []string `json:"curves"`
}

// ControlPoint anchors a duty percentage at a temperature.
type ControlPoint struct {
	Temp float64 `json:"temp"`
	Duty int     `json:"duty"`
}

type CurvePoints []ControlPoint

// DefaultCurveDefinitions returns the built-in curve set: one 3-point curve
// per sensor, combined by taking whichever demands the higher duty.
func DefaultCurveDefinitions() []CurveConfig {
	return []CurveConfig{
		{
			ID: "cpu",
			Linear: &LinearCurveConfig{
				Sensor: SensorCpu,
				Points: CurvePoints{
					{Temp: 30, Duty: 20},
					{Temp: 60, Duty: 60},
					{Temp: 80, Duty: 100},
				},
			},
		},
		{
			ID: "water",
			Linear: &LinearCurveConfig{
				Sensor: SensorCoolant,
				Points: CurvePoints{
					{Temp: 30, Duty: 20},
					{Temp: 40, Duty: 60},
					{Temp: 50, Duty: 100},
				},
			},
		},
		{
			ID: DefaultTargetCurveId,
			Function: &FunctionCurveConfig{
				Type:   FunctionMaximum,
				Curves: []string{"cpu", "water"},
			},
		},
	}
}
