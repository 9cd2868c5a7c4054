package curves

import (
	"testing"

	"github.com/coolerd/coolerd/internal/configuration"
	"github.com/coolerd/coolerd/internal/sensors"
	"github.com/stretchr/testify/assert"
)

type MockSensor struct {
	ID        string
	Value     float64
	MovingAvg float64
	Err       error
}

func (sensor MockSensor) GetId() string {
	return sensor.ID
}

func (sensor MockSensor) GetValue() (float64, error) {
	return sensor.Value, sensor.Err
}

func (sensor MockSensor) GetMovingAvg() float64 {
	return sensor.MovingAvg
}

func registerMockSensor(id string, value float64) {
	sensors.RegisterSensor(&MockSensor{ID: id, Value: value, MovingAvg: value})
}

func createLinearCurveConfig(id string, sensorId string, points configuration.CurvePoints) configuration.CurveConfig {
	return configuration.CurveConfig{
		ID: id,
		Linear: &configuration.LinearCurveConfig{
			Sensor: sensorId,
			Points: points,
		},
	}
}

func createFunctionCurveConfig(id string, function string, curveIds []string) configuration.CurveConfig {
	return configuration.CurveConfig{
		ID: id,
		Function: &configuration.FunctionCurveConfig{
			Type:   function,
			Curves: curveIds,
		},
	}
}

func TestNewSpeedCurveWithoutType(t *testing.T) {
	// GIVEN
	config := configuration.CurveConfig{ID: "empty"}

	// WHEN
	_, err := NewSpeedCurve(config)

	// THEN
	assert.Error(t, err)
}

func TestInitCurvesRegistersAll(t *testing.T) {
	// GIVEN
	registerMockSensor(configuration.SensorCpu, 50)
	registerMockSensor(configuration.SensorCoolant, 35)

	// WHEN
	err := InitCurves(configuration.DefaultCurveDefinitions())

	// THEN
	assert.NoError(t, err)
	for _, id := range []string{"cpu", "water", configuration.DefaultTargetCurveId} {
		_, ok := GetSpeedCurve(id)
		assert.True(t, ok, "curve %s not registered", id)
	}
}
