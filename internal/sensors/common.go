package sensors

import (
	"github.com/coolerd/coolerd/internal/configuration"
	cmap "github.com/orcaman/concurrent-map/v2"
)

var (
	sensorMap = cmap.New[Sensor]()
)

type Sensor interface {
	GetId() string

	// GetValue returns the current value of this sensor
	GetValue() (float64, error)

	// GetMovingAvg returns the moving average of this sensor's value
	GetMovingAvg() float64
}

func RegisterSensor(sensor Sensor) {
	sensorMap.Set(sensor.GetId(), sensor)
}

func GetSensor(id string) (Sensor, bool) {
	return sensorMap.Get(id)
}

func SnapshotSensorMap() map[string]Sensor {
	return sensorMap.Items()
}

// InitSensors registers the built-in sensor set and returns the coolant
// sensor, which gets its readings pushed by the device poll loop.
func InitSensors(windowSize int) *CoolantSensor {
	RegisterSensor(NewCpuSensor(windowSize))

	coolant := NewCoolantSensor(windowSize)
	RegisterSensor(coolant)
	return coolant
}

// UpdateCoolant feeds a new coolant temperature into the virtual coolant
// sensor, if it is registered.
func UpdateCoolant(value float64) {
	sensor, ok := GetSensor(configuration.SensorCoolant)
	if !ok {
		return
	}
	if coolant, ok := sensor.(*CoolantSensor); ok {
		coolant.Update(value)
	}
}
