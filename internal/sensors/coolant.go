package sensors

import (
	"fmt"
	"sync"

	"github.com/asecurityteam/rolling"
	"github.com/coolerd/coolerd/internal/configuration"
	"github.com/coolerd/coolerd/internal/util"
)

// CoolantSensor is a virtual sensor fed by the device poll loop. It has no
// value until the first status report containing a water temperature arrives.
type CoolantSensor struct {
	mu         sync.RWMutex
	value      float64
	hasValue   bool
	window     *rolling.PointPolicy
	windowSize int
}

func NewCoolantSensor(windowSize int) *CoolantSensor {
	return &CoolantSensor{
		window:     util.CreateRollingWindow(windowSize),
		windowSize: windowSize,
	}
}

func (sensor *CoolantSensor) GetId() string {
	return configuration.SensorCoolant
}

func (sensor *CoolantSensor) Update(value float64) {
	sensor.mu.Lock()
	defer sensor.mu.Unlock()
	if !sensor.hasValue {
		// seed the window so the average doesn't start from zero
		util.FillWindow(sensor.window, sensor.windowSize, value)
	} else {
		sensor.window.Append(value)
	}
	sensor.value = value
	sensor.hasValue = true
}

func (sensor *CoolantSensor) GetValue() (float64, error) {
	sensor.mu.RLock()
	defer sensor.mu.RUnlock()
	if !sensor.hasValue {
		return 0, fmt.Errorf("no coolant temperature reported yet")
	}
	return sensor.value, nil
}

func (sensor *CoolantSensor) GetMovingAvg() float64 {
	sensor.mu.RLock()
	defer sensor.mu.RUnlock()
	return util.GetWindowAvg(sensor.window)
}
