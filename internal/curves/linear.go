package curves

import (
	"fmt"
	"math"
	"sync"

	"github.com/coolerd/coolerd/internal/configuration"
	"github.com/coolerd/coolerd/internal/sensors"
	"github.com/coolerd/coolerd/internal/ui"
	"github.com/coolerd/coolerd/internal/util"
)

type LinearSpeedCurve struct {
	Config configuration.CurveConfig `json:"config"`
	Value  int                       `json:"value"`

	valueMu sync.Mutex
}

func (c *LinearSpeedCurve) GetId() string {
	return c.Config.ID
}

func (c *LinearSpeedCurve) Evaluate() (value int, err error) {
	sensor, ok := sensors.GetSensor(c.Config.Linear.Sensor)
	if !ok {
		return 0, fmt.Errorf("curve %s: sensor '%s' not registered", c.Config.ID, c.Config.Linear.Sensor)
	}
	temp, err := sensor.GetValue()
	if err != nil {
		return 0, fmt.Errorf("curve %s: %w", c.Config.ID, err)
	}

	value = EvaluatePoints(c.Config.Linear.Points, temp)

	ui.Debug("Evaluating curve '%s'. Sensor '%s' temp '%.1f°'. Desired duty: %d", c.Config.ID, sensor.GetId(), temp, value)
	c.setValue(value)
	return value, nil
}

func (c *LinearSpeedCurve) setValue(value int) {
	c.valueMu.Lock()
	defer c.valueMu.Unlock()
	c.Value = value
}

func (c *LinearSpeedCurve) CurrentValue() int {
	c.valueMu.Lock()
	defer c.valueMu.Unlock()
	return c.Value
}

// EvaluatePoints interpolates a duty for the given temperature between
// control points sorted ascending by temperature. Temperatures at or below
// the first point pin the first duty, at or above the last point the last
// duty. A zero-width segment yields its upper duty.
func EvaluatePoints(points configuration.CurvePoints, temp float64) int {
	first := points[0]
	if temp <= first.Temp {
		return util.Coerce(first.Duty, 0, 100)
	}
	last := points[len(points)-1]
	if temp >= last.Temp {
		return util.Coerce(last.Duty, 0, 100)
	}

	for i := 0; i < len(points)-1; i++ {
		lower := points[i]
		upper := points[i+1]
		if upper.Temp == lower.Temp {
			if temp == upper.Temp {
				return util.Coerce(upper.Duty, 0, 100)
			}
			continue
		}
		if temp >= upper.Temp {
			continue
		}
		ratio := util.Ratio(temp, lower.Temp, upper.Temp)
		interpolated := float64(lower.Duty) + ratio*float64(upper.Duty-lower.Duty)
		return util.Coerce(int(math.Round(interpolated)), 0, 100)
	}

	return util.Coerce(last.Duty, 0, 100)
}
