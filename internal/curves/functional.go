package curves

import (
	"fmt"
	"math"
	"sync"

	"github.com/coolerd/coolerd/internal/configuration"
	"github.com/coolerd/coolerd/internal/ui"
)

type FunctionSpeedCurve struct {
	Config configuration.CurveConfig `json:"config"`
	Value  int                       `json:"value"`

	valueMu sync.Mutex
}

func (c *FunctionSpeedCurve) GetId() string {
	return c.Config.ID
}

func (c *FunctionSpeedCurve) Evaluate() (value int, err error) {
	var values []int
	for _, curveId := range c.Config.Function.Curves {
		curve, ok := GetSpeedCurve(curveId)
		if !ok {
			return 0, fmt.Errorf("curve %s: referenced curve '%s' not registered", c.Config.ID, curveId)
		}
		v, err := curve.Evaluate()
		if err != nil {
			// a curve whose sensor has no reading simply doesn't take
			// part in the combination
			ui.Debug("Curve '%s': skipping '%s': %v", c.Config.ID, curveId, err)
			continue
		}
		values = append(values, v)
	}

	if len(values) == 0 {
		return 0, fmt.Errorf("curve %s: no referenced curve could be evaluated", c.Config.ID)
	}

	switch c.Config.Function.Type {
	case configuration.FunctionMinimum:
		var min float64 = 100
		for _, v := range values {
			min = math.Min(min, float64(v))
		}
		value = int(min)
	case configuration.FunctionMaximum:
		var max float64
		for _, v := range values {
			max = math.Max(max, float64(v))
		}
		value = int(max)
	case configuration.FunctionAverage:
		var total = 0
		for _, v := range values {
			total += v
		}
		value = total / len(values)
	default:
		return 0, fmt.Errorf("curve %s: unknown curve function: %s", c.Config.ID, c.Config.Function.Type)
	}

	c.setValue(value)
	return value, nil
}

func (c *FunctionSpeedCurve) setValue(value int) {
	c.valueMu.Lock()
	defer c.valueMu.Unlock()
	c.Value = value
}

func (c *FunctionSpeedCurve) CurrentValue() int {
	c.valueMu.Lock()
	defer c.valueMu.Unlock()
	return c.Value
}
