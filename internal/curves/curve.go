package curves

import (
	"fmt"

	"github.com/coolerd/coolerd/internal/configuration"
	cmap "github.com/orcaman/concurrent-map/v2"
)

type SpeedCurve interface {
	GetId() string
	// Evaluate calculates the current value of the given curve,
	// returns a duty in [0..100]
	Evaluate() (value int, err error)
	// CurrentValue returns the result of the last evaluation
	CurrentValue() int
}

var (
	speedCurveMap = cmap.New[SpeedCurve]()
)

func NewSpeedCurve(config configuration.CurveConfig) (SpeedCurve, error) {
	if config.Linear != nil {
		return &LinearSpeedCurve{
			Config: config,
		}, nil
	}

	if config.Function != nil {
		return &FunctionSpeedCurve{
			Config: config,
		}, nil
	}

	return nil, fmt.Errorf("no matching curve type for curve: %s", config.ID)
}

func RegisterSpeedCurve(curve SpeedCurve) {
	speedCurveMap.Set(curve.GetId(), curve)
}

func GetSpeedCurve(id string) (SpeedCurve, bool) {
	return speedCurveMap.Get(id)
}

func SnapshotSpeedCurveMap() map[string]SpeedCurve {
	return speedCurveMap.Items()
}

// InitCurves builds and registers all configured curves.
func InitCurves(configs []configuration.CurveConfig) error {
	for _, config := range configs {
		curve, err := NewSpeedCurve(config)
		if err != nil {
			return err
		}
		RegisterSpeedCurve(curve)
	}
	return nil
}
