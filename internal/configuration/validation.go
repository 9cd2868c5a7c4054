package configuration

import (
	"fmt"
	"strings"

	"github.com/coolerd/coolerd/internal/ui"
	"github.com/looplab/tarjan"
	"golang.org/x/exp/slices"
)

func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	if err := validateScales(config); err != nil {
		return err
	}
	if err := validateSafety(config); err != nil {
		return err
	}
	if err := validateCurves(config); err != nil {
		return err
	}
	return validateProfiles(config)
}

func validateScales(config *Configuration) error {
	for name, scale := range map[string]ScaleConfig{
		"fanScale":  config.FanScale,
		"pumpScale": config.PumpScale,
	} {
		if scale.MinRpm < 0 {
			return fmt.Errorf("%s: minRpm must be >= 0", name)
		}
		if scale.MinRpm >= scale.MaxRpm {
			return fmt.Errorf("%s: minRpm must be below maxRpm", name)
		}
	}
	return nil
}

func validateSafety(config *Configuration) error {
	safety := config.Safety
	if safety.Hysteresis < 0 {
		return fmt.Errorf("safety: hysteresis must be >= 0")
	}
	if safety.CpuCrit <= 0 || safety.WaterCrit <= 0 {
		return fmt.Errorf("safety: critical temperatures must be > 0")
	}
	return nil
}

func validateCurves(config *Configuration) error {
	graph := make(map[interface{}][]interface{})

	knownSensors := []string{SensorCpu, SensorCoolant}

	for _, curveConfig := range config.Curves.Definitions {
		subConfigs := 0
		if curveConfig.Linear != nil {
			subConfigs++
		}
		if curveConfig.Function != nil {
			subConfigs++
		}
		if subConfigs > 1 {
			return fmt.Errorf("curve %s: only one curve type can be used per curve definition block", curveConfig.ID)
		}
		if subConfigs <= 0 {
			return fmt.Errorf("curve %s: sub-configuration for curve is missing, use one of: linear | function", curveConfig.ID)
		}

		if curveConfig.Linear != nil {
			if !slices.Contains(knownSensors, curveConfig.Linear.Sensor) {
				return fmt.Errorf("curve %s: unknown sensor '%s', use one of: %s",
					curveConfig.ID, curveConfig.Linear.Sensor, strings.Join(knownSensors, " | "))
			}
			if err := validatePoints(curveConfig.ID, curveConfig.Linear.Points); err != nil {
				return err
			}
		}

		if curveConfig.Function != nil {
			supportedTypes := []string{FunctionMinimum, FunctionAverage, FunctionMaximum}
			if !slices.Contains(supportedTypes, curveConfig.Function.Type) {
				return fmt.Errorf("curve %s: unsupported function type '%s', use one of: %s",
					curveConfig.ID, curveConfig.Function.Type, strings.Join(supportedTypes, " | "))
			}

			var connections []interface{}
			for _, curve := range curveConfig.Function.Curves {
				if curve == curveConfig.ID {
					return fmt.Errorf("curve %s: a curve cannot reference itself", curveConfig.ID)
				}
				if !curveIdExists(curve, config) {
					return fmt.Errorf("curve %s: no curve definition with id '%s' found", curveConfig.ID, curve)
				}
				connections = append(connections, curve)
			}
			graph[curveConfig.ID] = connections
		}

		if !isCurveConfigInUse(curveConfig, config) {
			ui.Warning("Unused curve configuration: %s", curveConfig.ID)
		}
	}

	if !curveIdExists(config.Curves.Target, config) {
		return fmt.Errorf("curves: no curve definition with id '%s' found for target", config.Curves.Target)
	}

	return validateNoLoops(graph)
}

// validatePoints rejects point lists whose temperatures descend. Out-of-order
// points would make the segment scan ambiguous, so they are a configuration
// error rather than something to guess around. Equal temperatures are legal,
// they form a step in the curve.
func validatePoints(curveId string, points CurvePoints) error {
	if len(points) < 2 {
		return fmt.Errorf("curve %s: at least two control points are required", curveId)
	}
	for i, point := range points {
		if point.Duty < 0 || point.Duty > 100 {
			return fmt.Errorf("curve %s: duty %d out of range [0..100]", curveId, point.Duty)
		}
		if i > 0 && points[i-1].Temp > point.Temp {
			return fmt.Errorf("curve %s: control point temperatures must be ascending (%.1f > %.1f)",
				curveId, points[i-1].Temp, point.Temp)
		}
	}
	return nil
}

func validateNoLoops(graph map[interface{}][]interface{}) error {
	output := tarjan.Connections(graph)
	for _, items := range output {
		if len(items) > 1 {
			return fmt.Errorf("you have created a curve dependency cycle: %v", items)
		}
	}
	return nil
}

func validateProfiles(config *Configuration) error {
	for name, profile := range config.Profiles {
		for _, d := range profile.FanDuties {
			if d < 0 || d > 100 {
				return fmt.Errorf("profile %s: fan duty %d out of range [0..100]", name, d)
			}
		}
		if profile.PumpDuty < 0 || profile.PumpDuty > 100 {
			return fmt.Errorf("profile %s: pump duty %d out of range [0..100]", name, profile.PumpDuty)
		}
	}
	return nil
}

func isCurveConfigInUse(config CurveConfig, configuration *Configuration) bool {
	if configuration.Curves.Target == config.ID {
		return true
	}
	for _, curveConfig := range configuration.Curves.Definitions {
		if curveConfig.Function != nil && slices.Contains(curveConfig.Function.Curves, config.ID) {
			return true
		}
	}
	return false
}

func curveIdExists(curveId string, config *Configuration) bool {
	for _, curve := range config.Curves.Definitions {
		if curve.ID == curveId {
			return true
		}
	}
	return false
}
