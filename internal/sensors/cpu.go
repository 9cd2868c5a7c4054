package sensors

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/asecurityteam/rolling"
	"github.com/coolerd/coolerd/internal/configuration"
	"github.com/coolerd/coolerd/internal/ui"
	"github.com/coolerd/coolerd/internal/util"
)

const (
	// temperatures outside this window are sensor glitches, not CPU readings
	minPlausibleTemp = 5.0
	maxPlausibleTemp = 120.0

	sensorsCmdTimeout = 2 * time.Second
)

var (
	cpuChipExpr   = regexp.MustCompile(`^(k10temp|coretemp|zenpower)`)
	cpuLabelExpr  = regexp.MustCompile(`(?i)\b(tctl|tdie|package|core|cpu)\b`)
	tempInputExpr = regexp.MustCompile(`^temp\d*_input$`)
	textLineExpr  = regexp.MustCompile(`^([^:]+):\s*\+?(-?[\d.]+)\s*°?C`)
)

// CpuSensor reports the hottest plausible CPU temperature it can find. It
// reads libsensors directly and falls back to the lm-sensors CLI when the
// library is not usable in the current environment.
type CpuSensor struct {
	mu         sync.Mutex
	window     *rolling.PointPolicy
	windowSize int
	seeded     bool

	// overridable for testing
	readers []func() (float64, error)
}

func NewCpuSensor(windowSize int) *CpuSensor {
	sensor := &CpuSensor{
		window:     util.CreateRollingWindow(windowSize),
		windowSize: windowSize,
	}
	sensor.readers = []func() (float64, error){
		sensor.readLibsensors,
		sensor.readSensorsJson,
		sensor.readSensorsText,
	}
	return sensor
}

func (sensor *CpuSensor) GetId() string {
	return configuration.SensorCpu
}

func (sensor *CpuSensor) GetValue() (float64, error) {
	var lastErr error
	for _, read := range sensor.readers {
		value, err := read()
		if err != nil {
			lastErr = err
			continue
		}
		sensor.appendValue(value)
		return value, nil
	}
	return 0, fmt.Errorf("cannot read cpu temperature: %w", lastErr)
}

func (sensor *CpuSensor) GetMovingAvg() float64 {
	sensor.mu.Lock()
	defer sensor.mu.Unlock()
	return util.GetWindowAvg(sensor.window)
}

func (sensor *CpuSensor) appendValue(value float64) {
	sensor.mu.Lock()
	defer sensor.mu.Unlock()
	if !sensor.seeded {
		util.FillWindow(sensor.window, sensor.windowSize, value)
		sensor.seeded = true
		return
	}
	sensor.window.Append(value)
}

func (sensor *CpuSensor) readSensorsJson() (float64, error) {
	output, err := util.SafeCmdExecution("sensors", []string{"-j"}, sensorsCmdTimeout)
	if err != nil {
		return 0, err
	}
	return parseSensorsJson([]byte(output))
}

func (sensor *CpuSensor) readSensorsText() (float64, error) {
	output, err := util.SafeCmdExecution("sensors", []string{}, sensorsCmdTimeout)
	if err != nil {
		return 0, err
	}
	value, err := parseSensorsText(output)
	if err == nil {
		ui.Debug("Using lm-sensors text output for cpu temperature")
	}
	return value, err
}

func parseSensorsJson(data []byte) (float64, error) {
	var chips map[string]interface{}
	if err := json.Unmarshal(data, &chips); err != nil {
		return 0, fmt.Errorf("cannot parse sensors json output: %w", err)
	}

	hottest := 0.0
	found := false
	for chipName, chipData := range chips {
		features, ok := chipData.(map[string]interface{})
		if !ok {
			continue
		}
		chipMatches := cpuChipExpr.MatchString(chipName)
		for label, featureData := range features {
			values, ok := featureData.(map[string]interface{})
			if !ok {
				continue
			}
			if !chipMatches && !cpuLabelExpr.MatchString(label) {
				continue
			}
			for key, raw := range values {
				if !tempInputExpr.MatchString(key) {
					continue
				}
				value, ok := raw.(float64)
				if !ok || !plausibleTemp(value) {
					continue
				}
				if !found || value > hottest {
					hottest = value
					found = true
				}
			}
		}
	}

	if !found {
		return 0, fmt.Errorf("no cpu temperature in sensors json output")
	}
	return hottest, nil
}

func parseSensorsText(output string) (float64, error) {
	hottest := 0.0
	found := false

	chipMatches := false
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if len(strings.TrimSpace(line)) == 0 {
			chipMatches = false
			continue
		}
		// chip section headers have no value part
		if !strings.Contains(line, ":") {
			chipMatches = cpuChipExpr.MatchString(strings.TrimSpace(line))
			continue
		}

		match := textLineExpr.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		label := strings.TrimSpace(match[1])
		if !chipMatches && !cpuLabelExpr.MatchString(label) {
			continue
		}
		var value float64
		if _, err := fmt.Sscanf(match[2], "%f", &value); err != nil {
			continue
		}
		if !plausibleTemp(value) {
			continue
		}
		if !found || value > hottest {
			hottest = value
			found = true
		}
	}

	if !found {
		return 0, fmt.Errorf("no cpu temperature in sensors text output")
	}
	return hottest, nil
}

func plausibleTemp(value float64) bool {
	return value >= minPlausibleTemp && value <= maxPlausibleTemp
}
