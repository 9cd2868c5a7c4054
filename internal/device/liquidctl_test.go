package device

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/coolerd/coolerd/internal/configuration"
	"github.com/coolerd/coolerd/internal/duty"
	"github.com/coolerd/coolerd/internal/telemetry"
	"github.com/stretchr/testify/assert"
)

type mockRunner struct {
	calls   [][]string
	handler func(args []string) (string, error)
}

func (r *mockRunner) Run(args []string, timeout time.Duration) (string, error) {
	r.calls = append(r.calls, args)
	return r.handler(args)
}

func createDevice(handler func(args []string) (string, error)) (*LiquidctlDevice, *mockRunner) {
	runner := &mockRunner{handler: handler}
	parser := telemetry.NewParser(duty.DefaultFanScale, duty.DefaultPumpScale)
	d := NewLiquidctlDevice(configuration.DeviceConfig{
		ExecPath:      "liquidctl",
		StatusTimeout: 8 * time.Second,
		SetTimeout:    6 * time.Second,
		ListTimeout:   6 * time.Second,
	}, parser)
	d.runner = runner
	return d, runner
}

func TestSetFanDutyFirstCandidate(t *testing.T) {
	// GIVEN a CLI that accepts the first variant
	d, runner := createDevice(func(args []string) (string, error) {
		return "", nil
	})

	// WHEN
	ok := d.SetFanDuty(1, 50)

	// THEN
	assert.True(t, ok)
	assert.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"set", "fan1", "speed", "50"}, runner.calls[0])
}

func TestSetFanDutyThirdCandidate(t *testing.T) {
	// GIVEN a CLI that only knows the spaced channel name
	d, runner := createDevice(func(args []string) (string, error) {
		if args[1] == "fan 1" && args[2] == "speed" {
			return "", nil
		}
		return "", fmt.Errorf("unknown channel")
	})

	// WHEN
	ok := d.SetFanDuty(1, 60)

	// THEN the walk stops right after the first success
	assert.True(t, ok)
	assert.Len(t, runner.calls, 3)
	assert.Equal(t, []string{"set", "fan 1", "speed", "60"}, runner.calls[2])
}

func TestSetFanDutyAllCandidatesFail(t *testing.T) {
	// GIVEN
	d, runner := createDevice(func(args []string) (string, error) {
		return "", fmt.Errorf("unknown channel")
	})

	// WHEN
	ok := d.SetFanDuty(2, 40)

	// THEN every variant was tried, in order, without panicking
	assert.False(t, ok)
	assert.Len(t, runner.calls, 8)
	assert.Equal(t, []string{"set", "fan2", "speed", "40"}, runner.calls[0])
	assert.Equal(t, []string{"set", "fan", "duty", "40"}, runner.calls[7])
}

func TestSetFanDutyTimeoutIsFailure(t *testing.T) {
	// GIVEN a CLI that hangs on the first variant
	d, runner := createDevice(func(args []string) (string, error) {
		if args[1] == "fan1" && args[2] == "speed" {
			return "", context.DeadlineExceeded
		}
		return "", nil
	})

	// WHEN
	ok := d.SetFanDuty(1, 50)

	// THEN the timeout simply advances the walk
	assert.True(t, ok)
	assert.Len(t, runner.calls, 2)
	assert.Equal(t, []string{"set", "fan1", "duty", "50"}, runner.calls[1])
}

func TestSetPumpDutyCandidates(t *testing.T) {
	// GIVEN
	d, runner := createDevice(func(args []string) (string, error) {
		return "", fmt.Errorf("unknown channel")
	})

	// WHEN
	ok := d.SetPumpDuty(90)

	// THEN only the pump variants are tried
	assert.False(t, ok)
	assert.Len(t, runner.calls, 2)
	assert.Equal(t, []string{"set", "pump", "speed", "90"}, runner.calls[0])
	assert.Equal(t, []string{"set", "pump", "duty", "90"}, runner.calls[1])
}

func TestSetAllFansDuty(t *testing.T) {
	// GIVEN
	d, runner := createDevice(func(args []string) (string, error) {
		return "", nil
	})

	// WHEN
	ok := d.SetAllFansDuty(70)

	// THEN
	assert.True(t, ok)
	assert.Equal(t, []string{"set", "fans", "speed", "70"}, runner.calls[0])
}

func TestSetDutyWithDeviceMatch(t *testing.T) {
	// GIVEN a configured device match
	runner := &mockRunner{handler: func(args []string) (string, error) { return "", nil }}
	parser := telemetry.NewParser(duty.DefaultFanScale, duty.DefaultPumpScale)
	d := NewLiquidctlDevice(configuration.DeviceConfig{
		ExecPath: "liquidctl",
		Match:    "kraken",
	}, parser)
	d.runner = runner

	// WHEN
	d.SetPumpDuty(80)

	// THEN every invocation narrows down to the matched device
	assert.Equal(t, []string{"-m", "kraken", "set", "pump", "speed", "80"}, runner.calls[0])
}

func TestReadStatusJson(t *testing.T) {
	// GIVEN a CLI that supports json status output
	d, _ := createDevice(func(args []string) (string, error) {
		if strings.Contains(strings.Join(args, " "), "--json") {
			return `[{"status": [
				{"key": "Fan 1 speed", "value": 800, "unit": "rpm"},
				{"key": "Pump speed", "value": 1850, "unit": "rpm"},
				{"key": "Water temperature", "value": 33.4, "unit": "°C"}
			]}]`, nil
		}
		return "", fmt.Errorf("unexpected invocation")
	})

	// WHEN
	status, err := d.ReadStatus()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 800, status.Fans[1].Rpm)
	assert.Equal(t, 50, status.Fans[1].Duty)
	assert.NotNil(t, status.Pump)
	assert.NotNil(t, status.WaterTemp)
	assert.Equal(t, 33.4, *status.WaterTemp)
}

func TestReadStatusTextFallback(t *testing.T) {
	// GIVEN a CLI without json support
	d, runner := createDevice(func(args []string) (string, error) {
		if strings.Contains(strings.Join(args, " "), "--json") {
			return "", fmt.Errorf("unrecognized arguments: --json")
		}
		return "Fan 1 Speed: 800\nPump Speed: 1850\nWater Temperature: 33.4", nil
	})

	// WHEN
	status, err := d.ReadStatus()

	// THEN the text form yields the same readings
	assert.NoError(t, err)
	assert.Len(t, runner.calls, 2)
	assert.Equal(t, 800, status.Fans[1].Rpm)
	assert.Equal(t, 50, status.Fans[1].Duty)
	assert.Equal(t, 33.4, *status.WaterTemp)
}

func TestReadStatusMalformedJsonFallsBack(t *testing.T) {
	// GIVEN a CLI that emits garbage on --json but valid text output
	d, _ := createDevice(func(args []string) (string, error) {
		if strings.Contains(strings.Join(args, " "), "--json") {
			return "not json at all", nil
		}
		return "Fan 1 Speed: 1000", nil
	})

	// WHEN
	status, err := d.ReadStatus()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 1000, status.Fans[1].Rpm)
}

func TestReadStatusBothFormsFail(t *testing.T) {
	// GIVEN
	d, _ := createDevice(func(args []string) (string, error) {
		return "", fmt.Errorf("no device found")
	})

	// WHEN
	_, err := d.ReadStatus()

	// THEN
	assert.Error(t, err)
}

func TestListDevices(t *testing.T) {
	// GIVEN
	d, runner := createDevice(func(args []string) (string, error) {
		return "Device #0: NZXT Kraken X (X53, X63 or X73)", nil
	})

	// WHEN
	output, err := d.ListDevices()

	// THEN
	assert.NoError(t, err)
	assert.Contains(t, output, "Kraken")
	assert.Equal(t, []string{"list"}, runner.calls[0])
}
