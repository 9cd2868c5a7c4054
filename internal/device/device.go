package device

import (
	"time"

	"github.com/coolerd/coolerd/internal/telemetry"
)

// Device is the write/read surface of a cooling device.
type Device interface {
	// ReadStatus polls the device and returns the parsed channel readings
	ReadStatus() (telemetry.Status, error)

	// SetFanDuty applies a duty percentage to a single fan channel,
	// returns whether any command variant succeeded
	SetFanDuty(index int, duty int) bool
	// SetAllFansDuty applies a duty percentage to the aggregate fan channel
	SetAllFansDuty(duty int) bool
	// SetPumpDuty applies a duty percentage to the pump channel
	SetPumpDuty(duty int) bool
}

// Runner executes a device command and returns its stdout. It exists so
// tests can stand in for the real CLI.
type Runner interface {
	Run(args []string, timeout time.Duration) (string, error)
}
