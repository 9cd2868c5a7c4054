package duty

import (
	"github.com/coolerd/coolerd/internal/util"
)

const (
	// MinDuty is the lowest duty the hardware distinguishes from "off";
	// below this the device keeps spinning at its minimum RPM.
	MinDuty = 20
	MaxDuty = 100

	// Step is the quantization granularity of user facing duty values.
	Step = 10

	// RpmStep is the granularity RPM estimates are rounded to.
	RpmStep = 100
)

// Scale maps between a duty percentage and a device RPM range.
// The mapping is linear over duty [20..100] and saturates outside of it.
// DutyToRpm and RpmToDuty round independently (100 RPM vs. 10 duty points)
// and are therefore only exact inverses on the canonical 10-point duty grid.
type Scale struct {
	MinRpm int
	MaxRpm int
}

// DefaultFanScale covers typical radiator fans.
var DefaultFanScale = Scale{MinRpm: 200, MaxRpm: 2000}

// DefaultPumpScale covers typical AIO pumps.
var DefaultPumpScale = Scale{MinRpm: 1000, MaxRpm: 2700}

// Quantize rounds a duty value to the nearest multiple of Step.
func Quantize(value int) int {
	return util.RoundToNearest(float64(value), Step)
}

// DutyToRpm estimates the RPM the device will settle at for the given duty.
func (s Scale) DutyToRpm(duty int) int {
	if duty <= MinDuty {
		return s.MinRpm
	}
	if duty >= MaxDuty {
		return s.MaxRpm
	}
	ratio := util.Ratio(float64(duty), MinDuty, MaxDuty)
	rpm := float64(s.MinRpm) + ratio*float64(s.MaxRpm-s.MinRpm)
	return util.RoundToNearest(rpm, RpmStep)
}

// RpmToDuty estimates the duty that produces the given RPM.
func (s Scale) RpmToDuty(rpm int) int {
	if rpm <= s.MinRpm {
		return MinDuty
	}
	if rpm >= s.MaxRpm {
		return MaxDuty
	}
	ratio := util.Ratio(float64(rpm), float64(s.MinRpm), float64(s.MaxRpm))
	pct := MinDuty + ratio*(MaxDuty-MinDuty)
	return util.RoundToNearest(pct, Step)
}
