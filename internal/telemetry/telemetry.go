package telemetry

import (
	"github.com/coolerd/coolerd/internal/duty"
)

// Reading is a normalized channel measurement derived from one status poll.
type Reading struct {
	// Duty is the estimated duty percentage, quantized to multiples of 10.
	Duty int `json:"duty"`
	// Rpm is the raw speed reported by the device.
	Rpm int `json:"rpm"`
}

// Status is the normalized result of one device status poll.
type Status struct {
	// Fans maps the one-based fan channel index to its reading.
	Fans map[int]Reading `json:"fans"`
	// AllFans holds a reading reported for the whole fan group when the
	// device does not index its fan channels.
	AllFans *Reading `json:"allFans,omitempty"`
	// Pump is the reading of the single pump channel, if present.
	Pump *Reading `json:"pump,omitempty"`
	// WaterTemp is the coolant temperature in °C, if reported.
	WaterTemp *float64 `json:"waterTemp,omitempty"`
}

// Record is a single key/value entry of the JSON status output.
type Record struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
	Unit  string      `json:"unit"`
}

// MaxFanIndex returns the highest fan channel index seen, or 0.
func (s Status) MaxFanIndex() int {
	max := 0
	for idx := range s.Fans {
		if idx > max {
			max = idx
		}
	}
	return max
}

func newReading(rpm int, scale duty.Scale) Reading {
	return Reading{
		Duty: scale.RpmToDuty(rpm),
		Rpm:  rpm,
	}
}
