package device

import (
	"fmt"
	"strconv"
)

// Candidate is one way of naming a channel on the CLI. Firmware and driver
// versions disagree about channel naming, so every set operation walks a
// list of candidates until one is accepted.
type Candidate struct {
	Channel string
	Keyword string
}

func (c Candidate) Args(duty int) []string {
	return []string{"set", c.Channel, c.Keyword, strconv.Itoa(duty)}
}

func (c Candidate) String() string {
	return fmt.Sprintf("%s/%s", c.Channel, c.Keyword)
}

// FanCandidates returns the command variants for a single fan channel,
// most specific first. The aggregate channel names act as a last resort
// for devices that do not address fans individually.
func FanCandidates(index int) []Candidate {
	indexed := strconv.Itoa(index)
	return []Candidate{
		{Channel: "fan" + indexed, Keyword: "speed"},
		{Channel: "fan" + indexed, Keyword: "duty"},
		{Channel: "fan " + indexed, Keyword: "speed"},
		{Channel: "fan " + indexed, Keyword: "duty"},
		{Channel: "fans", Keyword: "speed"},
		{Channel: "fans", Keyword: "duty"},
		{Channel: "fan", Keyword: "speed"},
		{Channel: "fan", Keyword: "duty"},
	}
}

// AllFansCandidates returns the command variants for the aggregate fan
// channel.
func AllFansCandidates() []Candidate {
	return []Candidate{
		{Channel: "fans", Keyword: "speed"},
		{Channel: "fans", Keyword: "duty"},
		{Channel: "fan", Keyword: "speed"},
		{Channel: "fan", Keyword: "duty"},
	}
}

// PumpCandidates returns the command variants for the pump channel.
func PumpCandidates() []Candidate {
	return []Candidate{
		{Channel: "pump", Keyword: "speed"},
		{Channel: "pump", Keyword: "duty"},
	}
}
