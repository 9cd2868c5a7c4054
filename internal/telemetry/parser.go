package telemetry

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/coolerd/coolerd/internal/duty"
)

// Vendor drivers are wildly inconsistent in how they name their status
// entries: "Fan 1 speed", "fan1 speed", "fan speed 1" all occur in the wild.
// Classification therefore works on lowercased keys with permissive
// expressions instead of exact matches.
var (
	fanIndexExpr = regexp.MustCompile(`fan\s*(?:speed)?\s*(\d+)`)
	fanLineExpr  = regexp.MustCompile(`fan\s*(?:speed)?\s*(\d+)\s+(?:speed\s+)?(\d+)\s*(?:rpm)?\b`)
	pumpLineExpr = regexp.MustCompile(`pump\s*(?:speed)?\s*(\d+)\s*(?:rpm)?\b`)
	tempLineExpr = regexp.MustCompile(`(water|liquid|coolant)\s*temperature\s+([\d.]+)\s*°?c?`)

	coolantWords = []string{"water", "liquid", "coolant"}
)

// Parser converts raw liquidctl status output into a normalized Status.
// It is a pure transform: malformed entries are skipped, never raised.
type Parser struct {
	FanScale  duty.Scale
	PumpScale duty.Scale
}

func NewParser(fanScale duty.Scale, pumpScale duty.Scale) *Parser {
	return &Parser{
		FanScale:  fanScale,
		PumpScale: pumpScale,
	}
}

// ParseJSON decodes the output of "liquidctl status --json" and normalizes
// all recognized entries. The JSON shape is a list of device blocks, each
// carrying a list of key/value/unit records.
func (p *Parser) ParseJSON(data []byte) (Status, error) {
	var blocks []struct {
		Status []Record `json:"status"`
	}
	if err := json.Unmarshal(data, &blocks); err != nil {
		return Status{}, err
	}

	var records []Record
	for _, block := range blocks {
		records = append(records, block.Status...)
	}
	return p.ParseRecords(records), nil
}

// ParseRecords normalizes a flat list of status records.
// Duplicate keys for the same channel index resolve to the last one seen.
func (p *Parser) ParseRecords(records []Record) Status {
	status := Status{Fans: map[int]Reading{}}

	for _, record := range records {
		key := strings.ToLower(record.Key)

		if strings.Contains(key, "fan") && strings.Contains(key, "speed") {
			rpm, ok := coerceRpm(record.Value)
			if !ok {
				continue
			}
			reading := newReading(rpm, p.FanScale)
			if m := fanIndexExpr.FindStringSubmatch(key); m != nil {
				idx, err := strconv.Atoi(m[1])
				if err != nil {
					continue
				}
				status.Fans[idx] = reading
			} else {
				// no channel index, the driver reports the fan group as a whole
				status.AllFans = &reading
			}
			continue
		}

		if strings.Contains(key, "pump") && strings.Contains(key, "speed") {
			rpm, ok := coerceRpm(record.Value)
			if !ok {
				continue
			}
			reading := newReading(rpm, p.PumpScale)
			status.Pump = &reading
			continue
		}

		if strings.Contains(key, "temperature") && containsAny(key, coolantWords) {
			if temp, ok := coerceFloat(record.Value); ok {
				status.WaterTemp = &temp
			}
		}
	}

	return status
}

// ParseText normalizes line-oriented status output, one statement per line.
// Both statement orders seen across liquidctl drivers are accepted:
//
//	fan [speed] <idx> [speed] [:] <rpm> [rpm]
//	pump [speed] [:] <rpm> [rpm]
//	(water|liquid|coolant) temperature [:] <float> [°c]
func (p *Parser) ParseText(text string) Status {
	status := Status{Fans: map[int]Reading{}}

	for _, line := range strings.Split(text, "\n") {
		l := strings.ToLower(strings.TrimSpace(line))
		// colons separate key and value in some driver outputs
		l = strings.ReplaceAll(l, ":", " ")

		if m := fanLineExpr.FindStringSubmatch(l); m != nil {
			idx, err1 := strconv.Atoi(m[1])
			rpm, err2 := strconv.Atoi(m[2])
			if err1 == nil && err2 == nil {
				status.Fans[idx] = newReading(rpm, p.FanScale)
			}
			continue
		}

		if m := pumpLineExpr.FindStringSubmatch(l); m != nil {
			if rpm, err := strconv.Atoi(m[1]); err == nil {
				reading := newReading(rpm, p.PumpScale)
				status.Pump = &reading
			}
			continue
		}

		if m := tempLineExpr.FindStringSubmatch(l); m != nil {
			if temp, err := strconv.ParseFloat(m[2], 64); err == nil {
				status.WaterTemp = &temp
			}
		}
	}

	return status
}

func containsAny(s string, words []string) bool {
	for _, word := range words {
		if strings.Contains(s, word) {
			return true
		}
	}
	return false
}

// coerceRpm accepts the numeric and stringly-numeric value shapes different
// drivers emit. Unusable values are dropped instead of failing the poll.
func coerceRpm(value interface{}) (int, bool) {
	f, ok := coerceFloat(value)
	if !ok {
		return 0, false
	}
	if f < 0 {
		return 0, false
	}
	return int(f), true
}

func coerceFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
