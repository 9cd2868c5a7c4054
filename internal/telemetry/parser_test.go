package telemetry

import (
	"testing"

	"github.com/coolerd/coolerd/internal/duty"
	"github.com/stretchr/testify/assert"
)

func createParser() *Parser {
	return NewParser(duty.DefaultFanScale, duty.DefaultPumpScale)
}

func TestParseTextExtractsChannels(t *testing.T) {
	// GIVEN
	parser := createParser()
	text := "Fan 1 Speed: 800\n" +
		"Fan 2 Speed: 1000\n" +
		"Pump Speed: 2500\n" +
		"Water Temperature: 31.5"

	// WHEN
	status := parser.ParseText(text)

	// THEN
	assert.Equal(t, map[int]Reading{
		1: {Duty: 50, Rpm: 800},
		2: {Duty: 60, Rpm: 1000},
	}, status.Fans)
	assert.Equal(t, &Reading{Duty: 90, Rpm: 2500}, status.Pump)
	assert.NotNil(t, status.WaterTemp)
	assert.Equal(t, 31.5, *status.WaterTemp)
}

func TestParseTextWithUnitSuffixes(t *testing.T) {
	// GIVEN
	parser := createParser()
	text := "fan speed 1 800 rpm\n" +
		"pump speed 2500 rpm\n" +
		"liquid temperature 31.5 °c"

	// WHEN
	status := parser.ParseText(text)

	// THEN
	assert.Equal(t, Reading{Duty: 50, Rpm: 800}, status.Fans[1])
	assert.Equal(t, &Reading{Duty: 90, Rpm: 2500}, status.Pump)
	assert.Equal(t, 31.5, *status.WaterTemp)
}

func TestParseTextIgnoresUnrelatedLines(t *testing.T) {
	// GIVEN
	parser := createParser()
	text := "Firmware version: 2.10.219\n" +
		"LED count: 16\n" +
		"Fan 1 Speed: 600"

	// WHEN
	status := parser.ParseText(text)

	// THEN
	assert.Len(t, status.Fans, 1)
	assert.Nil(t, status.Pump)
	assert.Nil(t, status.WaterTemp)
}

func TestParseRecordsClassifiesKeys(t *testing.T) {
	// GIVEN
	parser := createParser()
	records := []Record{
		{Key: "Fan 1 speed", Value: 800.0, Unit: "rpm"},
		{Key: "fan2 speed", Value: 1000.0, Unit: "rpm"},
		{Key: "Pump speed", Value: 2500.0, Unit: "rpm"},
		{Key: "Liquid temperature", Value: 31.5, Unit: "°C"},
	}

	// WHEN
	status := parser.ParseRecords(records)

	// THEN
	assert.Equal(t, map[int]Reading{
		1: {Duty: 50, Rpm: 800},
		2: {Duty: 60, Rpm: 1000},
	}, status.Fans)
	assert.Equal(t, &Reading{Duty: 90, Rpm: 2500}, status.Pump)
	assert.Equal(t, 31.5, *status.WaterTemp)
}

func TestParseRecordsKeyOrderVariants(t *testing.T) {
	// GIVEN
	parser := createParser()
	records := []Record{
		{Key: "fan speed 3", Value: 1400.0, Unit: "rpm"},
		{Key: "Coolant temperature", Value: "31.5", Unit: "°C"},
	}

	// WHEN
	status := parser.ParseRecords(records)

	// THEN
	assert.Equal(t, Reading{Duty: 70, Rpm: 1400}, status.Fans[3])
	assert.Equal(t, 31.5, *status.WaterTemp)
}

func TestParseRecordsAggregateFanKey(t *testing.T) {
	// GIVEN a fan speed entry without a channel index
	parser := createParser()
	records := []Record{
		{Key: "Fan speed", Value: 1100.0, Unit: "rpm"},
	}

	// WHEN
	status := parser.ParseRecords(records)

	// THEN it is reported for the whole fan group
	assert.Empty(t, status.Fans)
	assert.Equal(t, &Reading{Duty: 60, Rpm: 1100}, status.AllFans)
}

func TestParseRecordsSkipsUnusableValues(t *testing.T) {
	// GIVEN
	parser := createParser()
	records := []Record{
		{Key: "Fan 1 speed", Value: "n/a", Unit: "rpm"},
		{Key: "Pump speed", Value: nil, Unit: "rpm"},
		{Key: "Water temperature", Value: "warm", Unit: "°C"},
		{Key: "Fan 2 speed", Value: "900", Unit: "rpm"},
	}

	// WHEN
	status := parser.ParseRecords(records)

	// THEN malformed entries are dropped without failing the poll
	assert.Equal(t, map[int]Reading{2: {Duty: 50, Rpm: 900}}, status.Fans)
	assert.Nil(t, status.Pump)
	assert.Nil(t, status.WaterTemp)
}

func TestParseRecordsDuplicateKeysLastOneWins(t *testing.T) {
	// GIVEN two entries for the same channel index
	parser := createParser()
	records := []Record{
		{Key: "Fan 1 speed", Value: 800.0, Unit: "rpm"},
		{Key: "fan1 speed", Value: 1200.0, Unit: "rpm"},
	}

	// WHEN
	status := parser.ParseRecords(records)

	// THEN the last reading is kept
	assert.Equal(t, Reading{Duty: 60, Rpm: 1200}, status.Fans[1])
}

func TestParseJSON(t *testing.T) {
	// GIVEN the block shape emitted by "status --json"
	parser := createParser()
	data := []byte(`[
		{
			"bus": "hid",
			"description": "Corsair Commander Pro",
			"status": [
				{"key": "Fan 1 speed", "value": 800, "unit": "rpm"},
				{"key": "Pump speed", "value": 2500, "unit": "rpm"},
				{"key": "Water temperature", "value": 31.5, "unit": "°C"}
			]
		}
	]`)

	// WHEN
	status, err := parser.ParseJSON(data)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, Reading{Duty: 50, Rpm: 800}, status.Fans[1])
	assert.Equal(t, &Reading{Duty: 90, Rpm: 2500}, status.Pump)
	assert.Equal(t, 31.5, *status.WaterTemp)
}

func TestParseJSONInvalidPayload(t *testing.T) {
	// GIVEN
	parser := createParser()

	// WHEN
	_, err := parser.ParseJSON([]byte("{"))

	// THEN
	assert.Error(t, err)
}

func TestMaxFanIndex(t *testing.T) {
	status := Status{Fans: map[int]Reading{1: {}, 4: {}, 2: {}}}
	assert.Equal(t, 4, status.MaxFanIndex())
	assert.Equal(t, 0, Status{Fans: map[int]Reading{}}.MaxFanIndex())
}
