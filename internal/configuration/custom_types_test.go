package configuration

import (
	"testing"

	"github.com/mitchellh/mapstructure"
	"github.com/stretchr/testify/assert"
)

func decodePoints(t *testing.T, input interface{}) (CurvePoints, error) {
	t.Helper()

	var target struct {
		Points CurvePoints
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: curvePointsHookFunc(),
		Result:     &target,
	})
	assert.NoError(t, err)

	err = decoder.Decode(map[string]interface{}{"points": input})
	return target.Points, err
}

func TestCurvePointsFromMap(t *testing.T) {
	// GIVEN a temperature -> duty map as produced by the YAML decoder
	input := map[string]interface{}{
		"80": 100,
		"30": 20,
		"60": 60,
	}

	// WHEN
	points, err := decodePoints(t, input)

	// THEN the points come out sorted ascending by temperature
	assert.NoError(t, err)
	assert.Equal(t, CurvePoints{
		{Temp: 30, Duty: 20},
		{Temp: 60, Duty: 60},
		{Temp: 80, Duty: 100},
	}, points)
}

func TestCurvePointsFromPairs(t *testing.T) {
	// GIVEN a list of [temp, duty] pairs
	input := []interface{}{
		[]interface{}{30, 20},
		[]interface{}{60, 60},
		[]interface{}{80, 100},
	}

	// WHEN
	points, err := decodePoints(t, input)

	// THEN the given order is preserved
	assert.NoError(t, err)
	assert.Equal(t, CurvePoints{
		{Temp: 30, Duty: 20},
		{Temp: 60, Duty: 60},
		{Temp: 80, Duty: 100},
	}, points)
}

func TestCurvePointsPairOrderIsKept(t *testing.T) {
	// GIVEN pairs in descending order
	input := []interface{}{
		[]interface{}{80, 100},
		[]interface{}{30, 20},
	}

	// WHEN
	points, err := decodePoints(t, input)

	// THEN decoding succeeds, ordering is validation's business
	assert.NoError(t, err)
	assert.Equal(t, 80.0, points[0].Temp)
}

func TestCurvePointsInvalidPair(t *testing.T) {
	// GIVEN
	input := []interface{}{
		[]interface{}{30, 20, 99},
	}

	// WHEN
	_, err := decodePoints(t, input)

	// THEN
	assert.Error(t, err)
}

func TestCurvePointsInvalidTemperature(t *testing.T) {
	// GIVEN
	input := map[string]interface{}{
		"warm": 20,
	}

	// WHEN
	_, err := decodePoints(t, input)

	// THEN
	assert.Error(t, err)
}
