package util

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestRatio(t *testing.T) {
	// GIVEN
	rangeMin := 20.0
	rangeMax := 100.0
	target := 60.0

	// WHEN
	result := Ratio(target, rangeMin, rangeMax)

	// THEN
	assert.Equal(t, 0.5, result)
}

func TestUpdateSimpleMovingAvg(t *testing.T) {
	// GIVEN
	oldAvg := 30.0
	n := 10

	// WHEN
	result := UpdateSimpleMovingAvg(oldAvg, n, 40.0)

	// THEN
	assert.Equal(t, 31.0, result)
}

func TestCoerce(t *testing.T) {
	assert.Equal(t, 0, Coerce(-10, 0, 100))
	assert.Equal(t, 100, Coerce(140, 0, 100))
	assert.Equal(t, 42, Coerce(42, 0, 100))
}

func TestRoundToNearest(t *testing.T) {
	assert.Equal(t, 800, RoundToNearest(787.5, 100))
	assert.Equal(t, 50, RoundToNearest(45.0, 10))
	assert.Equal(t, 40, RoundToNearest(44.9, 10))
}
