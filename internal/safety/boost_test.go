package safety

import (
	"testing"

	"github.com/coolerd/coolerd/internal/configuration"
	"github.com/stretchr/testify/assert"
)

func defaultSafetyConfig() configuration.SafetyConfig {
	return configuration.SafetyConfig{
		Enabled:    true,
		CpuCrit:    85,
		WaterCrit:  45,
		Hysteresis: 5,
	}
}

func temp(value float64) *float64 {
	return &value
}

func intPtr(value int) *int {
	return &value
}

func currentDuties() Snapshot {
	return Snapshot{
		FanDuties: map[int]int{1: 40, 2: 40},
		PumpDuty:  intPtr(60),
	}
}

func TestBoostEntersOnCpuCritical(t *testing.T) {
	// GIVEN
	controller := NewController(defaultSafetyConfig())

	// WHEN the cpu reaches its critical threshold
	action := controller.Update(temp(85), temp(35), currentDuties())

	// THEN
	assert.Equal(t, ActionBoost, action)
	assert.True(t, controller.Boosted())
}

func TestBoostEntersOnWaterCritical(t *testing.T) {
	// GIVEN
	controller := NewController(defaultSafetyConfig())

	// WHEN the loop reaches its critical threshold
	action := controller.Update(temp(60), temp(45), currentDuties())

	// THEN
	assert.Equal(t, ActionBoost, action)
}

func TestBoostBelowThresholds(t *testing.T) {
	// GIVEN
	controller := NewController(defaultSafetyConfig())

	// WHEN
	action := controller.Update(temp(84.9), temp(44.9), currentDuties())

	// THEN
	assert.Equal(t, ActionNone, action)
	assert.False(t, controller.Boosted())
}

func TestBoostHysteresis(t *testing.T) {
	// GIVEN an active boost triggered at the cpu threshold
	controller := NewController(defaultSafetyConfig())
	assert.Equal(t, ActionBoost, controller.Update(temp(85), temp(35), currentDuties()))

	// WHEN the cpu cools, but not past the hysteresis band
	action := controller.Update(temp(81), temp(35), currentDuties())

	// THEN the boost keeps holding
	assert.Equal(t, ActionBoost, action)
	assert.True(t, controller.Boosted())

	// WHEN it reaches threshold minus hysteresis
	action = controller.Update(temp(80), temp(35), currentDuties())

	// THEN the previous duties come back
	assert.Equal(t, ActionRestore, action)
	assert.False(t, controller.Boosted())
}

func TestBoostSnapshotIsKeptDuringBoost(t *testing.T) {
	// GIVEN a boost that captured the pre-boost duties
	controller := NewController(defaultSafetyConfig())
	original := currentDuties()
	controller.Update(temp(90), nil, original)

	// WHEN later ticks report full duty as the current state
	boosted := Snapshot{FanDuties: map[int]int{1: 100, 2: 100}, PumpDuty: intPtr(100)}
	controller.Update(temp(95), nil, boosted)

	// THEN the restore snapshot still holds the original duties
	assert.Equal(t, original, controller.Snapshot())
}

func TestBoostMissingSensorNeverTriggers(t *testing.T) {
	// GIVEN
	controller := NewController(defaultSafetyConfig())

	// WHEN no sensor has a reading
	action := controller.Update(nil, nil, currentDuties())

	// THEN
	assert.Equal(t, ActionNone, action)
}

func TestBoostMissingSensorDoesNotBlockRecovery(t *testing.T) {
	// GIVEN a boost triggered by the water temperature
	controller := NewController(defaultSafetyConfig())
	controller.Update(nil, temp(46), currentDuties())

	// WHEN the water sensor reading disappears while the cpu is cool
	action := controller.Update(temp(50), nil, currentDuties())

	// THEN the boost ends, an absent reading cannot hold it
	assert.Equal(t, ActionRestore, action)
}

func TestBoostDisabledControllerDoesNothing(t *testing.T) {
	// GIVEN
	config := defaultSafetyConfig()
	config.Enabled = false
	controller := NewController(config)

	// WHEN
	action := controller.Update(temp(99), temp(99), currentDuties())

	// THEN
	assert.Equal(t, ActionNone, action)
}

func TestBoostDisableMidBoostRestores(t *testing.T) {
	// GIVEN an active boost
	controller := NewController(defaultSafetyConfig())
	original := currentDuties()
	controller.Update(temp(90), nil, original)

	// WHEN the feature is disabled while boosting
	action := controller.SetEnabled(false)

	// THEN the previous duties are restored immediately
	assert.Equal(t, ActionRestore, action)
	assert.False(t, controller.Boosted())
	assert.Equal(t, original, controller.Snapshot())
}

func TestBoostReentryAfterRecovery(t *testing.T) {
	// GIVEN a boost that came and went
	controller := NewController(defaultSafetyConfig())
	first := currentDuties()
	controller.Update(temp(90), nil, first)
	controller.Update(temp(70), nil, first)

	// WHEN a second boost starts with different duties in effect
	second := Snapshot{FanDuties: map[int]int{1: 60, 2: 60}, PumpDuty: intPtr(80)}
	action := controller.Update(temp(88), nil, second)

	// THEN the new snapshot reflects the duties at the second entry
	assert.Equal(t, ActionBoost, action)
	assert.Equal(t, second, controller.Snapshot())
}
