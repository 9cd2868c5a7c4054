package safety

import (
	"sync"

	"github.com/coolerd/coolerd/internal/configuration"
)

// Action tells the control loop what to do with the device after a
// safety evaluation.
type Action int

const (
	// ActionNone leaves the channels under normal control.
	ActionNone Action = iota
	// ActionBoost pins all channels to full duty.
	ActionBoost
	// ActionRestore re-applies the duties captured when the boost began.
	ActionRestore
)

// Snapshot captures the channel duties in effect before a boost, so they
// can be restored once temperatures have recovered.
type Snapshot struct {
	FanDuties   map[int]int
	AllFansDuty *int
	PumpDuty    *int
}

// Controller is the emergency boost state machine. When any watched
// temperature reaches its critical threshold, all channels are forced to
// full duty until every temperature has dropped below its threshold minus
// the hysteresis. A sensor without a reading never triggers a boost and
// never blocks leaving one.
type Controller struct {
	mu       sync.Mutex
	config   configuration.SafetyConfig
	boosted  bool
	snapshot Snapshot
}

func NewController(config configuration.SafetyConfig) *Controller {
	return &Controller{
		config: config,
	}
}

// Update evaluates the given temperatures against the thresholds and
// returns the action to take. current holds the duties currently in effect
// and is captured as the restore snapshot when a boost begins. A nil
// temperature means the sensor has no reading.
func (c *Controller) Update(cpuTemp *float64, waterTemp *float64, current Snapshot) Action {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.config.Enabled {
		if c.boosted {
			// disabled mid-boost, hand the channels back immediately
			c.boosted = false
			return ActionRestore
		}
		return ActionNone
	}

	if !c.boosted {
		if c.overCritical(cpuTemp, waterTemp) {
			c.snapshot = current
			c.boosted = true
			return ActionBoost
		}
		return ActionNone
	}

	if c.recovered(cpuTemp, waterTemp) {
		c.boosted = false
		return ActionRestore
	}

	// still boosted, keep the snapshot from the original entry
	return ActionBoost
}

// SetEnabled toggles the boost feature at runtime. Disabling while a boost
// is active returns ActionRestore so the caller can undo it right away.
func (c *Controller) SetEnabled(enabled bool) Action {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.config.Enabled = enabled
	if !enabled && c.boosted {
		c.boosted = false
		return ActionRestore
	}
	return ActionNone
}

func (c *Controller) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config.Enabled
}

func (c *Controller) Boosted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.boosted
}

// Snapshot returns the duties captured when the current boost began.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

func (c *Controller) overCritical(cpuTemp *float64, waterTemp *float64) bool {
	if cpuTemp != nil && *cpuTemp >= c.config.CpuCrit {
		return true
	}
	if waterTemp != nil && *waterTemp >= c.config.WaterCrit {
		return true
	}
	return false
}

func (c *Controller) recovered(cpuTemp *float64, waterTemp *float64) bool {
	if cpuTemp != nil && *cpuTemp > c.config.CpuCrit-c.config.Hysteresis {
		return false
	}
	if waterTemp != nil && *waterTemp > c.config.WaterCrit-c.config.Hysteresis {
		return false
	}
	return true
}
