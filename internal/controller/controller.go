package controller

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coolerd/coolerd/internal/configuration"
	"github.com/coolerd/coolerd/internal/curves"
	"github.com/coolerd/coolerd/internal/device"
	"github.com/coolerd/coolerd/internal/duty"
	"github.com/coolerd/coolerd/internal/persistence"
	"github.com/coolerd/coolerd/internal/safety"
	"github.com/coolerd/coolerd/internal/sensors"
	"github.com/coolerd/coolerd/internal/telemetry"
	"github.com/coolerd/coolerd/internal/ui"
	"github.com/oklog/run"
)

const (
	ChannelPump    = "pump"
	ChannelAllFans = "fans"
)

func ChannelFan(index int) string {
	return fmt.Sprintf("fan%d", index)
}

// FanIndex extracts the fan index from a channel id like "fan2".
func FanIndex(channelId string) (int, bool) {
	if !strings.HasPrefix(channelId, "fan") {
		return 0, false
	}
	index, err := strconv.Atoi(channelId[len("fan"):])
	if err != nil || index < 1 {
		return 0, false
	}
	return index, true
}

// Snapshot is the controller state as seen by the api and the CLI.
type Snapshot struct {
	Status    telemetry.Status
	CpuTemp   *float64
	UpdatedAt time.Time
	Boosted   bool
	Duties    map[string]int
}

type Controller interface {
	Run(ctx context.Context) error
	// Tick runs one poll cycle: read the device, feed the sensors,
	// evaluate safety and curves, schedule duty writes
	Tick() error

	// SetChannelDuty applies a manual duty and protects it against the
	// control loop for the override window
	SetChannelDuty(channelId string, value int) error
	ApplyProfile(profile configuration.ProfileConfig) error

	Snapshot() Snapshot
	PollErrors() uint64
}

type coolerController struct {
	config      *configuration.Configuration
	device      device.Device
	persistence persistence.Persistence
	safety      *safety.Controller

	overrides *OverrideRegistry
	queue     *ApplyQueue

	ticking    atomic.Bool
	pollErrors atomic.Uint64

	mu          sync.Mutex
	lastStatus  telemetry.Status
	lastCpuTemp *float64
	updatedAt   time.Time
	lastDuties  map[string]int
}

func NewController(
	config *configuration.Configuration,
	dev device.Device,
	pers persistence.Persistence,
	safetyController *safety.Controller,
) Controller {
	c := &coolerController{
		config:      config,
		device:      dev,
		persistence: pers,
		safety:      safetyController,
		overrides:   NewOverrideRegistry(config.OverrideWindow),
		lastDuties:  map[string]int{},
	}
	c.queue = NewApplyQueue(c.applyToDevice)

	if duties, err := pers.LoadAllLastDuties(); err == nil {
		c.lastDuties = duties
	}

	return c
}

func (c *coolerController) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ui.Info("Starting control loop, polling every %s", c.config.PollRate)

	var g run.Group
	{
		g.Add(func() error {
			tick := time.Tick(c.config.PollRate)
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-tick:
					if err := c.Tick(); err != nil {
						ui.Error("Device poll failed: %v", err)
					}
				}
			}
		}, func(err error) {
			cancel()
		})
	}
	{
		g.Add(func() error {
			return c.queue.Run(ctx)
		}, func(err error) {
			cancel()
		})
	}

	return g.Run()
}

func (c *coolerController) Tick() error {
	// a slow CLI invocation must not pile up ticks behind itself
	if !c.ticking.CompareAndSwap(false, true) {
		ui.Debug("Previous poll still running, skipping tick")
		return nil
	}
	defer c.ticking.Store(false)

	status, err := c.device.ReadStatus()
	if err != nil {
		c.pollErrors.Add(1)
		return err
	}

	if status.WaterTemp != nil {
		sensors.UpdateCoolant(*status.WaterTemp)
	}
	cpuTemp := readCpuTemp()

	c.mu.Lock()
	c.lastStatus = status
	c.lastCpuTemp = cpuTemp
	c.updatedAt = time.Now()
	c.mu.Unlock()

	wasBoosted := c.safety.Boosted()
	switch c.safety.Update(cpuTemp, status.WaterTemp, c.safetySnapshot()) {
	case safety.ActionBoost:
		if !wasBoosted {
			ui.WarningAndNotify("Emergency Boost",
				"Critical temperature reached (cpu: %s, water: %s), boosting all channels to 100%%",
				formatTemp(cpuTemp), formatTemp(status.WaterTemp))
		}
		c.boostAll(status)
		return nil
	case safety.ActionRestore:
		ui.InfoAndNotify("Emergency Boost",
			"Boost over (cpu: %s, water: %s), restoring previous duties",
			formatTemp(cpuTemp), formatTemp(status.WaterTemp))
		c.restore(c.safety.Snapshot())
		return nil
	}

	if c.config.Curves.Enabled {
		c.applyCurveTarget(status)
	}
	return nil
}

func (c *coolerController) SetChannelDuty(channelId string, value int) error {
	if value < 0 || value > duty.MaxDuty {
		return fmt.Errorf("duty %d out of range [0..100]", value)
	}
	if channelId != ChannelPump && channelId != ChannelAllFans {
		if _, ok := FanIndex(channelId); !ok {
			return fmt.Errorf("unknown channel: %s", channelId)
		}
	}

	// duties leave the daemon on the 10-point grid, manual or not
	value = duty.Quantize(value)
	c.overrides.Mark(channelId, value)
	c.queue.Enqueue(channelId, value)
	return nil
}

func (c *coolerController) ApplyProfile(profile configuration.ProfileConfig) error {
	for i, fanDuty := range profile.FanDuties {
		if err := c.SetChannelDuty(ChannelFan(i+1), fanDuty); err != nil {
			return err
		}
	}
	return c.SetChannelDuty(ChannelPump, profile.PumpDuty)
}

func (c *coolerController) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	duties := make(map[string]int, len(c.lastDuties))
	for k, v := range c.lastDuties {
		duties[k] = v
	}

	return Snapshot{
		Status:    c.lastStatus,
		CpuTemp:   c.lastCpuTemp,
		UpdatedAt: c.updatedAt,
		Boosted:   c.safety.Boosted(),
		Duties:    duties,
	}
}

func (c *coolerController) PollErrors() uint64 {
	return c.pollErrors.Load()
}

// applyToDevice is the single funnel for duty writes, invoked by the
// apply queue worker.
func (c *coolerController) applyToDevice(channelId string, value int) bool {
	var ok bool
	switch channelId {
	case ChannelPump:
		ok = c.device.SetPumpDuty(value)
	case ChannelAllFans:
		ok = c.device.SetAllFansDuty(value)
	default:
		index, valid := FanIndex(channelId)
		if !valid {
			return false
		}
		ok = c.device.SetFanDuty(index, value)
	}

	if ok {
		c.mu.Lock()
		c.lastDuties[channelId] = value
		c.mu.Unlock()

		if err := c.persistence.SaveLastDuty(channelId, value); err != nil {
			ui.Warning("Cannot persist duty for %s: %v", channelId, err)
		}
	}
	return ok
}

func (c *coolerController) applyCurveTarget(status telemetry.Status) {
	curve, ok := curves.GetSpeedCurve(c.config.Curves.Target)
	if !ok {
		ui.Warning("Target curve '%s' is not registered", c.config.Curves.Target)
		return
	}

	value, err := curve.Evaluate()
	if err != nil {
		ui.Debug("Curve not evaluable this tick: %v", err)
		return
	}
	target := duty.Quantize(value)

	for _, channelId := range fanChannels(status) {
		c.enqueueIfUnprotected(channelId, target)
	}
	if c.config.Curves.ApplyPump {
		c.enqueueIfUnprotected(ChannelPump, target)
	}
}

// enqueueIfUnprotected schedules a curve-derived duty unless the channel
// has a fresher manual override or already runs at the target.
func (c *coolerController) enqueueIfUnprotected(channelId string, target int) {
	if c.overrides.Active(channelId) {
		return
	}

	c.mu.Lock()
	current, known := c.lastDuties[channelId]
	c.mu.Unlock()
	if known && current == target {
		return
	}

	c.queue.Enqueue(channelId, target)
}

func (c *coolerController) boostAll(status telemetry.Status) {
	// manual adjustments do not outrank an emergency
	c.overrides.Clear()

	// channels already running at full duty are skipped, so an ongoing
	// boost does not hammer the CLI every tick
	for _, channelId := range fanChannels(status) {
		c.enqueueIfUnprotected(channelId, duty.MaxDuty)
	}
	c.enqueueIfUnprotected(ChannelPump, duty.MaxDuty)
}

func (c *coolerController) restore(snapshot safety.Snapshot) {
	for index, value := range snapshot.FanDuties {
		c.queue.Enqueue(ChannelFan(index), value)
	}
	if snapshot.AllFansDuty != nil {
		c.queue.Enqueue(ChannelAllFans, *snapshot.AllFansDuty)
	}
	if snapshot.PumpDuty != nil {
		c.queue.Enqueue(ChannelPump, *snapshot.PumpDuty)
	}
}

func (c *coolerController) safetySnapshot() safety.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := safety.Snapshot{FanDuties: map[int]int{}}
	for channelId, value := range c.lastDuties {
		switch channelId {
		case ChannelPump:
			v := value
			snapshot.PumpDuty = &v
		case ChannelAllFans:
			v := value
			snapshot.AllFansDuty = &v
		default:
			if index, ok := FanIndex(channelId); ok {
				snapshot.FanDuties[index] = value
			}
		}
	}
	return snapshot
}

// fanChannels lists the fan channels the device reported, indexed ones
// first. A device that only reports the fan group yields the aggregate
// channel.
func fanChannels(status telemetry.Status) []string {
	var channels []string
	for index := 1; index <= status.MaxFanIndex(); index++ {
		if _, ok := status.Fans[index]; ok {
			channels = append(channels, ChannelFan(index))
		}
	}
	if len(channels) == 0 && status.AllFans != nil {
		channels = append(channels, ChannelAllFans)
	}
	return channels
}

func formatTemp(value *float64) string {
	if value == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f°C", *value)
}

func readCpuTemp() *float64 {
	sensor, ok := sensors.GetSensor(configuration.SensorCpu)
	if !ok {
		return nil
	}
	value, err := sensor.GetValue()
	if err != nil {
		ui.Debug("No cpu temperature this tick: %v", err)
		return nil
	}
	return &value
}
