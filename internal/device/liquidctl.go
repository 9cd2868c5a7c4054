package device

import (
	"time"

	"github.com/coolerd/coolerd/internal/configuration"
	"github.com/coolerd/coolerd/internal/telemetry"
	"github.com/coolerd/coolerd/internal/ui"
	"github.com/coolerd/coolerd/internal/util"
)

// LiquidctlDevice drives a cooling device through the liquidctl CLI.
type LiquidctlDevice struct {
	Config configuration.DeviceConfig

	parser *telemetry.Parser
	runner Runner
}

type cliRunner struct {
	execPath string
}

func (r cliRunner) Run(args []string, timeout time.Duration) (string, error) {
	return util.SafeCmdExecution(r.execPath, args, timeout)
}

func NewLiquidctlDevice(config configuration.DeviceConfig, parser *telemetry.Parser) *LiquidctlDevice {
	return &LiquidctlDevice{
		Config: config,
		parser: parser,
		runner: cliRunner{execPath: config.ExecPath},
	}
}

// baseArgs narrows every invocation down to the configured device.
func (d *LiquidctlDevice) baseArgs() []string {
	if d.Config.Match == "" {
		return nil
	}
	return []string{"-m", d.Config.Match}
}

// ListDevices returns the raw output of the device listing.
func (d *LiquidctlDevice) ListDevices() (string, error) {
	return d.runner.Run([]string{"list"}, d.Config.ListTimeout)
}

// Initialize runs the device initialization sequence. Some devices report
// garbage until it has run once after boot.
func (d *LiquidctlDevice) Initialize() (string, error) {
	args := append(d.baseArgs(), "initialize")
	return d.runner.Run(args, d.Config.SetTimeout)
}

// ReadStatus polls the device status. The json form is preferred, the
// plain text form is the fallback for CLI versions that do not support it.
func (d *LiquidctlDevice) ReadStatus() (telemetry.Status, error) {
	jsonArgs := append(d.baseArgs(), "status", "--json")
	output, err := d.runner.Run(jsonArgs, d.Config.StatusTimeout)
	if err == nil {
		status, parseErr := d.parser.ParseJSON([]byte(output))
		if parseErr == nil {
			return status, nil
		}
		ui.Debug("Cannot parse json status output, falling back to text: %v", parseErr)
	}

	textArgs := append(d.baseArgs(), "status")
	output, err = d.runner.Run(textArgs, d.Config.StatusTimeout)
	if err != nil {
		return telemetry.Status{}, err
	}
	return d.parser.ParseText(output), nil
}

func (d *LiquidctlDevice) SetFanDuty(index int, duty int) bool {
	return d.tryCandidates(FanCandidates(index), duty)
}

func (d *LiquidctlDevice) SetAllFansDuty(duty int) bool {
	return d.tryCandidates(AllFansCandidates(), duty)
}

func (d *LiquidctlDevice) SetPumpDuty(duty int) bool {
	return d.tryCandidates(PumpCandidates(), duty)
}

// tryCandidates walks the candidate list and stops at the first variant
// the CLI accepts. A timeout counts as a failed variant. Returns false if
// no variant worked, it never aborts the caller.
func (d *LiquidctlDevice) tryCandidates(candidates []Candidate, duty int) bool {
	for _, candidate := range candidates {
		args := append(d.baseArgs(), candidate.Args(duty)...)
		_, err := d.runner.Run(args, d.Config.SetTimeout)
		if err == nil {
			ui.Debug("Applied duty %d via %s", duty, candidate)
			return true
		}
		ui.Debug("Candidate %s rejected: %v", candidate, err)
	}

	ui.Warning("No command variant accepted duty %d, tried %d candidates", duty, len(candidates))
	return false
}
