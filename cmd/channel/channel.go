package channel

import (
	"fmt"

	"github.com/coolerd/coolerd/internal"
	"github.com/coolerd/coolerd/internal/configuration"
	"github.com/coolerd/coolerd/internal/controller"
	"github.com/coolerd/coolerd/internal/device"
	"github.com/coolerd/coolerd/internal/duty"
	"github.com/coolerd/coolerd/internal/telemetry"
	"github.com/coolerd/coolerd/internal/ui"
	"github.com/spf13/cobra"
)

var channelId string

var Command = &cobra.Command{
	Use:              "channel",
	Short:            "Channel related commands",
	Long:             ``,
	TraverseChildren: true,
}

func init() {
	Command.PersistentFlags().StringVarP(
		&channelId,
		"id", "i",
		"",
		"Channel ID, one of: fan<N>, fans, pump",
	)
	_ = Command.MarkPersistentFlagRequired("id")
}

func getDevice() (*device.LiquidctlDevice, error) {
	configPath := configuration.DetectConfigFile()
	ui.Info("Using configuration file at: %s", configPath)
	configuration.LoadConfig()
	if err := configuration.Validate(); err != nil {
		ui.Fatal(err.Error())
	}

	if !validChannelId(channelId) {
		return nil, fmt.Errorf("no such channel: %s, options: fan<N>, %s, %s", channelId, controller.ChannelAllFans, controller.ChannelPump)
	}

	return internal.CreateDevice(&configuration.CurrentConfig), nil
}

func validChannelId(id string) bool {
	if id == controller.ChannelPump || id == controller.ChannelAllFans {
		return true
	}
	_, ok := controller.FanIndex(id)
	return ok
}

// setDuty dispatches a duty write to the channel behind the id. Values
// are snapped to the 10-point duty grid before they reach the CLI.
func setDuty(dev *device.LiquidctlDevice, id string, value int) error {
	value = duty.Quantize(value)

	var ok bool
	switch id {
	case controller.ChannelPump:
		ok = dev.SetPumpDuty(value)
	case controller.ChannelAllFans:
		ok = dev.SetAllFansDuty(value)
	default:
		index, _ := controller.FanIndex(id)
		ok = dev.SetFanDuty(index, value)
	}
	if !ok {
		return fmt.Errorf("device rejected duty %d for channel %s", value, id)
	}
	return nil
}

// readingFor extracts the reading of the channel from a status poll.
func readingFor(status telemetry.Status, id string) (telemetry.Reading, error) {
	switch id {
	case controller.ChannelPump:
		if status.Pump != nil {
			return *status.Pump, nil
		}
	case controller.ChannelAllFans:
		if status.AllFans != nil {
			return *status.AllFans, nil
		}
	default:
		index, _ := controller.FanIndex(id)
		if reading, ok := status.Fans[index]; ok {
			return reading, nil
		}
		// devices without indexed fan channels report the whole group
		if status.AllFans != nil {
			return *status.AllFans, nil
		}
	}
	return telemetry.Reading{}, fmt.Errorf("channel %s not reported by device", id)
}
