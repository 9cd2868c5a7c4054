package channel

import (
	"fmt"
	"strconv"

	"github.com/coolerd/coolerd/internal"
	"github.com/coolerd/coolerd/internal/configuration"
	"github.com/coolerd/coolerd/internal/controller"
	"github.com/coolerd/coolerd/internal/duty"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var rpmCmd = &cobra.Command{
	Use:   "rpm",
	Short: "Get the speed of a channel, or set the duty that approximates the given RPM",
	Long:  ``,
	Args:  cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		dev, err := getDevice()
		if err != nil {
			return err
		}

		if len(args) > 0 {
			rpm, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			targetDuty := channelScale(channelId).RpmToDuty(rpm)
			return setDuty(dev, channelId, targetDuty)
		}

		status, err := dev.ReadStatus()
		if err != nil {
			return err
		}
		reading, err := readingFor(status, channelId)
		if err != nil {
			return err
		}
		fmt.Printf("%d", reading.Rpm)
		return nil
	},
}

func channelScale(id string) duty.Scale {
	config := &configuration.CurrentConfig
	if id == controller.ChannelPump {
		return internal.PumpScale(config)
	}
	return internal.FanScale(config)
}

func init() {
	Command.AddCommand(rpmCmd)
}
