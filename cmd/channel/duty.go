package channel

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var dutyCmd = &cobra.Command{
	Use:   "duty",
	Short: "Get/Set the duty of a channel to the given percentage ([0..100])",
	Long:  ``,
	Args:  cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		dev, err := getDevice()
		if err != nil {
			return err
		}

		if len(args) > 0 {
			duty, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			if duty < 0 || duty > 100 {
				return fmt.Errorf("duty out of range [0..100]: %d", duty)
			}
			return setDuty(dev, channelId, duty)
		}

		status, err := dev.ReadStatus()
		if err != nil {
			return err
		}
		reading, err := readingFor(status, channelId)
		if err != nil {
			return err
		}
		fmt.Printf("%d", reading.Duty)
		return nil
	},
}

func init() {
	Command.AddCommand(dutyCmd)
}
