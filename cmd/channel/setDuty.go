package channel

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var setDutyCmd = &cobra.Command{
	Use:   "set-duty <duty>",
	Short: "Set the duty of a channel to the given percentage ([0..100])",
	Long:  ``,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		duty, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}
		if duty < 0 || duty > 100 {
			return fmt.Errorf("duty out of range [0..100]: %d", duty)
		}

		dev, err := getDevice()
		if err != nil {
			return err
		}

		return setDuty(dev, channelId, duty)
	},
}

func init() {
	Command.AddCommand(setDutyCmd)
}
