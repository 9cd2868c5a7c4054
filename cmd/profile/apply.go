package profile

import (
	"fmt"

	"github.com/coolerd/coolerd/internal"
	"github.com/coolerd/coolerd/internal/duty"
	"github.com/coolerd/coolerd/internal/ui"
	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply <name>",
	Short: "Apply a profile directly to the device",
	Long:  `Writes the duties of the given profile to the device, bypassing a running daemon`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config := loadConfig()

		name := args[0]
		profile, ok := allProfiles(config)[name]
		if !ok {
			return fmt.Errorf("no profile with name found: %s", name)
		}

		dev := internal.CreateDevice(config)

		for idx, fanDuty := range profile.FanDuties {
			index := idx + 1
			value := duty.Quantize(fanDuty)
			if !dev.SetFanDuty(index, value) {
				return fmt.Errorf("device rejected duty %d for fan %d", value, index)
			}
		}
		pumpDuty := duty.Quantize(profile.PumpDuty)
		if !dev.SetPumpDuty(pumpDuty) {
			return fmt.Errorf("device rejected pump duty %d", pumpDuty)
		}

		ui.Success("Applied profile '%s'", name)
		return nil
	},
}

func init() {
	Command.AddCommand(applyCmd)
}
