package profile

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/coolerd/coolerd/cmd/global"
	"github.com/coolerd/coolerd/internal/ui"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print all known profiles to console",
	RunE: func(cmd *cobra.Command, args []string) error {
		config := loadConfig()
		profiles := allProfiles(config)

		var rows [][]string
		for _, name := range sortedNames(profiles) {
			profile := profiles[name]

			fanDuties := make([]string, 0, len(profile.FanDuties))
			for _, fanDuty := range profile.FanDuties {
				fanDuties = append(fanDuties, strconv.Itoa(fanDuty))
			}

			rows = append(rows, []string{
				name, strings.Join(fanDuties, ", "), strconv.Itoa(profile.PumpDuty),
			})
		}

		profileTable := table.Table{
			Headers: []string{"Name", "Fan Duties", "Pump Duty"},
			Rows:    rows,
		}

		var buf bytes.Buffer
		if tableErr := profileTable.WriteTable(&buf, &table.Config{
			ShowIndex:       false,
			Color:           !global.NoColor,
			AlternateColors: true,
			TitleColorCode:  ansi.ColorCode("white+buf"),
			AltColorCodes: []string{
				ansi.ColorCode("white"),
				ansi.ColorCode("white:236"),
			},
		}); tableErr != nil {
			ui.Fatal("Error printing table: %v", tableErr)
		}
		ui.Printfln(buf.String())

		return nil
	},
}

func init() {
	Command.AddCommand(listCmd)
}
