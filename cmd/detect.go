package cmd

import (
	"bytes"
	"sort"
	"strconv"

	"github.com/coolerd/coolerd/cmd/global"
	"github.com/coolerd/coolerd/internal"
	"github.com/coolerd/coolerd/internal/configuration"
	"github.com/coolerd/coolerd/internal/controller"
	"github.com/coolerd/coolerd/internal/ui"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect devices",
	Long:  `Lists the devices the liquidctl CLI can see and the channels they report`,
	Run: func(cmd *cobra.Command, args []string) {
		configuration.LoadConfig()

		config := &configuration.CurrentConfig
		dev := internal.CreateDevice(config)

		listing, err := dev.ListDevices()
		if err != nil {
			ui.Fatal("Unable to list devices: %v", err)
		}
		ui.Printfln("%s", listing)

		status, err := dev.ReadStatus()
		if err != nil {
			ui.Warning("Unable to read device status: %v", err)
			return
		}

		// === Print reported channels ===
		tableConfig := &table.Config{
			ShowIndex:       false,
			Color:           !global.NoColor,
			AlternateColors: true,
			TitleColorCode:  ansi.ColorCode("white+buf"),
			AltColorCodes: []string{
				ansi.ColorCode("white"),
				ansi.ColorCode("white:236"),
			},
		}

		fanIndexes := make([]int, 0, len(status.Fans))
		for index := range status.Fans {
			fanIndexes = append(fanIndexes, index)
		}
		sort.Ints(fanIndexes)

		var rows [][]string
		for _, index := range fanIndexes {
			reading := status.Fans[index]
			rows = append(rows, []string{
				controller.ChannelFan(index), strconv.Itoa(reading.Rpm), strconv.Itoa(reading.Duty),
			})
		}
		if status.AllFans != nil {
			rows = append(rows, []string{
				controller.ChannelAllFans, strconv.Itoa(status.AllFans.Rpm), strconv.Itoa(status.AllFans.Duty),
			})
		}
		if status.Pump != nil {
			rows = append(rows, []string{
				controller.ChannelPump, strconv.Itoa(status.Pump.Rpm), strconv.Itoa(status.Pump.Duty),
			})
		}

		channelTable := table.Table{
			Headers: []string{"Channel", "RPM", "Duty"},
			Rows:    rows,
		}

		var buf bytes.Buffer
		if tableErr := channelTable.WriteTable(&buf, tableConfig); tableErr != nil {
			ui.Fatal("Error printing table: %v", tableErr)
		}
		ui.Printfln(buf.String())

		if status.WaterTemp != nil {
			ui.Printfln("Coolant temperature: %.1f°C", *status.WaterTemp)
		}
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
