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

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current device status",
	Long:  `Polls the device once and prints the readings of all channels`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := configuration.DetectConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()
		if err := configuration.Validate(); err != nil {
			ui.Fatal(err.Error())
		}

		config := &configuration.CurrentConfig
		dev := internal.CreateDevice(config)

		status, err := dev.ReadStatus()
		if err != nil {
			return err
		}

		fanIndexes := make([]int, 0, len(status.Fans))
		for index := range status.Fans {
			fanIndexes = append(fanIndexes, index)
		}
		sort.Ints(fanIndexes)

		var rows [][]string
		for _, index := range fanIndexes {
			reading := status.Fans[index]
			channelId := controller.ChannelFan(index)
			rows = append(rows, []string{
				channelId, channelName(config, channelId), strconv.Itoa(reading.Rpm), strconv.Itoa(reading.Duty),
			})
		}
		if status.AllFans != nil {
			rows = append(rows, []string{
				controller.ChannelAllFans, channelName(config, controller.ChannelAllFans),
				strconv.Itoa(status.AllFans.Rpm), strconv.Itoa(status.AllFans.Duty),
			})
		}
		if status.Pump != nil {
			rows = append(rows, []string{
				controller.ChannelPump, channelName(config, controller.ChannelPump),
				strconv.Itoa(status.Pump.Rpm), strconv.Itoa(status.Pump.Duty),
			})
		}

		statusTable := table.Table{
			Headers: []string{"Channel", "Name", "RPM", "Duty"},
			Rows:    rows,
		}

		var buf bytes.Buffer
		if tableErr := statusTable.WriteTable(&buf, &table.Config{
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

		if status.WaterTemp != nil {
			ui.Printfln("Coolant temperature: %.1f°C", *status.WaterTemp)
		}

		return nil
	},
}

func channelName(config *configuration.Configuration, channelId string) string {
	if name, ok := config.ChannelNames[channelId]; ok {
		return name
	}
	return ""
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
