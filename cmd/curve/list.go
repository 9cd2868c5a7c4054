package curve

import (
	"bytes"
	"strings"

	"github.com/coolerd/coolerd/cmd/global"
	"github.com/coolerd/coolerd/internal/configuration"
	"github.com/coolerd/coolerd/internal/curves"
	"github.com/coolerd/coolerd/internal/ui"
	"github.com/guptarohit/asciigraph"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the configured curve(s) to console",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		configPath := configuration.DetectConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()

		if err = configuration.Validate(); err != nil {
			ui.Fatal(err.Error())
		}

		definitions := configuration.CurrentConfig.Curves.Definitions
		if curveId != "" {
			curveConf, err := getCurveConfig(curveId, definitions)
			if err != nil {
				return err
			}
			definitions = []configuration.CurveConfig{*curveConf}
		}

		for idx, curveConf := range definitions {
			if idx > 0 {
				ui.Printfln("")
				ui.Printfln("")
			}

			var curveType string
			var detail string
			switch {
			case curveConf.Linear != nil:
				curveType = "Linear"
				detail = curveConf.Linear.Sensor
			case curveConf.Function != nil:
				curveType = "Functional"
				detail = curveConf.Function.Type + " of " + strings.Join(curveConf.Function.Curves, ", ")
			default:
				curveType = "Unknown"
			}

			// print table
			tab := table.Table{
				Headers: []string{"ID", "Type", "Input"},
				Rows: [][]string{
					{curveConf.ID, curveType, detail},
				},
			}
			var buf bytes.Buffer
			tableErr := tab.WriteTable(&buf, &table.Config{
				ShowIndex:       false,
				Color:           !global.NoColor,
				AlternateColors: true,
				TitleColorCode:  ansi.ColorCode("white+buf"),
				AltColorCodes: []string{
					ansi.ColorCode("white"),
					ansi.ColorCode("white:236"),
				},
			})
			if tableErr != nil {
				panic(tableErr)
			}
			ui.Printfln(buf.String())

			if curveConf.Linear == nil {
				continue
			}

			points := curveConf.Linear.Points
			start := int(points[0].Temp)
			stop := int(points[len(points)-1].Temp)

			values := make([]float64, 0, stop-start+1)
			for temp := start; temp <= stop; temp++ {
				values = append(values, float64(curves.EvaluatePoints(points, float64(temp))))
			}

			caption := "Duty / °C"
			graph := asciigraph.Plot(values, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
			ui.Printfln(graph)
		}

		return nil
	},
}

func init() {
	Command.AddCommand(listCmd)
}
