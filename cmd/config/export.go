package config

import (
	"encoding/json"

	"github.com/coolerd/coolerd/internal/configuration"
	"github.com/coolerd/coolerd/internal/persistence"
	"github.com/coolerd/coolerd/internal/ui"
	"github.com/coolerd/coolerd/internal/util"
	"github.com/spf13/cobra"
)

type exportDto struct {
	Config     configuration.Configuration `json:"config"`
	LastDuties map[string]int              `json:"lastDuties"`
}

var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Print or write the effective configuration",
	Long:  `Resolves the config file, defaults and environment into the effective configuration and prints it together with the last known duties as json, or writes it to the given path`,
	Args:  cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configuration.LoadConfig()

		export := exportDto{
			Config:     configuration.CurrentConfig,
			LastDuties: map[string]int{},
		}

		pers := persistence.NewPersistence(configuration.CurrentConfig.DbPath)
		lastDuties, err := pers.LoadAllLastDuties()
		if err != nil {
			ui.Warning("Unable to load last duties: %v", err)
		} else {
			export.LastDuties = lastDuties
		}

		data, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			return err
		}

		if len(args) > 0 {
			if err := util.WriteFileAtomic(args[0], data); err != nil {
				return err
			}
			ui.Success("Configuration written to %s", args[0])
			return nil
		}

		ui.Printfln("%s", data)
		return nil
	},
}

func init() {
	Command.AddCommand(exportCmd)
}
