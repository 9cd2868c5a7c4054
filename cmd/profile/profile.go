package profile

import (
	"sort"

	"github.com/coolerd/coolerd/internal/configuration"
	"github.com/coolerd/coolerd/internal/persistence"
	"github.com/coolerd/coolerd/internal/ui"
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:              "profile",
	Short:            "Profile related commands",
	Long:             ``,
	TraverseChildren: true,
}

func loadConfig() *configuration.Configuration {
	configPath := configuration.DetectConfigFile()
	ui.Info("Using configuration file at: %s", configPath)
	configuration.LoadConfig()
	if err := configuration.Validate(); err != nil {
		ui.Fatal(err.Error())
	}
	return &configuration.CurrentConfig
}

// allProfiles merges the profiles from the config file with the ones saved
// through the api. Saved profiles shadow config profiles of the same name.
func allProfiles(config *configuration.Configuration) map[string]configuration.ProfileConfig {
	result := map[string]configuration.ProfileConfig{}
	for name, profile := range config.Profiles {
		result[name] = profile
	}

	pers := persistence.NewPersistence(config.DbPath)
	saved, err := pers.LoadAllProfiles()
	if err != nil {
		ui.Warning("Unable to load saved profiles: %v", err)
		return result
	}
	for name, profile := range saved {
		result[name] = profile
	}
	return result
}

func sortedNames(profiles map[string]configuration.ProfileConfig) []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
