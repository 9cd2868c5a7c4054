package configuration

import (
	"os"
	"time"

	"github.com/coolerd/coolerd/internal/ui"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Configuration struct {
	DbPath string `json:"dbPath"`

	// PollRate is the interval between two status polls of the device.
	PollRate time.Duration `json:"pollRate"`

	// OverrideWindow is how long a user-set duty is protected against
	// being overwritten by poll-derived readings.
	OverrideWindow time.Duration `json:"overrideWindow"`

	Device DeviceConfig `json:"device"`

	FanScale  ScaleConfig `json:"fanScale"`
	PumpScale ScaleConfig `json:"pumpScale"`

	Safety SafetyConfig `json:"safety"`
	Curves CurvesConfig `json:"curves"`

	Profiles     map[string]ProfileConfig `json:"profiles"`
	ChannelNames map[string]string        `json:"channelNames"`

	Api        ApiConfig        `json:"api"`
	Statistics StatisticsConfig `json:"statistics"`
}

// DeviceConfig describes how to reach the liquidctl CLI and which device to
// address. Match is passed verbatim as "liquidctl -m <match>".
type DeviceConfig struct {
	Match    string `json:"match"`
	ExecPath string `json:"execPath"`

	StatusTimeout time.Duration `json:"statusTimeout"`
	SetTimeout    time.Duration `json:"setTimeout"`
	ListTimeout   time.Duration `json:"listTimeout"`
}

// ScaleConfig is the RPM range a duty percentage maps onto.
type ScaleConfig struct {
	MinRpm int `json:"minRpm"`
	MaxRpm int `json:"maxRpm"`
}

// SafetyConfig holds the emergency boost thresholds.
type SafetyConfig struct {
	Enabled    bool    `json:"enabled"`
	CpuCrit    float64 `json:"cpuCrit"`
	WaterCrit  float64 `json:"waterCrit"`
	Hysteresis float64 `json:"hysteresis"`
}

// ProfileConfig is a named duty preset.
type ProfileConfig struct {
	FanDuties []int `json:"fanDuties"`
	PumpDuty  int   `json:"pumpDuty"`
}

type ApiConfig struct {
	Enabled bool `json:"enabled"`
	Port    int  `json:"port"`
}

type StatisticsConfig struct {
	Enabled bool `json:"enabled"`
	Port    int  `json:"port"`
}

var CurrentConfig Configuration

// InitConfig sets up the config file search paths and default values.
func InitConfig(cfgFile string) {
	viper.SetConfigName("coolerd")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/coolerd/")
	}

	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("dbPath", "/etc/coolerd/coolerd.db")

	viper.SetDefault("pollRate", 2500*time.Millisecond)
	viper.SetDefault("overrideWindow", 3*time.Second)

	viper.SetDefault("device.match", "")
	viper.SetDefault("device.execPath", "liquidctl")
	viper.SetDefault("device.statusTimeout", 8*time.Second)
	viper.SetDefault("device.setTimeout", 6*time.Second)
	viper.SetDefault("device.listTimeout", 6*time.Second)

	viper.SetDefault("fanScale.minRpm", 200)
	viper.SetDefault("fanScale.maxRpm", 2000)
	viper.SetDefault("pumpScale.minRpm", 1000)
	viper.SetDefault("pumpScale.maxRpm", 2700)

	viper.SetDefault("safety.enabled", false)
	viper.SetDefault("safety.cpuCrit", 85)
	viper.SetDefault("safety.waterCrit", 45)
	viper.SetDefault("safety.hysteresis", 5)

	viper.SetDefault("curves.enabled", false)
	viper.SetDefault("curves.applyPump", true)
	viper.SetDefault("curves.target", DefaultTargetCurveId)

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.port", 9880)
	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.port", 9881)
}

// DetectConfigFile returns the path of the config file in use, if any.
func DetectConfigFile() string {
	return viper.ConfigFileUsed()
}

// ReadConfigFile reads the config file and populates CurrentConfig.
// A missing or corrupt file falls back to built-in defaults, it never
// blocks startup.
func ReadConfigFile() {
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
			ui.Info("No config file found, using defaults")
		} else {
			ui.Warning("Error reading config file, falling back to defaults: %v", err)
		}
	} else {
		ui.Debug("Using configuration file at: %s", viper.ConfigFileUsed())
	}

	LoadConfig()
}

// LoadConfig decodes the current viper state into CurrentConfig.
func LoadConfig() {
	err := viper.Unmarshal(
		&CurrentConfig,
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			curvePointsHookFunc(),
		)),
	)
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}

	if len(CurrentConfig.Curves.Definitions) <= 0 {
		CurrentConfig.Curves.Definitions = DefaultCurveDefinitions()
	}
}
