//go:build cgo

package sensors

import (
	"fmt"

	"github.com/md14454/gosensors"
)

func (sensor *CpuSensor) readLibsensors() (result float64, err error) {
	// libsensors aborts via panic when the shared library is unavailable
	defer func() {
		if r := recover(); r != nil {
			result = 0
			err = fmt.Errorf("libsensors unavailable: %v", r)
		}
	}()

	gosensors.Init()
	defer gosensors.Cleanup()

	hottest := 0.0
	found := false
	for _, chip := range gosensors.GetDetectedChips() {
		chipMatches := cpuChipExpr.MatchString(chip.Prefix)
		for _, feature := range chip.GetFeatures() {
			if feature.Type != gosensors.FeatureTypeTemp {
				continue
			}
			if !chipMatches && !cpuLabelExpr.MatchString(feature.GetLabel()) {
				continue
			}
			for _, subFeature := range feature.GetSubFeatures() {
				if subFeature.Type != gosensors.SubFeatureTypeTempInput {
					continue
				}
				value := subFeature.GetValue()
				if !plausibleTemp(value) {
					continue
				}
				if !found || value > hottest {
					hottest = value
					found = true
				}
			}
		}
	}

	if !found {
		return 0, fmt.Errorf("libsensors reported no cpu temperature")
	}
	return hottest, nil
}
