//go:build !cgo

package sensors

import "fmt"

func (sensor *CpuSensor) readLibsensors() (float64, error) {
	return 0, fmt.Errorf("libsensors unavailable: built without cgo")
}
