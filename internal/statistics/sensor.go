package statistics

import (
	"github.com/coolerd/coolerd/internal/sensors"
	"github.com/prometheus/client_golang/prometheus"
)

const sensorSubsystem = "sensor"

// SensorCollector exposes the current and averaged temperature of every
// registered sensor.
type SensorCollector struct {
	temp    *prometheus.Desc
	tempAvg *prometheus.Desc
}

func NewSensorCollector() *SensorCollector {
	return &SensorCollector{
		temp: prometheus.NewDesc(prometheus.BuildFQName(namespace, sensorSubsystem, "temp"),
			"Current temperature of the sensor in °C",
			[]string{"id"}, nil,
		),
		tempAvg: prometheus.NewDesc(prometheus.BuildFQName(namespace, sensorSubsystem, "temp_avg"),
			"Moving average temperature of the sensor in °C",
			[]string{"id"}, nil,
		),
	}
}

func (collector *SensorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.temp
	ch <- collector.tempAvg
}

func (collector *SensorCollector) Collect(ch chan<- prometheus.Metric) {
	for id, sensor := range sensors.SnapshotSensorMap() {
		value, err := sensor.GetValue()
		if err == nil {
			ch <- prometheus.MustNewConstMetric(collector.temp, prometheus.GaugeValue, value, id)
		}
		ch <- prometheus.MustNewConstMetric(collector.tempAvg, prometheus.GaugeValue, sensor.GetMovingAvg(), id)
	}
}
