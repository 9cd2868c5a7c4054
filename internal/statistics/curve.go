package statistics

import (
	"github.com/coolerd/coolerd/internal/curves"
	"github.com/prometheus/client_golang/prometheus"
)

const curveSubsystem = "curve"

// CurveCollector exposes the last evaluated value of every registered
// curve.
type CurveCollector struct {
	value *prometheus.Desc
}

func NewCurveCollector() *CurveCollector {
	return &CurveCollector{
		value: prometheus.NewDesc(prometheus.BuildFQName(namespace, curveSubsystem, "value"),
			"Duty the curve demanded at its last evaluation",
			[]string{"id"}, nil,
		),
	}
}

func (collector *CurveCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.value
}

func (collector *CurveCollector) Collect(ch chan<- prometheus.Metric) {
	for id, curve := range curves.SnapshotSpeedCurveMap() {
		ch <- prometheus.MustNewConstMetric(collector.value, prometheus.GaugeValue, float64(curve.CurrentValue()), id)
	}
}
