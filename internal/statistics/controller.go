package statistics

import (
	"github.com/coolerd/coolerd/internal/controller"
	"github.com/prometheus/client_golang/prometheus"
)

const controllerSubsystem = "controller"

// ControllerCollector exposes the state of the control loop itself.
type ControllerCollector struct {
	controller controller.Controller
	boosted    *prometheus.Desc
	pollErrors *prometheus.Desc
}

func NewControllerCollector(c controller.Controller) *ControllerCollector {
	return &ControllerCollector{
		controller: c,
		boosted: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "boost_active"),
			"Whether the emergency boost is currently holding all channels at full duty",
			nil, nil,
		),
		pollErrors: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "poll_errors_total"),
			"Number of device polls that failed",
			nil, nil,
		),
	}
}

func (collector *ControllerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.boosted
	ch <- collector.pollErrors
}

func (collector *ControllerCollector) Collect(ch chan<- prometheus.Metric) {
	snapshot := collector.controller.Snapshot()

	boosted := 0.0
	if snapshot.Boosted {
		boosted = 1.0
	}
	ch <- prometheus.MustNewConstMetric(collector.boosted, prometheus.GaugeValue, boosted)
	ch <- prometheus.MustNewConstMetric(collector.pollErrors, prometheus.CounterValue, float64(collector.controller.PollErrors()))
}
