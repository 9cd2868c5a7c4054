package statistics

import (
	"github.com/coolerd/coolerd/internal/controller"
	"github.com/prometheus/client_golang/prometheus"
)

const channelSubsystem = "channel"

// ChannelCollector exposes the last applied duty and the last reported
// rpm per device channel.
type ChannelCollector struct {
	controller controller.Controller
	duty       *prometheus.Desc
	rpm        *prometheus.Desc
}

func NewChannelCollector(c controller.Controller) *ChannelCollector {
	return &ChannelCollector{
		controller: c,
		duty: prometheus.NewDesc(prometheus.BuildFQName(namespace, channelSubsystem, "duty"),
			"Last duty percentage applied to the channel",
			[]string{"id"}, nil,
		),
		rpm: prometheus.NewDesc(prometheus.BuildFQName(namespace, channelSubsystem, "rpm"),
			"Last RPM reported by the channel",
			[]string{"id"}, nil,
		),
	}
}

func (collector *ChannelCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.duty
	ch <- collector.rpm
}

func (collector *ChannelCollector) Collect(ch chan<- prometheus.Metric) {
	snapshot := collector.controller.Snapshot()

	for channelId, value := range snapshot.Duties {
		ch <- prometheus.MustNewConstMetric(collector.duty, prometheus.GaugeValue, float64(value), channelId)
	}

	for index, reading := range snapshot.Status.Fans {
		ch <- prometheus.MustNewConstMetric(collector.rpm, prometheus.GaugeValue, float64(reading.Rpm), controller.ChannelFan(index))
	}
	if snapshot.Status.AllFans != nil {
		ch <- prometheus.MustNewConstMetric(collector.rpm, prometheus.GaugeValue, float64(snapshot.Status.AllFans.Rpm), controller.ChannelAllFans)
	}
	if snapshot.Status.Pump != nil {
		ch <- prometheus.MustNewConstMetric(collector.rpm, prometheus.GaugeValue, float64(snapshot.Status.Pump.Rpm), controller.ChannelPump)
	}
}
