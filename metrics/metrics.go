// Package metrics exports control.FridgeStatus as Prometheus gauges,
// grounded on gofutura's prometheus/client_golang + promhttp wiring.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pevers/coldbox/control"
)

// Collector is a pull-based prometheus.Collector that reads the latest
// FridgeStatus snapshot on every scrape rather than being pushed updates,
// since this domain's status is always available as a standing snapshot.
type Collector struct {
	status func() control.FridgeStatus

	insideTemp      *prometheus.Desc
	outsideTemp     *prometheus.Desc
	correction      *prometheus.Desc
	dutyCycle       *prometheus.Desc
	targetDutyCycle *prometheus.Desc
	modeMs          *prometheus.Desc
	modeInfo        *prometheus.Desc
}

// NewCollector builds a Collector whose gauges read c.Status on each
// scrape. The caller registers it with a prometheus registry.
func NewCollector(c *control.Controller) *Collector {
	return newCollector(c.Status)
}

func newCollector(status func() control.FridgeStatus) *Collector {
	return &Collector{
		status: status,

		insideTemp: prometheus.NewDesc(
			"coldbox_inside_temp_celsius", "Inside chamber temperature.", nil, nil),
		outsideTemp: prometheus.NewDesc(
			"coldbox_outside_temp_celsius", "Outside ambient temperature.", nil, nil),
		correction: prometheus.NewDesc(
			"coldbox_correction", "Signed PID correction in [-100, 100].", nil, nil),
		dutyCycle: prometheus.NewDesc(
			"coldbox_duty_cycle_ms", "Accumulated on-time within the trailing window, in milliseconds.", nil, nil),
		targetDutyCycle: prometheus.NewDesc(
			"coldbox_target_duty_cycle_ms", "Desired on-time for the window, in milliseconds.", nil, nil),
		modeMs: prometheus.NewDesc(
			"coldbox_mode_ms", "Milliseconds spent in the current mode.", nil, nil),
		modeInfo: prometheus.NewDesc(
			"coldbox_mode_info", "Always 1; labeled with the current operation_mode and mode.",
			[]string{"operation_mode", "mode"}, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.insideTemp
	ch <- c.outsideTemp
	ch <- c.correction
	ch <- c.dutyCycle
	ch <- c.targetDutyCycle
	ch <- c.modeMs
	ch <- c.modeInfo
}

// Collect implements prometheus.Collector, reading a fresh status
// snapshot for every scrape.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.status()

	ch <- prometheus.MustNewConstMetric(c.insideTemp, prometheus.GaugeValue, s.InsideTemp)
	ch <- prometheus.MustNewConstMetric(c.outsideTemp, prometheus.GaugeValue, s.OutsideTemp)
	ch <- prometheus.MustNewConstMetric(c.correction, prometheus.GaugeValue, s.Correction)
	ch <- prometheus.MustNewConstMetric(c.dutyCycle, prometheus.GaugeValue, s.DutyCycle)
	ch <- prometheus.MustNewConstMetric(c.targetDutyCycle, prometheus.GaugeValue, s.TargetDutyCycle)
	ch <- prometheus.MustNewConstMetric(c.modeMs, prometheus.GaugeValue, s.ModeMs)
	ch <- prometheus.MustNewConstMetric(c.modeInfo, prometheus.GaugeValue, 1, string(s.OperationMode), string(s.Mode))
}
