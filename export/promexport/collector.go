// Package promexport exposes a Registry's analyzed statistics as a
// prometheus.Collector. It is a read-only data surface: the host owns the
// prometheus registry and any scrape endpoint.
package promexport

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hotpath-go/hotpath/profiler"
)

// Collector reads the profiler registry on every scrape. Functions that
// have not reached analysis are absent, matching GetStatistics.
type Collector struct {
	registry  *profiler.Registry
	latency   *prometheus.Desc
	calls     *prometheus.Desc
	optimized *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

func NewCollector(reg *profiler.Registry) *Collector {
	return &Collector{
		registry: reg,
		latency: prometheus.NewDesc(
			"hotpath_function_latency_ms",
			"Analysis-window latency of a wrapped function at a fixed quantile, in milliseconds.",
			[]string{"function", "quantile"}, nil,
		),
		calls: prometheus.NewDesc(
			"hotpath_function_calls_total",
			"Total calls to a wrapped function at analysis time.",
			[]string{"function"}, nil,
		),
		optimized: prometheus.NewDesc(
			"hotpath_function_optimized",
			"Whether an optimization has been applied to a wrapped function.",
			[]string{"function", "kind"}, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.latency
	ch <- c.calls
	ch <- c.optimized
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	optimizations := c.registry.Optimizations()
	for _, s := range c.registry.GetStatistics() {
		ch <- prometheus.MustNewConstMetric(c.latency, prometheus.GaugeValue, s.Min, s.Name, "min")
		ch <- prometheus.MustNewConstMetric(c.latency, prometheus.GaugeValue, s.Median, s.Name, "median")
		ch <- prometheus.MustNewConstMetric(c.latency, prometheus.GaugeValue, s.Hot, s.Name, "hot")
		ch <- prometheus.MustNewConstMetric(c.latency, prometheus.GaugeValue, s.Max, s.Name, "max")
		ch <- prometheus.MustNewConstMetric(c.calls, prometheus.CounterValue, float64(s.Count), s.Name)

		applied := 0.0
		kind := optimizations[s.Name]
		if kind != "" {
			applied = 1
		}
		ch <- prometheus.MustNewConstMetric(c.optimized, prometheus.GaugeValue, applied, s.Name, kind)
	}
}
