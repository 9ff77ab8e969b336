// Package metrics exports calibration statistics to prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector groups the calibration metrics. A nil *Collector records
// nothing.
type Collector struct {
	Runs           *prometheus.CounterVec
	NodeIterations *prometheus.HistogramVec
	Passes         prometheus.Histogram
	RunDuration    prometheus.Histogram
}

// New builds a collector and registers it on reg; a nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fwdcurve_bootstrap_runs_total",
			Help: "Bootstrap runs, partitioned by curve and outcome",
		}, []string{"curve", "outcome"}),
		NodeIterations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fwdcurve_node_iterations",
			Help:    "Root-finder iterations per node solve",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34, 55, 100},
		}, []string{"kind"}),
		Passes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fwdcurve_bootstrap_passes",
			Help:    "Sweeps over all nodes until convergence",
			Buckets: []float64{1, 2, 3, 4, 6, 8, 12, 16, 25, 50},
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fwdcurve_bootstrap_duration_seconds",
			Help:    "Wall time of a bootstrap run",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms -> ~4s
		}),
	}
	reg.MustRegister(c.Runs, c.NodeIterations, c.Passes, c.RunDuration)
	return c
}

// ObserveNode records one node solve for a helper kind.
func (c *Collector) ObserveNode(kind string, iterations int) {
	if c == nil {
		return
	}
	c.NodeIterations.WithLabelValues(kind).Observe(float64(iterations))
}

// ObserveRun records a finished run.
func (c *Collector) ObserveRun(curve string, passes int, elapsed time.Duration, err error) {
	if c == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.Runs.WithLabelValues(curve, outcome).Inc()
	if err == nil {
		c.Passes.Observe(float64(passes))
	}
	c.RunDuration.Observe(elapsed.Seconds())
}
