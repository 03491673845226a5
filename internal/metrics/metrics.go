// Package metrics exposes route planner instrumentation via Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the planner's Prometheus metrics on a private registry,
// so the default registry's process metrics do not leak into the scrape.
type Collector struct {
	reg *prometheus.Registry

	OptimizeRuns     prometheus.Counter
	OptimizeFailures prometheus.Counter
	OptimizeDuration prometheus.Histogram

	ProgressEvents *prometheus.CounterVec // event label: START_TRAVEL|ARRIVE|DEPART|SKIP|CANCEL

	GPSPingsReceived prometheus.Counter
	GPSArrivals      prometheus.Counter
	NATSConnected    prometheus.Gauge

	ETARefreshRuns     prometheus.Counter
	ETARefreshFailures prometheus.Counter
}

// NewCollector creates and registers all planner metrics.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		OptimizeRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "routeplanner_optimize_runs_total",
			Help: "Total route optimization runs, including previews.",
		}),
		OptimizeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "routeplanner_optimize_failures_total",
			Help: "Total route optimization runs that returned an error.",
		}),
		OptimizeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "routeplanner_optimize_duration_seconds",
			Help:    "Duration of route optimization runs.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
		}),
		ProgressEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "routeplanner_progress_events_total",
			Help: "Stop progress events applied, by event type.",
		}, []string{"event"}),
		GPSPingsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "routeplanner_gps_pings_received_total",
			Help: "Total GPS pings consumed from NATS.",
		}),
		GPSArrivals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "routeplanner_gps_arrivals_inferred_total",
			Help: "Total arrivals inferred from GPS proximity.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "routeplanner_nats_connected",
			Help: "1 if the NATS connection is established, 0 otherwise.",
		}),
		ETARefreshRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "routeplanner_eta_refresh_runs_total",
			Help: "Total scheduled ETA refresh job runs.",
		}),
		ETARefreshFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "routeplanner_eta_refresh_failures_total",
			Help: "Total ETA refresh job runs that returned an error.",
		}),
	}

	// Register
	reg.MustRegister(
		c.OptimizeRuns, c.OptimizeFailures, c.OptimizeDuration,
		c.ProgressEvents,
		c.GPSPingsReceived, c.GPSArrivals, c.NATSConnected,
		c.ETARefreshRuns, c.ETARefreshFailures,
	)

	return c
}

// ObserveOptimize records one optimization run with its duration and outcome.
func (c *Collector) ObserveOptimize(d time.Duration, err error) {
	c.OptimizeRuns.Inc()
	c.OptimizeDuration.Observe(d.Seconds())
	if err != nil {
		c.OptimizeFailures.Inc()
	}
}

// ProgressEventInc counts one applied progress event of the given type.
func (c *Collector) ProgressEventInc(event string) {
	c.ProgressEvents.WithLabelValues(event).Inc()
}

// GPSPingInc counts one consumed GPS ping.
func (c *Collector) GPSPingInc() { c.GPSPingsReceived.Inc() }

// GPSArrivalInc counts one arrival inferred from proximity.
func (c *Collector) GPSArrivalInc() { c.GPSArrivals.Inc() }

// NATSSetConnected reflects the NATS connection state.
func (c *Collector) NATSSetConnected(connected bool) {
	if connected {
		c.NATSConnected.Set(1)
	} else {
		c.NATSConnected.Set(0)
	}
}

// ETARefreshObserve records one ETA refresh job run and its outcome.
func (c *Collector) ETARefreshObserve(err error) {
	c.ETARefreshRuns.Inc()
	if err != nil {
		c.ETARefreshFailures.Inc()
	}
}

// Handler returns the scrape handler for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
