// Package metrics exposes engine counters over Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	ActiveTrains   prometheus.Gauge
	FutureStatuses prometheus.Gauge

	TripsCompleted        prometheus.Counter
	TurnaroundPredictions prometheus.Counter

	UpstreamRequests *prometheus.CounterVec // result label: ok|error

	CycleDuration       prometheus.Histogram
	FutureProbeDuration prometheus.Histogram
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		ActiveTrains: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "livetagus_active_trains",
			Help: "Trains in the current snapshot.",
		}),
		FutureStatuses: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "livetagus_future_statuses",
			Help: "Pre-fetched statuses for not-yet-active trains.",
		}),
		TripsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "livetagus_trips_completed_total",
			Help: "Trips observed completing their final station.",
		}),
		TurnaroundPredictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "livetagus_turnaround_predictions_total",
			Help: "Forecast delays derived from inbound rolling stock.",
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "livetagus_upstream_requests_total",
			Help: "Requests to the operator's live-passage endpoint.",
		}, []string{"result"}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "livetagus_cycle_duration_seconds",
			Help:    "Duration of one full update cycle.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		FutureProbeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "livetagus_future_probe_duration_seconds",
			Help:    "Duration of one future-status probe pass.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
	}

	reg.MustRegister(
		c.ActiveTrains,
		c.FutureStatuses,
		c.TripsCompleted,
		c.TurnaroundPredictions,
		c.UpstreamRequests,
		c.CycleDuration,
		c.FutureProbeDuration,
	)

	return c
}

// Handler serves the registry over HTTP.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
