// Package metrics exposes Prometheus metrics for scrape runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels of FetchesTotal.
const (
	OutcomeOK         = "ok"
	OutcomeNetwork    = "network"
	OutcomeHTTPStatus = "http_status"
	OutcomeParse      = "parse"
	OutcomePanic      = "panic"
	OutcomeOther      = "other"
)

// Metrics holds the collectors of one process. Each instance owns its
// registry so tests do not collide on the default one.
type Metrics struct {
	registry *prometheus.Registry

	FetchesTotal  *prometheus.CounterVec
	FetchLatency  *prometheus.HistogramVec
	StationsEmpty prometheus.Gauge
	LastRun       prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		FetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pwsscraper_station_fetches_total",
				Help: "Total station dashboard fetches",
			},
			[]string{"station", "outcome"},
		),
		FetchLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pwsscraper_station_fetch_latency_seconds",
				Help:    "Station fetch and parse latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"station"},
		),
		StationsEmpty: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "pwsscraper_stations_empty",
				Help: "Stations that produced the empty record in the last run",
			},
		),
		LastRun: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "pwsscraper_last_run_timestamp_seconds",
				Help: "Unix time the last run finished",
			},
		),
	}
}

// ObserveFetch records one station fetch.
func (m *Metrics) ObserveFetch(station, outcome string, d time.Duration) {
	m.FetchesTotal.WithLabelValues(station, outcome).Inc()
	m.FetchLatency.WithLabelValues(station).Observe(d.Seconds())
}

// ObserveRun records the end of a run.
func (m *Metrics) ObserveRun(empty int, at time.Time) {
	m.StationsEmpty.Set(float64(empty))
	m.LastRun.Set(float64(at.Unix()))
}

// WriteToTextfile writes the registry in the node_exporter textfile format.
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
