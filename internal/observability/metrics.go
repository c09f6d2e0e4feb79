package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the viewer.
type Metrics struct {
	// Flood API transport.
	APIRequests        *prometheus.CounterVec   // labels: endpoint={flood-level,map,statistics,tile-url,chat}, outcome
	APIRequestDuration *prometheus.HistogramVec // labels: endpoint

	// Presentation.
	MapRenders      *prometheus.CounterVec // labels: outcome={mounted,stale,failed}
	StatsRefreshes  *prometheus.CounterVec // labels: outcome={updated,stale,failed}
	LevelCommits    prometheus.Counter
	CurrentLevel    prometheus.Gauge
	ChatSends       *prometheus.CounterVec // labels: mode={local,remote}, outcome={answered,apology,busy}
	EventsPublished *prometheus.CounterVec // labels: type, outcome={ok,error}
	EventsEnabled   prometheus.Gauge
}

// NewMetrics creates and registers all viewer metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.APIRequests,
		m.APIRequestDuration,
		m.MapRenders,
		m.StatsRefreshes,
		m.LevelCommits,
		m.CurrentLevel,
		m.ChatSends,
		m.EventsPublished,
		m.EventsEnabled,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_viewer",
			Name:      "api_requests_total",
			Help:      "Flood API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		APIRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "flood_viewer",
			Name:      "api_request_duration_seconds",
			Help:      "Flood API round-trip duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),
		MapRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_viewer",
			Name:      "map_renders_total",
			Help:      "Map render attempts by outcome.",
		}, []string{"outcome"}),
		StatsRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_viewer",
			Name:      "statistics_refreshes_total",
			Help:      "Statistics refreshes by outcome.",
		}, []string{"outcome"}),
		LevelCommits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_viewer",
			Name:      "level_commits_total",
			Help:      "Committed flood level changes.",
		}),
		CurrentLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flood_viewer",
			Name:      "current_level_meters",
			Help:      "Flood level currently selected in the view.",
		}),
		ChatSends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_viewer",
			Name:      "chat_sends_total",
			Help:      "Chat sends by response mode and outcome.",
		}, []string{"mode", "outcome"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_viewer",
			Name:      "events_published_total",
			Help:      "Interaction events published by type and outcome.",
		}, []string{"type", "outcome"}),
		EventsEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flood_viewer",
			Name:      "events_enabled",
			Help:      "1 when interaction event publishing is enabled, 0 otherwise.",
		}),
	}
}
