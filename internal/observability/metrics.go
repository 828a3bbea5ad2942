package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// forecast service.
type Metrics struct {
	RefreshCycles      *prometheus.CounterVec // labels: station, outcome={success,error}
	RecordsMerged      *prometheus.HistogramVec
	TokenRenewals      prometheus.Counter
	TokenRenewalErrors prometheus.Counter
	APIRequestDuration *prometheus.HistogramVec // labels: endpoint={token,forecast,geolocation}
	LastRefreshTime    *prometheus.GaugeVec     // unix seconds of the last successful refresh
	SnapshotsPublished prometheus.Counter
	PublishErrors      prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.RefreshCycles,
		m.RecordsMerged,
		m.TokenRenewals,
		m.TokenRenewalErrors,
		m.APIRequestDuration,
		m.LastRefreshTime,
		m.SnapshotsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RefreshCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "srf_forecast",
			Name:      "refresh_cycles_total",
			Help:      "Refresh cycles per station by outcome.",
		}, []string{"station", "outcome"}),
		RecordsMerged: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "srf_forecast",
			Name:      "records_merged",
			Help:      "Number of forecast points produced per merge.",
			Buckets:   []float64{5, 10, 20, 30, 40, 60, 80, 120},
		}, []string{"station"}),
		TokenRenewals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "srf_forecast",
			Name:      "token_renewals_total",
			Help:      "Successful OAuth access token renewals.",
		}),
		TokenRenewalErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "srf_forecast",
			Name:      "token_renewal_errors_total",
			Help:      "Failed OAuth access token renewals.",
		}),
		APIRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "srf_forecast",
			Name:      "api_request_duration_seconds",
			Help:      "SRF API request duration by endpoint.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		LastRefreshTime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "srf_forecast",
			Name:      "last_refresh_timestamp_seconds",
			Help:      "Unix time of the last successful refresh per station.",
		}, []string{"station"}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "srf_forecast",
			Name:      "snapshots_published_total",
			Help:      "Snapshots published to the Kafka sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "srf_forecast",
			Name:      "snapshot_publish_errors_total",
			Help:      "Failed snapshot publishes to the Kafka sink topic.",
		}),
	}
}
