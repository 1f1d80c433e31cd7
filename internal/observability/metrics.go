package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sealevel_dashboard"

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	// Dataset build metrics.
	DatasetRows          *prometheus.GaugeVec // labels: table={sea_level,catch,ocean_rates}
	DatasetBuildDuration prometheus.Histogram
	Ready                prometheus.Gauge

	// Boundary loading metrics.
	BoundaryRequests      *prometheus.CounterVec   // labels: source, outcome={success,error}
	BoundaryFetchDuration *prometheus.HistogramVec // labels: source
	BoundaryCache         *prometheus.CounterVec   // labels: source, result={hit,miss}
	BoundaryFeatures      *prometheus.GaugeVec     // labels: source
	UnmatchedLocations    *prometheus.GaugeVec     // labels: map={korea,oceans}

	// Serving metrics.
	FigureRequests *prometheus.CounterVec // labels: view, outcome={ok,bad_request,not_found}

	// Publishing metrics.
	RowsPublished prometheus.Counter
	PublishErrors prometheus.Counter
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.DatasetRows,
		m.DatasetBuildDuration,
		m.Ready,
		m.BoundaryRequests,
		m.BoundaryFetchDuration,
		m.BoundaryCache,
		m.BoundaryFeatures,
		m.UnmatchedLocations,
		m.FigureRequests,
		m.RowsPublished,
		m.PublishErrors,
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
		DatasetRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows per generated or parsed table.",
		}, []string{"table"}),
		DatasetBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_build_duration_seconds",
			Help:      "Duration of building the in-memory tables.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		Ready: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ready",
			Help:      "1 once the snapshot is loaded, 0 before.",
		}),
		BoundaryRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "boundary_requests_total",
			Help:      "Boundary file loads by source and outcome.",
		}, []string{"source", "outcome"}),
		BoundaryFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "boundary_fetch_duration_seconds",
			Help:      "Boundary file load duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		BoundaryCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "boundary_cache_total",
			Help:      "Boundary cache lookups by source and result.",
		}, []string{"source", "result"}),
		BoundaryFeatures: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "boundary_features",
			Help:      "Number of features in each loaded boundary file.",
		}, []string{"source"}),
		UnmatchedLocations: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unmatched_locations",
			Help:      "Data locations with no boundary feature; they render uncolored.",
		}, []string{"map"}),
		FigureRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "figure_requests_total",
			Help:      "Figure API requests by view and outcome.",
		}, []string{"view", "outcome"}),
		RowsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_published_total",
			Help:      "Dataset rows published to the dataset topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed dataset publish attempts.",
		}),
	}
}
