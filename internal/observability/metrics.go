package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// risk inference service.
type Metrics struct {
	Predictions     *prometheus.CounterVec // labels: endpoint={manual,location}, outcome={ok,client_error,model_unavailable,server_error}
	RequestDuration *prometheus.HistogramVec
	ModelLoaded     prometheus.Gauge
	RegionRules     prometheus.Gauge

	// Attribution cascade metrics.
	AttributionTier *prometheus.CounterVec // labels: tier={tree-path,permutation,builtin,none}
	Postprocessed   *prometheus.CounterVec // labels: rule={demoted,promoted}

	// Environmental fetch metrics.
	FetchRequests    *prometheus.CounterVec   // labels: source={rainfall,elevation}, outcome={success,error}
	FetchCache       *prometheus.CounterVec   // labels: source={rainfall,elevation}, result={hit,miss}
	FetchAPIDuration *prometheus.HistogramVec // labels: source={rainfall,elevation}

	// Audit stream metrics.
	AuditPublished prometheus.Counter
	AuditErrors    prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Predictions,
		m.RequestDuration,
		m.ModelLoaded,
		m.RegionRules,
		m.AttributionTier,
		m.Postprocessed,
		m.FetchRequests,
		m.FetchCache,
		m.FetchAPIDuration,
		m.AuditPublished,
		m.AuditErrors,
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
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "land_risk",
			Name:      "predictions_total",
			Help:      "Prediction requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "land_risk",
			Name:      "request_duration_seconds",
			Help:      "End-to-end prediction request duration.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		ModelLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "land_risk",
			Name:      "model_loaded",
			Help:      "1 when the classifier artifact is loaded, 0 otherwise.",
		}),
		RegionRules: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "land_risk",
			Name:      "region_rules_loaded",
			Help:      "Number of region rules loaded at startup.",
		}),
		AttributionTier: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "land_risk",
			Name:      "attribution_tier_total",
			Help:      "Attribution cascade outcomes by winning tier.",
		}, []string{"tier"}),
		Postprocessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "land_risk",
			Name:      "postprocess_rules_total",
			Help:      "Label corrections applied by the postprocessing rule engine.",
		}, []string{"rule"}),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "land_risk",
			Name:      "environmental_fetch_total",
			Help:      "Environmental API requests by source and outcome.",
		}, []string{"source", "outcome"}),
		FetchCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "land_risk",
			Name:      "environmental_cache_total",
			Help:      "Environmental fetch cache lookups by source and result.",
		}, []string{"source", "result"}),
		FetchAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "land_risk",
			Name:      "environmental_api_duration_seconds",
			Help:      "Environmental API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 8},
		}, []string{"source"}),
		AuditPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "land_risk",
			Name:      "audit_events_published_total",
			Help:      "Prediction audit events written to Kafka.",
		}),
		AuditErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "land_risk",
			Name:      "audit_publish_errors_total",
			Help:      "Failed attempts to publish prediction audit events.",
		}),
	}
}
