package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// bulletin refresh pipeline.
type Metrics struct {
	BulletinsDecoded      *prometheus.CounterVec // label: product
	DecodeFailures        *prometheus.CounterVec // label: product
	LocateFailures        *prometheus.CounterVec // label: product
	LocateProbes          prometheus.Histogram
	ObservationsPublished prometheus.Counter
	RefreshDuration       prometheus.Histogram
	PipelineRunning       prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		BulletinsDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rainbow",
			Subsystem: "pipeline",
			Name:      "bulletins_decoded_total",
			Help:      "Bulletins successfully decoded, by product.",
		}, []string{"product"}),
		DecodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rainbow",
			Subsystem: "pipeline",
			Name:      "decode_failures_total",
			Help:      "Bulletins that failed to parse, by product.",
		}, []string{"product"}),
		LocateFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rainbow",
			Subsystem: "pipeline",
			Name:      "locate_failures_total",
			Help:      "Bulletin locations that exhausted the retry bound, by product.",
		}, []string{"product"}),
		LocateProbes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rainbow",
			Subsystem: "pipeline",
			Name:      "locate_probe_seconds",
			Help:      "Time spent locating one bulletin issuance.",
			Buckets:   prometheus.DefBuckets,
		}),
		ObservationsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rainbow",
			Subsystem: "pipeline",
			Name:      "observations_published_total",
			Help:      "Normalized observations written to the sink topic.",
		}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rainbow",
			Subsystem: "pipeline",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of one full refresh across all points and products.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rainbow",
			Subsystem: "pipeline",
			Name:      "running",
			Help:      "1 while the refresh pipeline is active.",
		}),
	}

	prometheus.MustRegister(
		m.BulletinsDecoded,
		m.DecodeFailures,
		m.LocateFailures,
		m.LocateProbes,
		m.ObservationsPublished,
		m.RefreshDuration,
		m.PipelineRunning,
	)
	return m
}

// NewMetricsForTesting creates Metrics with no registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		BulletinsDecoded:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rainbow", Subsystem: "pipeline", Name: "bulletins_decoded_total"}, []string{"product"}),
		DecodeFailures:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rainbow", Subsystem: "pipeline", Name: "decode_failures_total"}, []string{"product"}),
		LocateFailures:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rainbow", Subsystem: "pipeline", Name: "locate_failures_total"}, []string{"product"}),
		LocateProbes:          prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "rainbow", Subsystem: "pipeline", Name: "locate_probe_seconds"}),
		ObservationsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "rainbow", Subsystem: "pipeline", Name: "observations_published_total"}),
		RefreshDuration:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "rainbow", Subsystem: "pipeline", Name: "refresh_duration_seconds"}),
		PipelineRunning:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "rainbow", Subsystem: "pipeline", Name: "running"}),
	}
}
