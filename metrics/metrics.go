package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the service.
type Metrics struct {
	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	FetchErrors      *prometheus.CounterVec
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	ReportsStored    prometheus.Gauge
}

// New creates the service metrics registered on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates the service metrics registered on reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seoinsight_analyses_total",
			Help: "Analyses by outcome.",
		}, []string{"status"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "seoinsight_analysis_duration_seconds",
			Help:    "Time spent fetching and analyzing a page.",
			Buckets: prometheus.DefBuckets,
		}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seoinsight_fetch_errors_total",
			Help: "Fetch failures by kind.",
		}, []string{"kind"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seoinsight_cache_hits_total",
			Help: "Analyses served from the result cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seoinsight_cache_misses_total",
			Help: "Analyses that required a fetch.",
		}),
		ReportsStored: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "seoinsight_reports_stored",
			Help: "Reports currently held by the report store.",
		}),
	}

	reg.MustRegister(
		m.AnalysesTotal,
		m.AnalysisDuration,
		m.FetchErrors,
		m.CacheHits,
		m.CacheMisses,
		m.ReportsStored,
	)

	return m
}

// Handler exposes the default registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
