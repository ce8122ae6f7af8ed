package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics of the analysis service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	AnalysesTotal  *prometheus.CounterVec // labels: horizon, stance
	AnalysisErrors *prometheus.CounterVec // labels: kind=input|provider
	FetchDuration  *prometheus.HistogramVec
	FetchErrors    *prometheus.CounterVec // labels: source
	CacheLookups   *prometheus.CounterVec // labels: result=hit|miss|stale|error
	BreakerOpen    *prometheus.GaugeVec   // labels: source; 0=closed, 1=open
	RefreshTotal   *prometheus.CounterVec // labels: result=ok|error

	gatherer prometheus.Gatherer
}

// New creates the metrics and registers them with reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pivotdesk_analyses_total",
			Help: "Completed analyses by horizon and stance",
		}, []string{"horizon", "stance"}),
		AnalysisErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pivotdesk_analysis_errors_total",
			Help: "Aborted analyses by error kind",
		}, []string{"kind"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pivotdesk_fetch_duration_seconds",
			Help:    "Daily bar fetch latency by data source",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}, []string{"source"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pivotdesk_fetch_errors_total",
			Help: "Failed daily bar fetches by data source",
		}, []string{"source"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pivotdesk_cache_lookups_total",
			Help: "Bar cache lookups by result",
		}, []string{"result"}),
		BreakerOpen: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pivotdesk_provider_breaker_open",
			Help: "Provider circuit breaker state (0=closed, 1=open)",
		}, []string{"source"}),
		RefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pivotdesk_cache_refresh_total",
			Help: "Scheduled cache refreshes by result",
		}, []string{"result"}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.AnalysesTotal,
		m.AnalysisErrors,
		m.FetchDuration,
		m.FetchErrors,
		m.CacheLookups,
		m.BreakerOpen,
		m.RefreshTotal,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAnalysis(horizon, stance string) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(horizon, stance).Inc()
}

func (m *Metrics) ObserveAnalysisError(kind string) {
	if m == nil {
		return
	}
	m.AnalysisErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveFetch(source string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(source).Observe(d.Seconds())
	if err != nil {
		m.FetchErrors.WithLabelValues(source).Inc()
	}
}

func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) SetBreakerOpen(source string, open bool) {
	if m == nil {
		return
	}
	v := 0.0
	if open {
		v = 1
	}
	m.BreakerOpen.WithLabelValues(source).Set(v)
}

func (m *Metrics) ObserveRefresh(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.RefreshTotal.WithLabelValues(result).Inc()
}
