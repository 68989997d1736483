// Package metrics exposes Prometheus instrumentation for route searches.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Discard reasons.
const (
	ReasonScoreFailed   = "score_failed"
	ReasonBelowBaseline = "below_baseline"
)

// Upstream sources.
const (
	SourceQuote     = "quote"
	SourcePrecision = "precision"
)

// Metrics holds the collectors for one process. All methods are safe on a nil
// receiver so instrumentation stays optional.
type Metrics struct {
	RoutesEnumerated prometheus.Counter
	RoutesScored     prometheus.Counter
	RoutesRetained   prometheus.Counter
	RoutesDiscarded  *prometheus.CounterVec
	UpstreamErrors   *prometheus.CounterVec
	HopQuoteLatency  prometheus.Histogram
	BaselineRate     prometheus.Gauge
	BestRouteRatio   prometheus.Gauge
}

// New creates the collectors without registering them.
func New() *Metrics {
	return &Metrics{
		RoutesEnumerated: prometheus.NewCounter(prometheus.CounterOpts{Name: "routes_enumerated_total", Help: "Candidate routes produced by the enumerator"}),
		RoutesScored:     prometheus.NewCounter(prometheus.CounterOpts{Name: "routes_scored_total", Help: "Routes scored successfully"}),
		RoutesRetained:   prometheus.NewCounter(prometheus.CounterOpts{Name: "routes_retained_total", Help: "Routes meeting the baseline"}),
		RoutesDiscarded: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "routes_discarded_total", Help: "Routes discarded by reason"},
			[]string{"reason"},
		),
		UpstreamErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "upstream_errors_total", Help: "Upstream failures by source"},
			[]string{"source"},
		),
		HopQuoteLatency: prometheus.NewHistogram(prometheus.HistogramOpts{Name: "hop_quote_latency_ms", Help: "Hop quote latency", Buckets: prometheus.ExponentialBuckets(10, 2, 10)}),
		BaselineRate:    prometheus.NewGauge(prometheus.GaugeOpts{Name: "baseline_rate", Help: "Valuation of the direct route in the last search"}),
		BestRouteRatio:  prometheus.NewGauge(prometheus.GaugeOpts{Name: "best_route_ratio", Help: "Best retained valuation divided by baseline in the last search"}),
	}
}

// Register registers all collectors plus the Go runtime collectors.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.RoutesEnumerated,
		m.RoutesScored,
		m.RoutesRetained,
		m.RoutesDiscarded,
		m.UpstreamErrors,
		m.HopQuoteLatency,
		m.BaselineRate,
		m.BestRouteRatio,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Handler returns an HTTP handler serving the given gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) Enumerated(n int) {
	if m == nil {
		return
	}
	m.RoutesEnumerated.Add(float64(n))
}

func (m *Metrics) Scored() {
	if m == nil {
		return
	}
	m.RoutesScored.Inc()
}

func (m *Metrics) Retained() {
	if m == nil {
		return
	}
	m.RoutesRetained.Inc()
}

func (m *Metrics) Discarded(reason string) {
	if m == nil {
		return
	}
	m.RoutesDiscarded.WithLabelValues(reason).Inc()
}

func (m *Metrics) UpstreamError(source string) {
	if m == nil {
		return
	}
	m.UpstreamErrors.WithLabelValues(source).Inc()
}

func (m *Metrics) ObserveHopQuote(d time.Duration) {
	if m == nil {
		return
	}
	m.HopQuoteLatency.Observe(float64(d.Milliseconds()))
}

// ObserveSearch records the baseline and the best retained valuation.
func (m *Metrics) ObserveSearch(baseline, best float64) {
	if m == nil {
		return
	}
	m.BaselineRate.Set(baseline)
	if baseline > 0 {
		m.BestRouteRatio.Set(best / baseline)
	}
}
