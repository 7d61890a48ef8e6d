// Package metrics provides a lock-free latency histogram and ingress-rate
// counter for hot-path use, and Publish copies their summary stats into
// Prometheus collectors served over promhttp for the admin surface.
// Within this module nothing feeds the accumulators or the decision and
// check counters, and nothing calls Publish on a schedule.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MacMoment/ac/pkg/clock"
)

// Registry is the process-wide metrics surface: hot-path accumulators
// plus the Prometheus collectors they publish into.
type Registry struct {
	IngestLatency *LatencyHistogram
	IngressRate   *IngressRateCounter

	reg *prometheus.Registry

	decisionsTotal *prometheus.CounterVec
	checksTotal    *prometheus.CounterVec
	ingestLatencyAvgNs prometheus.Gauge
	ingressRateGauge   prometheus.Gauge
	trackedPlayers     prometheus.Gauge
}

// NewRegistry constructs a Registry and registers its collectors with
// reg. Pass a fresh prometheus.NewRegistry() both in production and in
// tests, so Handler serves exactly the collectors registered here
// rather than whatever else shares the global default registry.
func NewRegistry(reg *prometheus.Registry, clk clock.Clock) *Registry {
	factory := promauto.With(reg)
	return &Registry{
		IngestLatency: NewLatencyHistogram(),
		IngressRate:   NewIngressRateCounter(clk),
		reg:           reg,

		decisionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ac_decisions_total",
			Help: "Total mitigation decisions emitted, by action.",
		}, []string{"action"}),

		checksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ac_check_results_total",
			Help: "Total check results, by check name and whether it was significant.",
		}, []string{"check", "significant"}),

		ingestLatencyAvgNs: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ac_ingest_latency_avg_nanoseconds",
			Help: "Average per-event ingest pipeline latency, published periodically.",
		}),

		ingressRateGauge: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ac_ingress_events_per_second",
			Help: "Events processed per second since the last counter reset.",
		}),

		trackedPlayers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ac_tracked_players",
			Help: "Number of players with a live context in the history store.",
		}),
	}
}

// RecordDecision increments the decision counter for action's string
// form (NONE/FLAG/ALERT/PUNISH).
func (r *Registry) RecordDecision(action string) {
	r.decisionsTotal.WithLabelValues(action).Inc()
}

// RecordCheckResult increments the check counter, splitting significant
// (confidence above the aggregator's threshold) from clean results so a
// dashboard can show trigger rate per check without re-deriving it from
// raw confidences.
func (r *Registry) RecordCheckResult(checkName string, significant bool) {
	label := "false"
	if significant {
		label = "true"
	}
	r.checksTotal.WithLabelValues(checkName, label).Inc()
}

// Publish copies the hot-path accumulators' current stats into the
// Prometheus gauges when called. Nothing in this module calls it, so the
// gauges stay at zero until a caller does.
func (r *Registry) Publish(trackedPlayers int) {
	stats := r.IngestLatency.Stats()
	r.ingestLatencyAvgNs.Set(float64(stats.Avg))
	r.ingressRateGauge.Set(r.IngressRate.Rate())
	r.trackedPlayers.Set(float64(trackedPlayers))
}

// Handler returns the HTTP handler serving r's registered collectors in
// the Prometheus exposition format, for mounting on the admin router.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
