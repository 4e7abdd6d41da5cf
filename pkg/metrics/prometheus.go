package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// promSessionMetrics is the Prometheus implementation of SessionMetrics.
type promSessionMetrics struct {
	opsTotal     *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
	gatewayCalls *prometheus.CounterVec
	authRefresh  prometheus.Counter
}

func newPromSessionMetrics(reg *prometheus.Registry) *promSessionMetrics {
	return &promSessionMetrics{
		opsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "onedrivefs_ops_total",
				Help: "Total filesystem verb invocations by verb and outcome",
			},
			[]string{"verb", "outcome"},
		),
		cacheLookups: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "onedrivefs_path_cache_lookups_total",
				Help: "Path cache lookups by result",
			},
			[]string{"result"},
		),
		gatewayCalls: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "onedrivefs_gateway_calls_total",
				Help: "Remote store calls by gateway operation",
			},
			[]string{"operation"},
		),
		authRefresh: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "onedrivefs_auth_refreshes_total",
				Help: "Credential refresh-and-retry cycles",
			},
		),
	}
}

func (m *promSessionMetrics) ObserveOp(verb, outcome string) {
	m.opsTotal.WithLabelValues(verb, outcome).Inc()
}

func (m *promSessionMetrics) CacheHit() {
	m.cacheLookups.WithLabelValues("hit").Inc()
}

func (m *promSessionMetrics) CacheMiss() {
	m.cacheLookups.WithLabelValues("miss").Inc()
}

func (m *promSessionMetrics) GatewayCall(op string) {
	m.gatewayCalls.WithLabelValues(op).Inc()
}

func (m *promSessionMetrics) AuthRefresh() {
	m.authRefresh.Inc()
}
