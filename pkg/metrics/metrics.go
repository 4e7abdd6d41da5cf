// Package metrics provides optional Prometheus metrics for the worker.
//
// Metrics are opt-in: if InitRegistry is never called, constructors return
// no-op implementations with zero overhead, and the worker runs without a
// metrics endpoint. This keeps the one-shot CLI invocation path free of
// registry setup.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// registry is the global registry for all worker metrics.
	// Write-once via registryOnce, read-many afterwards.
	registry     *prometheus.Registry
	registryOnce sync.Once
)

// InitRegistry initializes the global registry. Safe to call multiple
// times; calls after the first are ignored.
func InitRegistry() {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()
	})
}

// Registry returns the global registry, or nil when metrics are disabled.
func Registry() *prometheus.Registry {
	return registry
}

// Enabled reports whether InitRegistry has been called.
func Enabled() bool {
	return registry != nil
}

// SessionMetrics observes the worker session: verb outcomes, path cache
// effectiveness, gateway traffic and credential refreshes.
type SessionMetrics interface {
	// ObserveOp records one completed verb invocation with its outcome
	// ("ok" or an error-code string).
	ObserveOp(verb, outcome string)

	// CacheHit and CacheMiss record resolver cache lookups.
	CacheHit()
	CacheMiss()

	// GatewayCall records one remote call by gateway operation name.
	GatewayCall(op string)

	// AuthRefresh records one refresh-and-retry cycle.
	AuthRefresh()
}

// NewSessionMetrics returns a Prometheus-backed SessionMetrics, or a no-op
// implementation when metrics are disabled.
func NewSessionMetrics() SessionMetrics {
	if !Enabled() {
		return noopSessionMetrics{}
	}
	return newPromSessionMetrics(registry)
}

type noopSessionMetrics struct{}

func (noopSessionMetrics) ObserveOp(verb, outcome string) {}
func (noopSessionMetrics) CacheHit()                      {}
func (noopSessionMetrics) CacheMiss()                     {}
func (noopSessionMetrics) GatewayCall(op string)          {}
func (noopSessionMetrics) AuthRefresh()                   {}
