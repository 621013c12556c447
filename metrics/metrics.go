// Package metrics holds the prometheus instrumentation of the verification
// engine. Everything is optional: a nil *Metrics is silently inert.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the collectors the verifier reports to.
type Metrics struct {
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	verified    prometheus.Counter
	failures    *prometheus.CounterVec
}

// New builds the verification collectors and registers them with reg. Tests
// pass their own registry. A nil registerer leaves the collectors
// unregistered but usable.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "protect",
			Subsystem: "verifier",
			Name:      "container_cache_hits_total",
			Help:      "Rule container verifications skipped because the exact content was verified before.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "protect",
			Subsystem: "verifier",
			Name:      "container_cache_misses_total",
			Help:      "Rule containers that had to be verified and decoded.",
		}),
		verified: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "protect",
			Subsystem: "verifier",
			Name:      "entities_verified_total",
			Help:      "Envelopes that passed the full verification pipeline.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "protect",
			Subsystem: "verifier",
			Name:      "failures_total",
			Help:      "Verification failures by pipeline stage.",
		}, []string{"stage"}),
	}
	if reg != nil {
		reg.MustRegister(m.cacheHits, m.cacheMisses, m.verified, m.failures)
	}
	return m
}

// CacheHit records a container served from the cache.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

// CacheMiss records a container that required a full verification.
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

// Verified records an envelope that passed every check.
func (m *Metrics) Verified() {
	if m == nil {
		return
	}
	m.verified.Inc()
}

// Failed records a verification failure at the given pipeline stage.
func (m *Metrics) Failed(stage string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(stage).Inc()
}
