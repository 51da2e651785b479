// Package metrics holds the Prometheus collectors shared by the catalog
// client, the filter engine and the session manager. Collectors register
// with the default registry, which the web server exposes on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "propcompare"

// Outcome label values for CatalogRequests.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

var (
	// CatalogRequests counts outbound catalog calls by endpoint and outcome.
	CatalogRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "requests_total",
		Help:      "Outbound catalog requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	// CatalogLatency observes outbound catalog call durations.
	CatalogLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "request_duration_seconds",
		Help:      "Outbound catalog request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	// CatalogCacheHits counts responses served from the client cache.
	CatalogCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "cache_hits_total",
		Help:      "Catalog responses served from the local cache.",
	}, []string{"endpoint"})

	// StaleResponses counts filter responses dropped because a newer request
	// superseded them.
	StaleResponses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "filter",
		Name:      "stale_responses_total",
		Help:      "Filter responses discarded as superseded.",
	})

	// SelectionRejected counts toggles refused because the comparison was full.
	SelectionRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "selection",
		Name:      "rejected_total",
		Help:      "Selection toggles rejected at the comparison limit.",
	})

	// ActiveSessions tracks live browser sessions.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "active",
		Help:      "Browser sessions currently held in memory.",
	})
)
