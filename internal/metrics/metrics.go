// Package metrics exposes the prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream request outcomes
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

var (
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "streamfr",
		Name:      "upstream_requests_total",
		Help:      "Upstream availability requests by source and outcome",
	}, []string{"source", "outcome"})

	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "streamfr",
		Name:      "upstream_request_duration_seconds",
		Help:      "Upstream availability request latency by source",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})

	AdapterRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "streamfr",
		Name:      "adapter_records_total",
		Help:      "Availability records produced by each source adapter",
	}, []string{"source"})

	Lookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "streamfr",
		Name:      "availability_lookups_total",
		Help:      "Availability lookups by result origin",
	}, []string{"origin"})

	CacheWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "streamfr",
		Name:      "cache_write_failures_total",
		Help:      "Failed cache replace operations",
	})

	CacheRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "streamfr",
		Name:      "cache_records",
		Help:      "Availability records currently cached",
	})

	CacheGroups = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "streamfr",
		Name:      "cache_groups",
		Help:      "Cached (title, media type) groups",
	})

	CacheStaleGroups = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "streamfr",
		Name:      "cache_stale_groups",
		Help:      "Cached groups older than the freshness window",
	})
)
