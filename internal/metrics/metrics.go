// Package metrics holds Prometheus instruments used across the service.
// All collectors are registered with the global registry, so exposing
// promhttp.Handler() in main.go is enough to publish them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ValidationRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "validation_runs_total",
			Help: "Cumulative number of business-rule validation runs started.",
		})

	FindingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validation_findings_total",
			Help: "Cumulative number of findings reported, by severity.",
		}, []string{"severity"})

	RuleFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validation_rule_failures_total",
			Help: "Cumulative number of runs aborted by an infrastructure failure, by rule.",
		}, []string{"rule"})

	RunSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "validation_run_seconds",
			Help:    "Wall time of completed validation runs.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		})

	SchemaRejectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "schema_rejections_total",
			Help: "Cumulative number of records rejected by the JSON-Schema stage.",
		})

	JournalCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "journal_cache_hits_total",
			Help: "Cumulative number of canonical journal lookups served from cache.",
		})

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Cumulative number of HTTP requests served, by route pattern and status.",
		}, []string{"route", "status"})
)

func init() {
	prometheus.MustRegister(
		ValidationRunsTotal,
		FindingsTotal,
		RuleFailuresTotal,
		RunSeconds,
		SchemaRejectionsTotal,
		JournalCacheHitsTotal,
		HTTPRequestsTotal,
	)
}
