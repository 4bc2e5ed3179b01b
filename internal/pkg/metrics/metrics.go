// Package metrics defines and registers all custom Prometheus metrics for the
// social API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// init via promauto; the /metrics endpoint exposes them together with the
// HTTP request metrics collected by the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "social"

// ── Token metrics ─────────────────────────────────────────────────────────────

// TokensIssuedTotal counts signed tokens.
// Label:
//   - purpose: "access" or "confirmation"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of tokens issued, by purpose.",
	},
	[]string{"purpose"},
)

// TokenRejectionsTotal counts tokens that failed verification.
// Label:
//   - reason: "expired", "invalid", "malformed" or "wrong_purpose"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of tokens rejected during verification.",
	},
	[]string{"reason"},
)

// ── Enrichment metrics ────────────────────────────────────────────────────────

// EnrichmentJobsTotal counts finished enrichment jobs.
// Label:
//   - outcome: "succeeded", "generation_failed" or "update_failed"
var EnrichmentJobsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrichment_jobs_total",
		Help:      "Total number of image enrichment jobs, by outcome.",
	},
	[]string{"outcome"},
)

// EnrichmentDuration measures a job from dequeue to the last side effect.
var EnrichmentDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "enrichment_duration_seconds",
		Help:      "Duration of image enrichment jobs.",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 90},
	},
	[]string{"outcome"},
)

// JobsPending tracks background jobs scheduled but not yet started.
var JobsPending = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "jobs_pending",
		Help:      "Current number of background jobs waiting behind an earlier job with the same key.",
	},
)

// JobsRunning tracks background jobs currently executing.
var JobsRunning = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "jobs_running",
		Help:      "Current number of background jobs executing.",
	},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsTotal counts email send attempts.
// Labels:
//   - kind: "registration", "enrichment_succeeded" or "enrichment_failed"
//   - result: "sent" or "failed"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notification emails, by kind and result.",
	},
	[]string{"kind", "result"},
)

// ── Post metrics ──────────────────────────────────────────────────────────────

// PostsCreatedTotal counts newly created posts.
// Label:
//   - enriched: "true" when the post was created with a prompt
var PostsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created.",
	},
	[]string{"enriched"},
)
