// Package metrics defines and registers all custom Prometheus metrics of the
// YaMDB API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "yamdb"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// ConfirmationCodesTotal counts successful code requests.
// Label:
//   - outcome: "issued" (a new code was stamped) or "reissued" (the outstanding code was sent again)
var ConfirmationCodesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "confirmation_codes_total",
		Help:      "Total number of confirmation code requests that succeeded.",
	},
	[]string{"outcome"},
)

// ConfirmationMailsTotal counts confirmation mails handed to the queue or held back.
// Label:
//   - result: "queued" or "throttled"
var ConfirmationMailsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "confirmation_mails_total",
		Help:      "Total number of confirmation mails, labelled by queue result.",
	},
	[]string{"result"},
)

// VerificationsTotal counts code verification attempts.
// Label:
//   - result: "ok", "invalid", or "not_found"
var VerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "code_verifications_total",
		Help:      "Total number of confirmation code verifications, by result.",
	},
	[]string{"result"},
)

// AccessDecisionsTotal counts access controller decisions.
// Labels:
//   - resource: "catalog", "review", "comment", "users", "self"
//   - action: "read" or "write"
//   - decision: "allow" or "deny"
var AccessDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_decisions_total",
		Help:      "Total number of access decisions, by resource, action and result.",
	},
	[]string{"resource", "action", "decision"},
)

// ── Mail metrics ──────────────────────────────────────────────────────────────

// MailDeliveriesTotal counts delivery attempts made by the dispatcher workers.
// Labels:
//   - backend: "log" or "kafka"
//   - result: "sent" or "failed"
var MailDeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_deliveries_total",
		Help:      "Total number of mail delivery attempts, by backend and result.",
	},
	[]string{"backend", "result"},
)

// MailQueueDepth tracks the number of messages waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var MailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of messages pending in each mail worker channel.",
	},
	[]string{"worker_id"},
)

// MailDroppedTotal counts messages dropped because the target worker channel was full.
var MailDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_dropped_total",
		Help:      "Total number of mail messages dropped on a full queue.",
	},
)

// MailDeliveryDuration measures a single Send call.
var MailDeliveryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "mail_delivery_duration_seconds",
		Help:      "Duration of a single mail delivery attempt.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"backend"},
)

// ── HTTP metrics ─────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts served requests.
// Labels:
//   - method: HTTP method
//   - route:  registered route pattern, e.g. /api/v1/titles/:title_id
//   - status: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests served.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures request latency per route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Latency of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)
