// Package metrics defines and registers the custom Prometheus metrics of the
// job-board API. It is the single source of truth for metric names, labels
// and help strings.
//
// Metrics are registered with the default registry through promauto when the
// package is loaded; the HTTP layer exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "medhrplus"

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts served requests.
// Labels:
//   - method: HTTP method
//   - route:  the registered route pattern (e.g. "/api/v1/job/:id")
//   - code:   response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by method, route and status code.",
	},
	[]string{"method", "route", "code"},
)

// HTTPRequestDuration measures request latency per route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Latency of HTTP requests, by method and route.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ── Account metrics ───────────────────────────────────────────────────────────

// RegistrationsTotal counts self-service sign-ups.
// Labels:
//   - role: "employee" or "employer"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered, by role.",
	},
	[]string{"role"},
)

// RegistrationsSweptTotal counts unverified accounts removed by the sweeper.
// Labels:
//   - role: "employee" or "employer"
var RegistrationsSweptTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_swept_total",
		Help:      "Total number of expired unverified registrations deleted.",
	},
	[]string{"role"},
)

// SweepDuration measures one pass of the registration sweeper.
var SweepDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "registration_sweep_duration_seconds",
		Help:      "Duration of one expired-registration sweep.",
		Buckets:   prometheus.DefBuckets,
	},
)

// AuthFailuresTotal counts rejected credentials.
// Labels:
//   - reason: "unauthenticated", "invalid_token", "malformed_claims", "not_found", "role"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by the authorization gates.",
	},
	[]string{"reason"},
)

// ── Application metrics ───────────────────────────────────────────────────────

// ApplicationsTotal counts job and course applications.
// Labels:
//   - kind:   "job" or "course"
//   - result: "accepted", "duplicate", "closed"
var ApplicationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_total",
		Help:      "Total number of applications, by kind and result.",
	},
	[]string{"kind", "result"},
)

// ── Email metrics ─────────────────────────────────────────────────────────────

// EmailsTotal counts outgoing email attempts.
// Labels:
//   - template: the message kind (e.g. "otp", "reset_password")
//   - result:   "sent" or "failed"
var EmailsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_total",
		Help:      "Total number of emails attempted, by template and result.",
	},
	[]string{"template", "result"},
)

// MailQueueDepth tracks messages waiting in each mail worker channel.
// Label:
//   - worker_id: numeric worker index
var MailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of emails pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Storage metrics ───────────────────────────────────────────────────────────

// UploadsTotal counts file uploads.
// Labels:
//   - folder: storage folder (e.g. "avatars", "resumes")
//   - result: "stored", "rejected", "rate_limited", "failed"
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of file uploads, by folder and result.",
	},
	[]string{"folder", "result"},
)

// ── Payment metrics ───────────────────────────────────────────────────────────

// PaymentsTotal counts payment status changes recorded locally.
// Label:
//   - status: "pending", "paid" or "failed"
var PaymentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_total",
		Help:      "Total number of payment status changes, by resulting status.",
	},
	[]string{"status"},
)

// PaymentNotificationsDedupTotal counts deduplication decisions on gateway
// notifications.
// Label:
//   - result: "duplicate" (skipped) or "new" (applied)
var PaymentNotificationsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_notifications_dedup_total",
		Help:      "Total number of gateway notification deduplication checks, by result.",
	},
	[]string{"result"},
)
