// Package metrics defines and registers all custom Prometheus metrics for the
// community portal. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Backend gateway metrics ───────────────────────────────────────────────────

// GatewayRequestsTotal counts calls to the backend gateway.
// Labels:
//   - action: the backend action (e.g. "users", "update-role", "ban")
//   - outcome: "ok", "rejected" (non-2xx), "decode" (2xx, unreadable body)
//     or "transport" (no response)
var GatewayRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_requests_total",
		Help:      "Total number of backend gateway requests, by action and outcome.",
	},
	[]string{"action", "outcome"},
)

// GatewayRequestDuration measures backend round trips.
// Label:
//   - action: the backend action
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of backend gateway round trips.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"action"},
)

// ── Portal action metrics ─────────────────────────────────────────────────────

// ActionsTotal counts user-initiated actions handled by the portal.
// Labels:
//   - action: e.g. "login", "set_role", "toggle_ban"
//   - result: "success" or "error"
var ActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "actions_total",
		Help:      "Total number of portal actions, by action and result.",
	},
	[]string{"action", "result"},
)

// ReloadsTotal counts full reloads of the user and post collections.
// Label:
//   - result: "success" or "error"
var ReloadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reloads_total",
		Help:      "Total number of full data reloads, by result.",
	},
	[]string{"result"},
)
