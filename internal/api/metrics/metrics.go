// Package metrics defines and registers all custom Prometheus metrics for
// the partner-system API. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "partner_auth"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "bad_credentials", "unverified", "not_found", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RenewalsTotal counts silent access-token renewal attempts.
// Label:
//   - result: "renewed" or "rejected"
var RenewalsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "renewals_total",
		Help:      "Total number of refresh-token renewal attempts, by result.",
	},
	[]string{"result"},
)

// AuthRequestsTotal counts protected-route authentications.
// Label:
//   - outcome: "authenticated" (access token valid) or "renewed" (fallback path)
var AuthRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_requests_total",
		Help:      "Total number of authenticated requests, by outcome.",
	},
	[]string{"outcome"},
)

// SessionsRevokedTotal counts refresh-session deletions (logouts).
var SessionsRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_revoked_total",
		Help:      "Total number of refresh sessions revoked by logout.",
	},
)

// LoginDuration measures the end-to-end login flow, dominated by the two
// bcrypt rounds (password compare, refresh hash).
var LoginDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "login_duration_seconds",
		Help:      "Duration of the login flow including credential hashing.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)
