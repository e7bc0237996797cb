// File: internal/infra/metrics/metrics.go
package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	codesGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activation_codes_generated_total",
			Help: "Activation codes generated, by granted kind.",
		},
		[]string{"kind"},
	)

	codeRedemptions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activation_code_redemptions_total",
			Help: "Redemption attempts by result (granted/not_found/inactive/expired/exhausted/error).",
		},
		[]string{"result"},
	)

	codeRevocations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "activation_code_revocations_total",
			Help: "Successful revocation calls, repeats included.",
		},
	)

	capacityChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "org_capacity_checks_total",
			Help: "Capacity policy answers by action (create/join) and outcome.",
		},
		[]string{"action", "allowed"},
	)

	cacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Cache lookups by entity and outcome (hit/miss).",
		},
		[]string{"entity", "outcome"},
	)

	dbErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_errors_total",
			Help: "Database errors by repository method.",
		},
		[]string{"op"},
	)
)

// MustRegister registers collectors with the default registry (idempotent).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(
			codesGenerated, codeRedemptions, codeRevocations,
			capacityChecks, cacheRequests, dbErrors,
		)
	})
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncCodeGenerated(kind string) { codesGenerated.WithLabelValues(norm(kind)).Inc() }

func IncRedemption(result string) { codeRedemptions.WithLabelValues(norm(result)).Inc() }

func IncRevocation() { codeRevocations.Inc() }

func IncCapacityCheck(action string, allowed bool) {
	v := "false"
	if allowed {
		v = "true"
	}
	capacityChecks.WithLabelValues(norm(action), v).Inc()
}

func IncCacheRequest(entity, outcome string) {
	cacheRequests.WithLabelValues(norm(entity), norm(outcome)).Inc()
}

func IncDBError(op string) { dbErrors.WithLabelValues(norm(op)).Inc() }
