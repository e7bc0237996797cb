// File: internal/infra/metrics/admin.go
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var adminOnce sync.Once

var adminCommandTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "admin_command_total",
		Help: "Tracks attempts to use admin operations.",
	},
	[]string{"command", "status"}, // status: 'authorized', 'unauthorized'
)

func MustRegisterAdmin() {
	adminOnce.Do(func() {
		prometheus.MustRegister(adminCommandTotal)
	})
}

func IncAdminCommand(command, status string) {
	adminCommandTotal.WithLabelValues(norm(command), norm(status)).Inc()
}
