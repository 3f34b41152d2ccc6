// Package metrics exposes Prometheus instrumentation for the admin
// dashboard service.
package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// DashboardBuildDuration observes how long one view-model build takes.
var DashboardBuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
	Name:    "gitarena_dashboard_build_duration_seconds",
	Help:    "Time spent assembling the admin dashboard view-model",
	Buckets: prometheus.DefBuckets,
})

// DashboardSourceFailures counts degraded dashboard sections per entity kind.
var DashboardSourceFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "gitarena_dashboard_source_failures_total",
	Help: "Dashboard data source failures that degraded a section",
}, []string{"source"})

// Register installs the dashboard collectors into the default registry.
// Call once at startup.
func Register() {
	prometheus.MustRegister(DashboardBuildDuration, DashboardSourceFailures)
}

// RegisterPoolMetrics exposes pgx connection pool statistics as gauges.
func RegisterPoolMetrics(pool *pgxpool.Pool) {
	prometheus.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "gitarena_pgxpool_acquired_conns",
			Help: "Number of currently acquired connections in the pool",
		}, func() float64 {
			return float64(pool.Stat().AcquiredConns())
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "gitarena_pgxpool_max_conns",
			Help: "Maximum number of connections in the pool",
		}, func() float64 {
			return float64(pool.Stat().MaxConns())
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "gitarena_pgxpool_total_conns",
			Help: "Total number of connections in the pool",
		}, func() float64 {
			return float64(pool.Stat().TotalConns())
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "gitarena_pgxpool_idle_conns",
			Help: "Number of idle connections in the pool",
		}, func() float64 {
			return float64(pool.Stat().IdleConns())
		}),
	)
}
