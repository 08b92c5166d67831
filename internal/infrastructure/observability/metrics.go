package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Счётчик обращений к таблице
	StoreCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_calls_total",
			Help: "Total number of record store calls",
		},
		[]string{"method", "status"},
	)

	// Гистограмма времени обращений к таблице
	StoreDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_call_duration_seconds",
			Help:    "Duration of record store calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	CacheRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_refreshes_total",
			Help: "Total number of catalog cache refresh attempts",
		},
		[]string{"status"},
	)

	Purchases = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchases_total",
			Help: "Total number of purchase attempts by outcome",
		},
		[]string{"outcome"},
	)

	// Различает "списали, но не записали" и полный отказ
	AuditFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "purchase_audit_failures_total",
			Help: "Purchases debited but not recorded in the history sheet",
		},
	)

	NotifyFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_notify_failures_total",
			Help: "Order notification delivery failures by stage",
		},
		[]string{"stage"},
	)
)

func InitMetrics() {
	prometheus.MustRegister(StoreCalls, StoreDuration, CacheRefreshes, Purchases, AuditFailures, NotifyFailures)
}
