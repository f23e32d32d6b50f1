package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewOrdersNotifiedTotal returns a Prometheus counter for new-order notifications raised by the intake monitor
func NewOrdersNotifiedTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_notified_total",
		Help: "Total number of new-order notifications raised by the intake monitor",
	})
}

// NewNotificationFailuresTotal returns a Prometheus counter for notification channel delivery failures
func NewNotificationFailuresTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notification_failures_total",
		Help: "Total number of notification channel delivery failures",
	})
}

// NewStoreConflictsTotal returns a Prometheus counter for order updates rejected on a stale version token
func NewStoreConflictsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "store_conflicts_total",
		Help: "Total number of order updates rejected on a stale version token",
	})
}

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}
