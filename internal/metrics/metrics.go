package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type OrderMetrics struct {
	Created              prometheus.Counter
	DuplicateRejected    prometheus.Counter
	NotificationFailures prometheus.Counter
}

func NewOrderMetrics() *OrderMetrics {
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "orders",
		Name:      "created_total",
		Help:      "Total number of orders persisted.",
	})
	duplicate := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "orders",
		Name:      "duplicate_rejected_total",
		Help:      "Cash-on-delivery submissions rejected by the duplicate guard.",
	})
	notifyFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "orders",
		Name:      "notification_failures_total",
		Help:      "Order confirmations that no channel could deliver.",
	})

	prometheus.MustRegister(created, duplicate, notifyFailures)
	return &OrderMetrics{
		Created:              created,
		DuplicateRejected:    duplicate,
		NotificationFailures: notifyFailures,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
