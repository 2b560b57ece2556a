package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors.
	Registry = prometheus.NewRegistry()

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "comandas",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "comandas",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path"},
	)

	OrdersConfirmed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "comandas",
			Subsystem: "orders",
			Name:      "confirmed_total",
			Help:      "Orders confirmed from a session cart.",
		},
	)

	OfflineOrders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "comandas",
			Subsystem: "orders",
			Name:      "offline_total",
			Help:      "Offline orders received, by outcome.",
		},
		[]string{"result"},
	)

	HistoryClears = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "comandas",
			Subsystem: "history",
			Name:      "clears_total",
			Help:      "Times the history view was cleared.",
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HTTPRequests,
		HTTPDuration,
		OrdersConfirmed,
		OfflineOrders,
		HistoryClears,
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
