package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests The total number of sandbox API requests (counter)
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sandbox",
			Name:      "http_requests_total",
			Help:      "The total number of sandbox API requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration The time spent serving sandbox API requests (summary with quantiles 0.5, 0.9, and 0.99)
	HTTPRequestDuration = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace:  "sandbox",
			Name:       "http_request_duration_seconds",
			Help:       "The time spent serving sandbox API requests",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"method", "route"},
	)

	// OrdersCreated The total number of orders created (counter)
	OrdersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sandbox",
			Name:      "orders_created_total",
			Help:      "The total number of orders created",
		},
	)

	// PaymentsInitiated The total number of payments started per method and provider (counter)
	PaymentsInitiated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sandbox",
			Name:      "payments_initiated_total",
			Help:      "The total number of payments started",
		},
		[]string{"method", "provider"},
	)

	// PaymentsSettled The total number of payments that reached a final status (counter)
	PaymentsSettled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sandbox",
			Name:      "payments_settled_total",
			Help:      "The total number of payments that reached a final status",
		},
		[]string{"status"},
	)

	// DonationsRecorded The total donated amount in XOF (counter)
	DonationsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sandbox",
			Name:      "donations_amount_xof_total",
			Help:      "The total donated amount in XOF",
		},
	)
)
