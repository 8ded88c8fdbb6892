package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	CustomersRegisteredTotal prometheus.Counter
	CreditsRequestedTotal    *prometheus.CounterVec
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credit_system_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		CustomersRegisteredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "credit_system_customers_registered_total",
				Help: "Total number of customers successfully registered.",
			},
		),
		CreditsRequestedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_system_credit_requests_total",
				Help: "Total number of credit requests by outcome.",
			},
			[]string{"outcome"},
		),
	}
)

func RecordDBQuery(queryName string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordCustomerRegistered() {
	Business.CustomersRegisteredTotal.Inc()
}

// RecordCreditRequest counts a create-credit attempt; outcome is one of
// "created", "rejected_validation", "rejected_business", "customer_not_found" or "error".
func RecordCreditRequest(outcome string) {
	Business.CreditsRequestedTotal.WithLabelValues(outcome).Inc()
}
