package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service's Prometheus collectors
type Metrics struct {
	// HTTPRequestsTotal counts requests by route, method and status
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTPRequestDuration records handler latency by route and method
	HTTPRequestDuration *prometheus.HistogramVec
	// ItemsCreated counts successful creates
	ItemsCreated prometheus.Counter
	// ItemsDeleted counts successful deletes
	ItemsDeleted prometheus.Counter
	// ValidationFailures counts rejected payloads by field
	ValidationFailures *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. stored reports the
// current item count and backs the itemsvc_items_stored gauge.
func New(reg prometheus.Registerer, stored func() float64) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "itemsvc_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "itemsvc_http_request_duration_seconds",
				Help:    "Histogram of response latency (seconds) for HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
		ItemsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "itemsvc_items_created_total",
			Help: "Total number of items created",
		}),
		ItemsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "itemsvc_items_deleted_total",
			Help: "Total number of items deleted",
		}),
		ValidationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "itemsvc_validation_failures_total",
				Help: "Total number of rejected payload fields",
			},
			[]string{"field"},
		),
	}

	reg.MustRegister(m.HTTPRequestsTotal, m.HTTPRequestDuration)
	reg.MustRegister(m.ItemsCreated, m.ItemsDeleted, m.ValidationFailures)
	if stored != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "itemsvc_items_stored",
				Help: "Number of items currently held in memory",
			},
			stored,
		))
	}

	return m
}
