package telemetry

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus observability primitives for the catalog service.
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	ordersPlaced prometheus.Counter
	ordersFailed *prometheus.CounterVec
	lessonsLow   prometheus.Gauge
	orderUnits   prometheus.Histogram
}

// NewMetrics registers and returns Prometheus metrics.
func NewMetrics() *Metrics {
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "learnzone_http_requests_total",
		Help: "Counts HTTP requests by method, route, and status.",
	}, []string{"method", "route", "status"})

	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "learnzone_http_duration_seconds",
		Help:    "HTTP request latency per method/route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "learnzone_orders_placed_total",
		Help: "Counts successfully committed orders.",
	})

	ordersFailed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "learnzone_orders_failed_total",
		Help: "Counts rejected or aborted orders by reason.",
	}, []string{"reason"})

	lessonsLow := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "learnzone_lessons_low_inventory",
		Help: "Number of lessons at or below the low-inventory threshold after the last order.",
	})

	orderUnits := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "learnzone_order_units",
		Help:    "Units per committed order.",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
	})

	prometheus.MustRegister(
		httpRequests,
		httpDuration,
		ordersPlaced,
		ordersFailed,
		lessonsLow,
		orderUnits,
	)

	return &Metrics{
		httpRequests: httpRequests,
		httpDuration: httpDuration,
		ordersPlaced: ordersPlaced,
		ordersFailed: ordersFailed,
		lessonsLow:   lessonsLow,
		orderUnits:   orderUnits,
	}
}

// ObserveRequest records one HTTP request outcome.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveOrderPlaced records one committed order.
func (m *Metrics) ObserveOrderPlaced(units int) {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
	m.orderUnits.Observe(float64(units))
}

// ObserveOrderFailed records one failed order by reason.
func (m *Metrics) ObserveOrderFailed(reason string) {
	if m == nil {
		return
	}
	m.ordersFailed.WithLabelValues(reason).Inc()
}

// SetLowInventoryLessons updates the low-inventory gauge.
func (m *Metrics) SetLowInventoryLessons(n int) {
	if m == nil {
		return
	}
	m.lessonsLow.Set(float64(n))
}

// GinMiddleware records request counts and latency per route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
