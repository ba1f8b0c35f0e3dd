package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestCounter counts all HTTP requests with labels.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	// RequestDurationHistogram records request duration in seconds.
	RequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	// StatusCategoryCounter tracks responses by status class.
	StatusCategoryCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_status_category_total",
			Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
		},
		[]string{"service", "category", "method", "path"},
	)
)

// HTTPMetrics collects request metrics for one service.
type HTTPMetrics struct {
	ServiceName string
	registered  bool
}

// NewHTTPMetrics creates and registers the HTTP metrics collector.
func NewHTTPMetrics(serviceName string) *HTTPMetrics {
	m := &HTTPMetrics{ServiceName: serviceName}
	m.register()
	return m
}

func (m *HTTPMetrics) register() {
	if !m.registered {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDurationHistogram)
		prometheus.MustRegister(StatusCategoryCounter)
		m.registered = true
	}
}

// Middleware records counter, duration, and status-category metrics for
// every request passing through the Fiber app.
func (m *HTTPMetrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		method := c.Method()
		path := c.Route().Path
		statusStr := strconv.Itoa(status)

		RequestCounter.WithLabelValues(m.ServiceName, method, path, statusStr).Inc()
		RequestDurationHistogram.WithLabelValues(m.ServiceName, method, path, statusStr).
			Observe(time.Since(start).Seconds())

		category := ""
		switch {
		case status >= 200 && status < 300:
			category = "2xx"
		case status >= 400 && status < 500:
			category = "4xx"
		case status >= 500 && status < 600:
			category = "5xx"
		}
		if category != "" {
			StatusCategoryCounter.WithLabelValues(m.ServiceName, category, method, path).Inc()
		}

		return err
	}
}

// Handler returns the HTTP handler exposing the Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
