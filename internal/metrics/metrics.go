package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gostay_http_requests_total",
		Help: "Number of processed HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gostay_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// BookingsCreated counts successfully persisted bookings
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gostay_bookings_created_total",
		Help: "Number of bookings created",
	})

	// BonusAccrued counts cashback credits applied by the accrual pass
	BonusAccrued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gostay_bonus_accrued_total",
		Help: "Number of cashback credits applied",
	})

	// WebhooksProcessed counts gateway notifications by event type
	WebhooksProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gostay_payment_webhooks_total",
		Help: "Number of payment gateway webhooks received",
	}, []string{"event"})
)

// Middleware records request count and latency per route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the Prometheus scrape endpoint
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
