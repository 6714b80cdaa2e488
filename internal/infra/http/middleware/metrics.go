package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	salesClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sales_classified_total",
			Help: "Payment events turned into sale writes, by event and resulting status",
		},
		[]string{"event", "status"},
	)

	salesWebhookRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sales_webhook_rejected_total",
			Help: "Sales webhook calls not classified, by reason",
		},
		[]string{"reason"},
	)

	salesExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sales_expired_total",
			Help: "Pending sales marked lost by the expiration worker",
		},
	)

	webhookDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_deliveries_total",
			Help: "Outbound webhook delivery attempts",
		},
		[]string{"event", "status"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Metrics labels requests by chi route pattern so ids do not explode cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				path = p
			}
		}
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func RecordSaleClassified(event, status string) {
	salesClassified.WithLabelValues(event, status).Inc()
}

// RecordWebhookRejected counts ignored or failed sales webhook calls (unknown_event,
// invalid_payload, parse_error, persistence_error, unauthorized).
func RecordWebhookRejected(reason string) {
	salesWebhookRejected.WithLabelValues(reason).Inc()
}

func RecordSalesExpired(n int) {
	salesExpired.Add(float64(n))
}

func RecordWebhookDelivery(event, status string) {
	webhookDeliveries.WithLabelValues(event, status).Inc()
}
