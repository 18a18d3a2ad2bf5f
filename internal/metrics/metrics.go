package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/felixgeelhaar/shopfront/internal/api"
	"github.com/felixgeelhaar/shopfront/internal/errors"
)

// Metrics holds all Prometheus metrics for shopfront
type Metrics struct {
	// Backend API call metrics
	APICalls   *prometheus.CounterVec
	APILatency *prometheus.HistogramVec
	APIErrors  *prometheus.CounterVec

	// State store metrics
	Actions        *prometheus.CounterVec
	ActionDuration *prometheus.HistogramVec
	Superseded     *prometheus.CounterVec
	CartItems      prometheus.Gauge

	// Local storage metrics
	StorageOps *prometheus.CounterVec

	// Error metrics (by error code from structured errors)
	Errors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		// API metrics
		APICalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopfront_api_calls_total",
				Help: "Total number of backend API calls",
			},
			[]string{"endpoint", "method", "status"},
		),
		APILatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shopfront_api_latency_seconds",
				Help:    "Backend API call latency in seconds, retries included",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"endpoint"},
		),
		APIErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopfront_api_errors_total",
				Help: "Total number of failed backend API calls by error kind",
			},
			[]string{"endpoint", "kind"},
		),

		// Store metrics
		Actions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopfront_actions_total",
				Help: "Total number of dispatched store actions by type",
			},
			[]string{"action"},
		),
		ActionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shopfront_action_duration_seconds",
				Help:    "Duration of asynchronous store operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "outcome"},
		),
		Superseded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopfront_superseded_responses_total",
				Help: "Total number of responses discarded because a newer request was dispatched",
			},
			[]string{"request"},
		),
		CartItems: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "shopfront_cart_items",
				Help: "Number of units currently in the cart",
			},
		),

		// Storage metrics
		StorageOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopfront_storage_operations_total",
				Help: "Total number of local storage operations",
			},
			[]string{"op", "success"},
		),

		// Error metrics (by structured error code)
		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopfront_errors_total",
				Help: "Total number of errors by error code",
			},
			[]string{"error_code", "component"},
		),
	}
}

// ObserveAPICall implements api.Observer.
func (m *Metrics) ObserveAPICall(endpoint api.Endpoint, method string, status int, errKind string, duration time.Duration) {
	m.APICalls.WithLabelValues(string(endpoint), method, statusLabel(status)).Inc()
	m.APILatency.WithLabelValues(string(endpoint)).Observe(duration.Seconds())
	if errKind != "" {
		m.APIErrors.WithLabelValues(string(endpoint), errKind).Inc()
	}
}

// ObserveAction counts one dispatched store action.
func (m *Metrics) ObserveAction(action string) {
	m.Actions.WithLabelValues(action).Inc()
}

// ObserveOperation records how long an asynchronous store operation took.
// outcome is "fulfilled", "rejected" or "superseded".
func (m *Metrics) ObserveOperation(operation, outcome string, duration time.Duration) {
	m.ActionDuration.WithLabelValues(operation, outcome).Observe(duration.Seconds())
	if outcome == "superseded" {
		m.Superseded.WithLabelValues(operation).Inc()
	}
}

// ObserveStorage counts a local storage operation.
func (m *Metrics) ObserveStorage(op string, err error) {
	m.StorageOps.WithLabelValues(op, strconv.FormatBool(err == nil)).Inc()
}

// SetCartItems records the cart's total quantity.
func (m *Metrics) SetCartItems(n int) {
	m.CartItems.Set(float64(n))
}

// RecordError counts err by its error code. Plain errors count as "unknown".
func (m *Metrics) RecordError(component string, err error) {
	if err == nil {
		return
	}
	code := "unknown"
	if shopErr, ok := errors.As(err); ok {
		code = string(shopErr.Code)
	}
	m.Errors.WithLabelValues(code, component).Inc()
}

func statusLabel(status int) string {
	if status == 0 {
		return "none"
	}
	return strconv.Itoa(status)
}
