package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "formengine"

// Metrics holds the server's collectors.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	SessionsActive      prometheus.Gauge
	SessionsExpired     prometheus.Counter
	Submissions         *prometheus.CounterVec
	FieldEvents         *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors with registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "sessions_active",
				Help:      "Number of live form sessions",
			},
		),
		SessionsExpired: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_expired_total",
				Help:      "Total number of sessions dropped after the idle timeout",
			},
		),
		Submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submissions_total",
				Help:      "Form submissions by outcome",
			},
			[]string{"outcome"},
		),
		FieldEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "field_events_total",
				Help:      "Widget events applied to forms",
			},
			[]string{"event"},
		),
	}
}
