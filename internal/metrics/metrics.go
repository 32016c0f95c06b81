package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all Prometheus metrics for the Clubhouse client
type Registry struct {
	// API gateway metrics
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec

	// Feed synchronizer metrics
	PollTicksTotal    prometheus.Counter
	PollFailuresTotal prometheus.Counter

	// Business metrics
	RSVPAttemptsTotal *prometheus.CounterVec
	MessagesSentTotal prometheus.Counter
	SessionReady      prometheus.Gauge
}

// NewRegistry initializes all metrics against the given registerer. Tests
// pass a private prometheus.NewRegistry to avoid collisions.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		APIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clubhouse_api_requests_total",
				Help: "Total club API requests by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		APIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clubhouse_api_request_duration_seconds",
				Help:    "Club API request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		PollTicksTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "clubhouse_feed_poll_ticks_total",
				Help: "Total chat feed poll ticks executed",
			},
		),
		PollFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "clubhouse_feed_poll_failures_total",
				Help: "Total chat feed poll ticks that failed and were suppressed",
			},
		),
		RSVPAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clubhouse_rsvp_attempts_total",
				Help: "Total RSVP attempts by outcome",
			},
			[]string{"outcome"},
		),
		MessagesSentTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "clubhouse_messages_sent_total",
				Help: "Total chat messages sent successfully",
			},
		),
		SessionReady: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "clubhouse_session_ready",
				Help: "1 while the session gate is in the Ready state",
			},
		),
	}
}

// ObserveAPIRequest records one gateway round trip. Nil-safe so the
// gateway can run without metrics in tests.
func (m *Registry) ObserveAPIRequest(endpoint, method, statusCode string, duration time.Duration) {
	if m == nil {
		return
	}
	m.APIRequestsTotal.WithLabelValues(endpoint, method, statusCode).Inc()
	m.APIRequestDuration.WithLabelValues(endpoint, method).Observe(duration.Seconds())
}

// CountRSVP records an RSVP attempt outcome.
func (m *Registry) CountRSVP(outcome string) {
	if m == nil {
		return
	}
	m.RSVPAttemptsTotal.WithLabelValues(outcome).Inc()
}

// CountMessageSent records a successful chat send.
func (m *Registry) CountMessageSent() {
	if m == nil {
		return
	}
	m.MessagesSentTotal.Inc()
}

// CountPollTick records a poll tick, failed or not.
func (m *Registry) CountPollTick(failed bool) {
	if m == nil {
		return
	}
	m.PollTicksTotal.Inc()
	if failed {
		m.PollFailuresTotal.Inc()
	}
}

// SetSessionReady flips the session gauge.
func (m *Registry) SetSessionReady(ready bool) {
	if m == nil {
		return
	}
	if ready {
		m.SessionReady.Set(1)
	} else {
		m.SessionReady.Set(0)
	}
}
