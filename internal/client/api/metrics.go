package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const outcomeOK = "ok"

type Metrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	refreshes *prometheus.CounterVec
}

// NewMetrics builds the pipeline collectors and registers them with reg.
// A nil reg yields working but unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "elite_client_requests_total",
			Help: "Backend calls by HTTP method and outcome (ok or error kind).",
		}, []string{"method", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "elite_client_request_duration_seconds",
			Help:    "Backend call latency including refresh and retry.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		refreshes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "elite_client_token_refreshes_total",
			Help: "Refresh-token exchanges by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) observe(method string, err error, elapsed time.Duration) {
	outcome := outcomeOK
	if err != nil {
		outcome = string(KindOf(err))
	}
	m.requests.WithLabelValues(method, outcome).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) refreshed(err error) {
	result := outcomeOK
	if err != nil {
		result = "failed"
	}
	m.refreshes.WithLabelValues(result).Inc()
}
