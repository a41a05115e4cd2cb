package analytics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts and times upstream analytics calls.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg when it
// is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ezdash",
			Name:      "upstream_requests_total",
			Help:      "Analytics backend requests by endpoint path and status code.",
		}, []string{"path", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ezdash",
			Name:      "upstream_request_duration_seconds",
			Help:      "Analytics backend request latency by endpoint path.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.duration)
	}
	return m
}

func (m *Metrics) observe(path string, code int, started time.Time) {
	if m == nil {
		return
	}
	label := "error"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	m.requests.WithLabelValues(path, label).Inc()
	m.duration.WithLabelValues(path).Observe(time.Since(started).Seconds())
}
