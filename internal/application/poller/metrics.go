package poller

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the poll loop.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	cyclesTotal        *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
	fetchDuration      prometheus.Histogram
	windowTimestamp    prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with registerer.
// A nil registerer falls back to prometheus.DefaultRegisterer.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		cyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "homework_bot",
			Subsystem: "poller",
			Name:      "cycles_total",
			Help:      "Number of completed poll cycles by outcome",
		}, []string{"outcome"}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "homework_bot",
			Subsystem: "poller",
			Name:      "notifications_total",
			Help:      "Notification delivery attempts by kind and result",
		}, []string{"kind", "result"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "homework_bot",
			Subsystem: "poller",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of homework status API requests",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		windowTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "homework_bot",
			Subsystem: "poller",
			Name:      "window_timestamp_seconds",
			Help:      "Unix time the poll window was last advanced to",
		}),
	}

	for _, c := range []prometheus.Collector{m.cyclesTotal, m.notificationsTotal, m.fetchDuration, m.windowTimestamp} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) recordCycle(outcome Outcome) {
	if m == nil {
		return
	}
	m.cyclesTotal.WithLabelValues(string(outcome)).Inc()
}

func (m *Metrics) recordNotification(kind string, delivered bool) {
	if m == nil {
		return
	}
	result := "delivered"
	if !delivered {
		result = "failed"
	}
	m.notificationsTotal.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) observeFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.fetchDuration.Observe(d.Seconds())
}

func (m *Metrics) setWindow(ts int64) {
	if m == nil {
		return
	}
	m.windowTimestamp.Set(float64(ts))
}
