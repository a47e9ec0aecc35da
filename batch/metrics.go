package batch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultSuccess  = "success"
	resultFailure  = "failure"
	resultCanceled = "canceled"
)

// Metrics records batch fit outcomes. A nil *Metrics records nothing.
type Metrics struct {
	fitTotal        *prometheus.CounterVec
	fitDuration     prometheus.Histogram
	fitObservations prometheus.Histogram
	batchDuration   prometheus.Histogram
}

// NewMetrics registers the batch collectors with reg. Passing prometheus.DefaultRegisterer
// exposes them on the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		// fitTotal counts series fits by result
		fitTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "holtwinters_fit_total",
			Help: "Total series fits by result",
		}, []string{"result"}),

		// fitDuration tracks fit and forecast latency of a single series
		fitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "holtwinters_fit_duration_seconds",
			Help:    "Single series fit and forecast duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
		}),

		// fitObservations tracks the length of fit series
		fitObservations: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "holtwinters_fit_observations",
			Help:    "Number of observations per fit series",
			Buckets: []float64{8, 24, 100, 1000, 10000, 100000},
		}),

		batchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "holtwinters_batch_duration_seconds",
			Help:    "Batch run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
}

func (m *Metrics) observeFit(result string, observations int, d time.Duration) {
	if m == nil {
		return
	}
	m.fitTotal.WithLabelValues(result).Inc()
	if result == resultSuccess {
		m.fitObservations.Observe(float64(observations))
		m.fitDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) observeBatch(d time.Duration) {
	if m == nil {
		return
	}
	m.batchDuration.Observe(d.Seconds())
}
