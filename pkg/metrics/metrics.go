package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// DartsTotal tracks dart-space size per map instance.
	DartsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "honeycomb_darts_total",
			Help: "Total number of darts by state (used, unused)",
		},
		[]string{"instance", "state"},
	)

	CellsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "honeycomb_cells_total",
			Help: "Total number of i-cells by kind (vertex, edge, face, volume)",
		},
		[]string{"instance", "kind"},
	)

	SewsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeycomb_sews_total",
			Help: "Total number of successful sew operations",
		},
		[]string{"instance", "dimension"},
	)

	UnsewsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeycomb_unsews_total",
			Help: "Total number of successful unsew operations",
		},
		[]string{"instance", "dimension"},
	)

	SewFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeycomb_sew_failures_total",
			Help: "Total number of failed sew/unsew operations by cause",
		},
		[]string{"instance", "dimension", "reason"},
	)

	TransactionRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeycomb_transaction_retries_total",
			Help: "Total number of STM transactions that retried or restarted on conflict",
		},
		[]string{"instance"},
	)

	AttributeOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeycomb_attribute_ops_total",
			Help: "Total number of attribute merge/split operations",
		},
		[]string{"instance", "op"},
	)

	SewDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "honeycomb_sew_duration_seconds",
			Help:    "Duration of sew/unsew operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"instance", "dimension", "op"},
	)

	BuildDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "honeycomb_build_duration_seconds",
			Help:    "Duration of grid builder runs in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"instance", "kind"},
	)
)

func init() {
	prometheus.MustRegister(DartsTotal)
	prometheus.MustRegister(CellsTotal)
	prometheus.MustRegister(SewsTotal)
	prometheus.MustRegister(UnsewsTotal)
	prometheus.MustRegister(SewFailuresTotal)
	prometheus.MustRegister(TransactionRetriesTotal)
	prometheus.MustRegister(AttributeOpsTotal)
	prometheus.MustRegister(SewDuration)
	prometheus.MustRegister(BuildDuration)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
