package analysis

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records pipeline outcomes. A nil *Metrics is valid and records nothing.
type Metrics struct {
	runsTotal      *prometheus.CounterVec
	runDuration    *prometheus.HistogramVec
	inFlight       prometheus.Gauge
	chunksTotal    *prometheus.CounterVec
	malformedTotal prometheus.Counter
}

// NewMetrics creates the pipeline collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coteacher",
			Subsystem: "analysis",
			Name:      "runs_total",
			Help:      "PDF analysis runs by outcome kind.",
		}, []string{"outcome"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "coteacher",
			Subsystem: "analysis",
			Name:      "run_duration_seconds",
			Help:      "PDF analysis duration in seconds by outcome kind.",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120, 300},
		}, []string{"outcome"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "coteacher",
			Subsystem: "analysis",
			Name:      "runs_in_flight",
			Help:      "Number of PDF analyses currently running.",
		}),
		chunksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coteacher",
			Subsystem: "analysis",
			Name:      "chunks_total",
			Help:      "Chunks processed by status.",
		}, []string{"status"}),
		malformedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coteacher",
			Subsystem: "analysis",
			Name:      "malformed_responses_total",
			Help:      "Model responses with no recoverable JSON object.",
		}),
	}

	for _, c := range []prometheus.Collector{m.runsTotal, m.runDuration, m.inFlight, m.chunksTotal, m.malformedTotal} {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) start() {
	if m == nil {
		return
	}
	m.inFlight.Inc()
}

func (m *Metrics) finish(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.inFlight.Dec()
	outcome := "success"
	if err != nil {
		outcome = string(KindOf(err))
		if outcome == "" {
			outcome = "error"
		}
	}
	m.runsTotal.WithLabelValues(outcome).Inc()
	m.runDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

func (m *Metrics) chunk(status string) {
	if m == nil {
		return
	}
	m.chunksTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) malformed() {
	if m == nil {
		return
	}
	m.malformedTotal.Inc()
}
