package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements repository.ForecastMetrics using Prometheus.
type Recorder struct {
	runsTotal   *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastRMSE    *prometheus.GaugeVec
	lastR2      *prometheus.GaugeVec
	published   *prometheus.CounterVec
}

// New creates a Prometheus recorder registered on the default registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder on reg. Tests pass a fresh prometheus.NewRegistry().
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		runsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_forecast_runs_total",
				Help: "Total number of forecast pipeline runs by outcome",
			},
			[]string{"symbol", "trigger", "outcome"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockpulse_forecast_duration_seconds",
				Help:    "Duration of forecast pipeline runs in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"trigger"},
		),
		lastRMSE: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockpulse_forecast_last_rmse",
				Help: "RMSE of the last successful forecast for a symbol",
			},
			[]string{"symbol"},
		),
		lastR2: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockpulse_forecast_last_r2",
				Help: "R squared of the last successful forecast for a symbol",
			},
			[]string{"symbol"},
		),
		published: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_events_published_total",
				Help: "Total number of forecast events published to a backend",
			},
			[]string{"backend", "symbol"},
		),
	}
}

// RecordRun records one pipeline run.
func (r *Recorder) RecordRun(symbol, trigger, outcome string, seconds float64) {
	r.runsTotal.WithLabelValues(symbol, trigger, outcome).Inc()
	r.duration.WithLabelValues(trigger).Observe(seconds)
}

// RecordScores records the evaluation scores of the last successful run.
func (r *Recorder) RecordScores(symbol string, rmse, r2 float64) {
	r.lastRMSE.WithLabelValues(symbol).Set(rmse)
	r.lastR2.WithLabelValues(symbol).Set(r2)
}

// RecordPublished records an event sent to a backend.
func (r *Recorder) RecordPublished(backend, symbol string) {
	r.published.WithLabelValues(backend, symbol).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
