package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// gridding pipeline.
type Metrics struct {
	SweepsRead       prometheus.Counter
	SweepReadErrors  prometheus.Counter
	VolumesAssembled prometheus.Counter
	VolumeErrors     prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Per-volume gridding metrics.
	VariablesGridded prometheus.Counter
	VariablesSkipped prometheus.Counter
	VolumeSweepCount prometheus.Histogram
	GriddingDuration prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SweepsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "radar_gridder",
			Name:      "sweeps_read_total",
			Help:      "Total sweep files decoded successfully.",
		}),
		SweepReadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "radar_gridder",
			Name:      "sweep_read_errors_total",
			Help:      "Total sweep files that failed to decode.",
		}),
		VolumesAssembled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "radar_gridder",
			Name:      "volumes_assembled_total",
			Help:      "Total sweep groups assembled into volumes.",
		}),
		VolumeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "radar_gridder",
			Name:      "volume_errors_total",
			Help:      "Total sweep groups that failed assembly or gridding.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "radar_gridder",
			Name:      "pipeline_running",
			Help:      "1 while a batch is being processed, 0 otherwise.",
		}),
		VariablesGridded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "radar_gridder",
			Name:      "variables_gridded_total",
			Help:      "Total moment variables interpolated onto the grid.",
		}),
		VariablesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "radar_gridder",
			Name:      "variables_skipped_total",
			Help:      "Total requested variables skipped (absent, empty, or kernel too large).",
		}),
		VolumeSweepCount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "radar_gridder",
			Name:      "volume_sweep_count",
			Help:      "Number of sweeps per assembled volume.",
			Buckets:   []float64{1, 2, 4, 6, 8, 10, 12, 16, 20},
		}),
		GriddingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "radar_gridder",
			Name:      "gridding_duration_seconds",
			Help:      "Duration of interpolating one volume onto the grid.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}

	prometheus.MustRegister(
		m.SweepsRead,
		m.SweepReadErrors,
		m.VolumesAssembled,
		m.VolumeErrors,
		m.PipelineRunning,
		m.VariablesGridded,
		m.VariablesSkipped,
		m.VolumeSweepCount,
		m.GriddingDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SweepsRead:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "radar_gridder", Name: "sweeps_read_total"}),
		SweepReadErrors:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "radar_gridder", Name: "sweep_read_errors_total"}),
		VolumesAssembled: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "radar_gridder", Name: "volumes_assembled_total"}),
		VolumeErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "radar_gridder", Name: "volume_errors_total"}),
		PipelineRunning:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "radar_gridder", Name: "pipeline_running"}),
		VariablesGridded: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "radar_gridder", Name: "variables_gridded_total"}),
		VariablesSkipped: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "radar_gridder", Name: "variables_skipped_total"}),
		VolumeSweepCount: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "radar_gridder", Name: "volume_sweep_count"}),
		GriddingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "radar_gridder", Name: "gridding_duration_seconds"}),
	}
}
