package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusNoop    = "noop"
)

type Metrics struct {
	Operations     *prometheus.CounterVec
	Tasks          prometheus.Gauge
	SaveFailures   prometheus.Counter
	TextLength     prometheus.Histogram
	ImportDuration prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Operations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "todocal_operations_total",
				Help: "Task store operations by kind and outcome",
			},
			[]string{"op", "status"},
		),
		Tasks: f.NewGauge(prometheus.GaugeOpts{
			Name: "todocal_tasks",
			Help: "Number of tasks currently held",
		}),
		SaveFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "todocal_save_failures_total",
			Help: "Failed writes to the local database",
		}),
		TextLength: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "todocal_task_text_length_bytes",
			Help:    "Length distribution of added task texts",
			Buckets: []float64{10, 25, 50, 100, 250},
		}),
		ImportDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "todocal_import_duration_seconds",
			Help:    "Duration of import operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) Observe(op, status string) {
	m.Operations.WithLabelValues(op, status).Inc()
}

// WriteTextfile dumps every metric in g in the text exposition format, for
// the node_exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
