package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"jsonbench/internal/benchmark"
)

var caseLabels = []string{"adapter", "fixture", "mode", "target", "setup"}

// Metrics collects benchmark results as Prometheus metrics. It implements
// benchmark.Observer and owns a private registry so several runs in one
// process do not collide.
type Metrics struct {
	Registry *prometheus.Registry

	CasesTotal      *prometheus.CounterVec
	CasesInProgress prometheus.Gauge
	NsPerOp         *prometheus.GaugeVec
	NsPerOpP99      *prometheus.GaugeVec
	BytesPerOp      *prometheus.GaugeVec
	AllocsPerOp     *prometheus.GaugeVec
	Throughput      *prometheus.GaugeVec
}

// NewMetrics creates and registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{Registry: prometheus.NewRegistry()}

	m.CasesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jsonbench_cases_total",
			Help: "Total number of finished cases by outcome",
		},
		[]string{"adapter", "mode", "status"},
	)

	m.CasesInProgress = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "jsonbench_cases_in_progress",
			Help: "Number of cases currently running",
		},
	)

	m.NsPerOp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "jsonbench_ns_per_op",
			Help: "Mean nanoseconds per operation of passed cases",
		},
		caseLabels,
	)

	m.NsPerOpP99 = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "jsonbench_ns_per_op_p99",
			Help: "99th percentile of per-sample nanoseconds per operation",
		},
		caseLabels,
	)

	m.BytesPerOp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "jsonbench_bytes_per_op",
			Help: "Heap bytes allocated per operation",
		},
		caseLabels,
	)

	m.AllocsPerOp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "jsonbench_allocs_per_op",
			Help: "Heap allocations per operation",
		},
		caseLabels,
	)

	m.Throughput = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "jsonbench_throughput_mb_per_second",
			Help: "Fixture megabytes processed per second",
		},
		caseLabels,
	)

	m.Registry.MustRegister(
		m.CasesTotal,
		m.CasesInProgress,
		m.NsPerOp,
		m.NsPerOpP99,
		m.BytesPerOp,
		m.AllocsPerOp,
		m.Throughput,
	)

	return m
}

// CaseStarted implements benchmark.Observer.
func (m *Metrics) CaseStarted(*benchmark.Case) {
	m.CasesInProgress.Inc()
}

// CaseFinished implements benchmark.Observer. Timing gauges are only set
// for passed cases.
func (m *Metrics) CaseFinished(_ *benchmark.Case, r benchmark.Result) {
	m.CasesInProgress.Dec()
	m.Record(r)
}

// CaseAborted implements benchmark.Observer. Aborted cases have no outcome
// and are not counted.
func (m *Metrics) CaseAborted(*benchmark.Case, error) {
	m.CasesInProgress.Dec()
}

// Record adds one result, e.g. from an imported run.
func (m *Metrics) Record(r benchmark.Result) {
	m.CasesTotal.WithLabelValues(r.Adapter, r.Mode, string(r.Status)).Inc()
	if !r.Trusted() {
		return
	}

	labels := prometheus.Labels{
		"adapter": r.Adapter,
		"fixture": r.Fixture,
		"mode":    r.Mode,
		"target":  r.Target,
		"setup":   r.Setup,
	}
	m.NsPerOp.With(labels).Set(r.NsPerOp)
	m.NsPerOpP99.With(labels).Set(r.Stats.P99)
	m.BytesPerOp.With(labels).Set(float64(r.BytesPerOp))
	m.AllocsPerOp.With(labels).Set(float64(r.AllocsPerOp))
	m.Throughput.With(labels).Set(r.MBPerSec)
}

// WriteToTextfile writes the metrics in the node exporter textfile format.
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
