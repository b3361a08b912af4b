package adapters

import (
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/prometheus/client_golang/prometheus"

	"apibaseline/internal/ports"
	"apibaseline/internal/types"
)

const metricsNamespace = "apibaseline"

// MetricsTextfileAdapter collects run metrics in a private registry and
// writes them in the node exporter textfile format on Flush. An empty Path
// makes Flush a no-op.
type MetricsTextfileAdapter struct {
	Path string

	registry    *prometheus.Registry
	diffNodes   *prometheus.CounterVec
	mismatches  prometheus.Counter
	warnings    prometheus.Counter
	wires       prometheus.Counter
	unsatisfied *prometheus.CounterVec
	vetoes      *prometheus.CounterVec
}

func NewMetricsTextfileAdapter(path string) *MetricsTextfileAdapter {
	a := &MetricsTextfileAdapter{
		Path:     path,
		registry: prometheus.NewRegistry(),
		diffNodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "diff_nodes_total",
			Help:      "Diff tree nodes by delta.",
		}, []string{"delta"}),
		mismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "baseline_mismatches_total",
			Help:      "Baseline rows whose version bump is insufficient.",
		}),
		warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "baseline_warnings_total",
			Help:      "Baseline rows carrying a warning.",
		}),
		wires: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "resolve_wires_total",
			Help:      "Requirements wired to a capability.",
		}),
		unsatisfied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "resolve_unsatisfied_total",
			Help:      "Requirements left without a candidate.",
		}, []string{"optional"}),
		vetoes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "resolve_filter_vetoes_total",
			Help:      "Candidates removed by each filter.",
		}, []string{"filter"}),
	}
	a.registry.MustRegister(a.diffNodes, a.mismatches, a.warnings, a.wires, a.unsatisfied, a.vetoes)
	return a
}

func (a *MetricsTextfileAdapter) ObserveDiff(diff types.Diff) {
	diff.Walk(func(node *types.Diff, _ int) bool {
		a.diffNodes.WithLabelValues(string(node.Delta)).Inc()
		return true
	})
}

func (a *MetricsTextfileAdapter) ObserveBaseline(report types.BaselineReport) {
	for _, row := range append([]types.BaselineInfo{report.Bundle}, report.Packages...) {
		if row.Mismatch {
			a.mismatches.Inc()
		}
		if row.Warning != "" {
			a.warnings.Inc()
		}
	}
}

func (a *MetricsTextfileAdapter) ObserveResolution(report types.ResolutionReport) {
	a.wires.Add(float64(len(report.Wires)))
	for _, record := range report.Unsatisfied {
		label := "false"
		if record.Optional {
			label = "true"
		}
		a.unsatisfied.WithLabelValues(label).Inc()
	}
	for _, veto := range report.Vetoes {
		a.vetoes.WithLabelValues(veto.Filter).Add(float64(veto.Removed))
	}
}

func (a *MetricsTextfileAdapter) Flush() error {
	if a.Path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(a.Path), 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create metrics directory").
			WithCause(err)
	}
	if err := prometheus.WriteToTextfile(a.Path, a.registry); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write metrics file").
			WithCause(err)
	}
	return nil
}

var _ ports.MetricsPort = (*MetricsTextfileAdapter)(nil)
