// Package metrics exports aggregation results as Prometheus gauges.
//
// Each run fills a private registry and writes it in the text exposition
// format, ready for the node exporter textfile collector.
package metrics

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/danieljhkim/thirdparty/internal/fsops"
)

// Summary holds the numbers one aggregation pass reports.
type Summary struct {
	Modules      int
	Licenses     map[string]int
	Dependencies int
	Unresolved   int
	Mismatched   int
	Removed      int
	Unsafe       int
	Forbidden    int
}

// Recorder owns the gauges of one run.
type Recorder struct {
	registry *prometheus.Registry

	modules      prometheus.Gauge
	licenses     *prometheus.GaugeVec
	dependencies prometheus.Gauge
	unresolved   prometheus.Gauge
	mismatched   prometheus.Gauge
	removed      prometheus.Gauge
	unsafe       prometheus.Gauge
	forbidden    prometheus.Gauge
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		modules: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "thirdparty_modules_merged",
			Help: "Number of module inventories merged in the last aggregation.",
		}),
		licenses: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "thirdparty_license_dependencies",
			Help: "Number of dependencies recorded under each license after pruning.",
		}, []string{"license"}),
		dependencies: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "thirdparty_dependencies",
			Help: "Number of distinct dependencies in the aggregated inventory.",
		}),
		unresolved: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "thirdparty_unresolved_dependencies",
			Help: "Number of multi-license dependencies without a selection.",
		}),
		mismatched: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "thirdparty_mismatched_selections",
			Help: "Number of selections naming a license the dependency does not carry.",
		}),
		removed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "thirdparty_pruned_associations",
			Help: "Number of license associations removed by pruning.",
		}),
		unsafe: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "thirdparty_unsafe_dependencies",
			Help: "Number of dependencies without a known license.",
		}),
		forbidden: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "thirdparty_forbidden_licenses",
			Help: "Number of forbidden licenses in use.",
		}),
	}

	r.registry.MustRegister(
		r.modules,
		r.licenses,
		r.dependencies,
		r.unresolved,
		r.mismatched,
		r.removed,
		r.unsafe,
		r.forbidden,
	)
	return r
}

// Observe sets every gauge from s.
func (r *Recorder) Observe(s Summary) {
	r.modules.Set(float64(s.Modules))
	r.dependencies.Set(float64(s.Dependencies))
	r.unresolved.Set(float64(s.Unresolved))
	r.mismatched.Set(float64(s.Mismatched))
	r.removed.Set(float64(s.Removed))
	r.unsafe.Set(float64(s.Unsafe))
	r.forbidden.Set(float64(s.Forbidden))

	r.licenses.Reset()
	for license, n := range s.Licenses {
		r.licenses.WithLabelValues(license).Set(float64(n))
	}
}

// Text renders the gauges in the text exposition format.
func (r *Recorder) Text() ([]byte, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}
	var buf bytes.Buffer
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", mf.GetName(), err)
		}
	}
	return buf.Bytes(), nil
}

// WriteTextfile writes the gauges to path atomically through fs.
func (r *Recorder) WriteTextfile(fs fsops.FS, path string) error {
	data, err := r.Text()
	if err != nil {
		return err
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := fs.AtomicWrite(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write metrics %s: %w", path, err)
	}
	return nil
}
