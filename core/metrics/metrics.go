package metrics

import (
	"fmt"
	"time"

	"feature-merge/core/merge"
	"feature-merge/core/postprocess"
	"feature-merge/core/reconcile"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "feature_merge"

// Metrics holds the counters of one run.
type Metrics struct {
	registry *prometheus.Registry

	ingested    *prometheus.CounterVec // by reconcile action
	read        prometheus.Counter
	passThrough prometheus.Counter
	aggregates  prometheus.Counter
	components  *prometheus.CounterVec // by disposition: bound, excluded
	passes      prometheus.Counter
	duration    prometheus.Gauge
}

// New creates and registers the run metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		ingested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "features_ingested_total",
			Help:      "Input features placed in the store, by id reconciliation action",
		}, []string{"action"}),

		read: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "features_read_total",
			Help:      "Features read by merge passes",
		}),

		passThrough: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pass_through_total",
			Help:      "Features emitted unmerged",
		}),

		aggregates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregates_total",
			Help:      "Aggregate features built",
		}),

		components: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "components_total",
			Help:      "Components of aggregates, by disposition",
		}, []string{"disposition"}),

		passes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "passes_total",
			Help:      "Merge passes run",
		}),

		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run",
		}),
	}

	m.registry.MustRegister(m.ingested, m.read, m.passThrough, m.aggregates, m.components, m.passes, m.duration)
	return m
}

// Registry returns the registry holding the run metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordIngest counts the placements of one input.
func (m *Metrics) RecordIngest(s reconcile.Summary) {
	m.ingested.WithLabelValues(string(reconcile.ActionInsert)).Add(float64(s.Inserted))
	m.ingested.WithLabelValues(string(reconcile.ActionRename)).Add(float64(s.Renamed))
	m.ingested.WithLabelValues(string(reconcile.ActionMerge)).Add(float64(s.Merged))
	m.ingested.WithLabelValues(string(reconcile.ActionSkip)).Add(float64(s.Skipped))
	m.ingested.WithLabelValues(string(reconcile.ActionReplace)).Add(float64(s.Replaced))
}

// RecordPass counts one merge pass and its post-processing.
func (m *Metrics) RecordPass(stats merge.Stats, post postprocess.Summary) {
	m.passes.Inc()
	m.read.Add(float64(stats.Read))
	m.passThrough.Add(float64(stats.PassThrough))
	m.aggregates.Add(float64(stats.Aggregates))
	m.components.WithLabelValues("bound").Add(float64(post.Bound))
	m.components.WithLabelValues("excluded").Add(float64(post.Deleted))
}

// ObserveDuration records the run wall time.
func (m *Metrics) ObserveDuration(d time.Duration) {
	m.duration.Set(d.Seconds())
}

// WriteTextfile writes the metrics to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
