package observability

import (
	"errors"
	"net/http"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the editor counters on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	structureChanges *prometheus.CounterVec
	events           *prometheus.CounterVec
	eventErrors      *prometheus.CounterVec
	removedNodes     prometheus.Counter
	selectedNodes    prometheus.Gauge
}

// NewMetrics creates and registers the editor metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		structureChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_structure_changes_total",
				Help: "Total number of completed structural edits",
			},
			[]string{"kind"},
		),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_events_total",
				Help: "Total number of dispatched Renderer events",
			},
			[]string{"type"},
		),
		eventErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_event_errors_total",
				Help: "Total number of rejected Renderer events",
			},
			[]string{"type", "kind"},
		),
		removedNodes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arbor_removed_nodes_total",
			Help: "Total number of nodes detached by subtree removals",
		}),
		selectedNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arbor_selected_nodes",
			Help: "Number of currently selected nodes",
		}),
	}
	m.registry.MustRegister(m.structureChanges, m.events, m.eventErrors, m.removedNodes, m.selectedNodes)
	return m
}

// Registry exposes the underlying registry (e.g. for tests or extra collectors).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that feed the counters.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStructureChange: func(e *domain.StructureEvent) {
			m.structureChanges.WithLabelValues(string(e.Kind)).Inc()
			if e.Kind == domain.ChangeRemove {
				m.removedNodes.Add(float64(len(e.Removed)))
			}
		},
		OnInteractionChange: func(e *domain.InteractionEvent) {
			m.selectedNodes.Set(float64(len(e.Selected)))
		},
		OnEventDispatched: func(ev domain.Event, err error) {
			m.events.WithLabelValues(string(ev.Type)).Inc()
			if err != nil {
				m.eventErrors.WithLabelValues(string(ev.Type), ErrorKind(err)).Inc()
			}
		},
	}
}

// ErrorKind maps an editor error to a stable label value.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrNoSelection):
		return "no_selection"
	case errors.Is(err, domain.ErrInvalidOperation):
		return "invalid_operation"
	case errors.Is(err, domain.ErrInvariantViolation):
		return "invariant_violation"
	}
	return "other"
}
