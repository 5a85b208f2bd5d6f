package observability

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/beetflow/pkg/domain"
)

// Metrics counts runs, ends and interrupts per action kind and tracks how
// many actions are running.
type Metrics struct {
	Runs       *prometheus.CounterVec
	Ends       *prometheus.CounterVec
	Interrupts *prometheus.CounterVec
	Running    prometheus.Gauge

	mu      sync.Mutex
	running map[domain.Entity]struct{}
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beetflow_runs_total",
			Help: "Total number of actions run",
		}, []string{"action"}),
		Ends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beetflow_ends_total",
			Help: "Total number of actions ended, by outcome",
		}, []string{"action", "outcome"}),
		Interrupts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beetflow_interrupts_total",
			Help: "Total number of running actions interrupted",
		}, []string{"action"}),
		Running: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "beetflow_running_actions",
			Help: "Number of actions currently running",
		}),
		running: make(map[domain.Entity]struct{}),
	}
	for _, c := range []prometheus.Collector{m.Runs, m.Ends, m.Interrupts, m.Running} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns the lifecycle hooks updating the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRun: func(_ context.Context, ev *domain.TraceEvent) {
			m.Runs.WithLabelValues(actionLabel(ev)).Inc()
			m.track(ev.Action, true)
		},
		OnEnd: func(_ context.Context, ev *domain.TraceEvent) {
			m.Ends.WithLabelValues(actionLabel(ev), string(ev.Outcome)).Inc()
			m.track(ev.Action, false)
		},
		OnInterrupt: func(_ context.Context, ev *domain.TraceEvent) {
			m.Interrupts.WithLabelValues(actionLabel(ev)).Inc()
			m.track(ev.Action, false)
		},
	}
}

// track keeps the gauge right when a running action is restarted.
func (m *Metrics) track(e domain.Entity, running bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if running {
		m.running[e] = struct{}{}
	} else {
		delete(m.running, e)
	}
	m.Running.Set(float64(len(m.running)))
}

func actionLabel(ev *domain.TraceEvent) string {
	if len(ev.Kinds) == 0 {
		return "none"
	}
	return ev.Kinds[0]
}
