package observability_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/observability"
)

func value(t *testing.T, c prometheus.Collector) float64 {
	t.Helper()
	ch := make(chan prometheus.Metric, 1)
	c.Collect(ch)
	var m dto.Metric
	require.NoError(t, (<-ch).Write(&m))
	if m.Counter != nil {
		return m.Counter.GetValue()
	}
	return m.Gauge.GetValue()
}

func TestMetrics(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	hooks := m.Hooks()

	seq := []string{"sequence"}
	leaf := []string{"end_with"}
	hooks.Fire(ctx, &domain.TraceEvent{Type: domain.TraceRun, Action: 1, Kinds: seq})
	hooks.Fire(ctx, &domain.TraceEvent{Type: domain.TraceRun, Action: 2, Kinds: leaf})
	hooks.Fire(ctx, &domain.TraceEvent{Type: domain.TraceRun, Action: 2, Kinds: leaf})
	assert.Equal(t, 2.0, value(t, m.Running))

	hooks.Fire(ctx, &domain.TraceEvent{Type: domain.TraceEnd, Action: 2, Kinds: leaf, Outcome: domain.Pass})
	hooks.Fire(ctx, &domain.TraceEvent{Type: domain.TraceInterrupt, Action: 1, Kinds: seq})

	assert.Equal(t, 2.0, value(t, m.Runs.WithLabelValues("end_with")))
	assert.Equal(t, 1.0, value(t, m.Runs.WithLabelValues("sequence")))
	assert.Equal(t, 1.0, value(t, m.Ends.WithLabelValues("end_with", "pass")))
	assert.Equal(t, 1.0, value(t, m.Interrupts.WithLabelValues("sequence")))
	assert.Equal(t, 0.0, value(t, m.Running))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 4)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err, "registering twice fails")
}
