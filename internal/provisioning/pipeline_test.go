package provisioning

import (
	"context"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// phaseFunc adapts a function to the Phase interface.
type phaseFunc struct {
	name string
	fn   func(*Context) error
}

func (p phaseFunc) Name() string                 { return p.name }
func (p phaseFunc) Provision(ctx *Context) error { return p.fn(ctx) }

func newTestContext() (*Context, *MockObserver) {
	observer := NewMockObserver()
	return &Context{
		Context:  context.Background(),
		State:    NewState(),
		Observer: observer,
	}, observer
}

func TestNewPipeline(t *testing.T) {
	t.Parallel()
	p1 := phaseFunc{name: "phase-1"}
	p2 := phaseFunc{name: "phase-2"}

	pipeline := NewPipeline(p1, p2)

	require.NotNil(t, pipeline)
	assert.Len(t, pipeline.Phases, 2)
	assert.Equal(t, "phase-1", pipeline.Phases[0].Name())
	assert.Equal(t, "phase-2", pipeline.Phases[1].Name())
}

func TestPipeline_Run_Success(t *testing.T) {
	t.Parallel()
	var executed []string
	record := func(name string) Phase {
		return phaseFunc{name: name, fn: func(_ *Context) error {
			executed = append(executed, name)
			return nil
		}}
	}

	ctx, observer := newTestContext()
	err := NewPipeline(record("validation"), record("assets"), record("infrastructure"), record("compute")).Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"validation", "assets", "infrastructure", "compute"}, executed)
	assert.Equal(t, []EventType{
		EventPhaseStarted, EventPhaseCompleted,
		EventPhaseStarted, EventPhaseCompleted,
		EventPhaseStarted, EventPhaseCompleted,
		EventPhaseStarted, EventPhaseCompleted,
	}, observer.eventTypes())
}

func TestPipeline_Run_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()
	var executed []string

	ctx, observer := newTestContext()
	err := RunPhases(ctx, []Phase{
		phaseFunc{name: "infrastructure", fn: func(_ *Context) error {
			executed = append(executed, "infrastructure")
			return fmt.Errorf("network quota exceeded")
		}},
		phaseFunc{name: "compute", fn: func(_ *Context) error {
			executed = append(executed, "compute")
			return nil
		}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "infrastructure phase failed")
	assert.Contains(t, err.Error(), "network quota exceeded")
	assert.Equal(t, []string{"infrastructure"}, executed)
	assert.Equal(t, []EventType{EventPhaseStarted, EventPhaseFailed}, observer.eventTypes())
}

func TestPipeline_Run_CancelledContext(t *testing.T) {
	t.Parallel()
	cctx, cancel := context.WithCancel(context.Background())
	cancel()

	ctx, _ := newTestContext()
	ctx.Context = cctx

	called := false
	err := RunPhases(ctx, []Phase{phaseFunc{name: "compute", fn: func(_ *Context) error {
		called = true
		return nil
	}}})

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestPipeline_Run_RecordsMetrics(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()

	ctx, _ := newTestContext()
	ctx.Metrics = NewMetrics(reg)

	_ = RunPhases(ctx, []Phase{
		phaseFunc{name: "infrastructure", fn: func(_ *Context) error { return nil }},
		phaseFunc{name: "compute", fn: func(_ *Context) error { return assert.AnError }},
	})

	assert.Equal(t, 2, testutil.CollectAndCount(ctx.Metrics.phaseDuration))
	assert.Equal(t, float64(1), testutil.ToFloat64(ctx.Metrics.phaseFailures.WithLabelValues("compute")))
}
