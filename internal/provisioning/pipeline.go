package provisioning

import (
	"fmt"
	"time"
)

// Pipeline is an ordered list of phases.
type Pipeline struct {
	Phases []Phase
}

// NewPipeline creates a pipeline running phases in the given order.
func NewPipeline(phases ...Phase) *Pipeline {
	return &Pipeline{Phases: phases}
}

// Run executes the pipeline's phases.
func (p *Pipeline) Run(ctx *Context) error {
	return RunPhases(ctx, p.Phases)
}

// RunPhases executes all provisioning phases sequentially and stops at the
// first failure.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Observer.Printf("Starting provisioning with %d phases...", len(phases))

	for i, phase := range phases {
		if ctx.Context != nil && ctx.Err() != nil {
			return fmt.Errorf("%s phase not started: %w", phase.Name(), ctx.Err())
		}

		phaseStart := time.Now()
		name := fmt.Sprintf("%s (%d/%d)", phase.Name(), i+1, len(phases))

		LogPhaseStart(ctx.Observer, name)

		err := phase.Provision(ctx)
		ctx.Metrics.ObservePhase(phase.Name(), time.Since(phaseStart), err)
		if err != nil {
			LogPhaseFailed(ctx.Observer, name, err)
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		LogPhaseComplete(ctx.Observer, name, time.Since(phaseStart))
	}

	ctx.Observer.Printf("Provisioning completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}
