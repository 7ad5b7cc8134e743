package provision

import (
	"fmt"
	"time"
)

// Phase is one step of the provisioning run.
type Phase interface {
	Name() string
	Provision(ctx *Context) error
}

// RunPhases executes all provisioning phases sequentially.
// Each phase completes before the next begins; the first failure aborts
// the run and is returned wrapped with the phase name.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Observer.Printf("Starting provisioning with %d phases...", len(phases))

	for i, phase := range phases {
		phaseStart := time.Now()
		name := fmt.Sprintf("%s (%d/%d)", phase.Name(), i+1, len(phases))

		ctx.Observer.Event(Event{Type: EventPhaseStarted, Phase: name, Message: "starting"})

		if err := phase.Provision(ctx); err != nil {
			ctx.Observer.Event(Event{Type: EventPhaseFailed, Phase: name, Message: err.Error()})
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		ctx.Observer.Event(Event{
			Type:    EventPhaseCompleted,
			Phase:   name,
			Message: fmt.Sprintf("completed in %v", time.Since(phaseStart).Round(time.Millisecond)),
		})
	}

	ctx.Observer.Printf("Provisioning completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}
