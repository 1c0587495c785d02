package walkthrough

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Waiter blocks until the operator acknowledges the next step
type Waiter interface {
	Wait(ctx context.Context, prompt string) error
}

// WaitFunc adapts a function to Waiter
type WaitFunc func(ctx context.Context, prompt string) error

func (f WaitFunc) Wait(ctx context.Context, prompt string) error {
	return f(ctx, prompt)
}

// NoWait acknowledges immediately unless ctx is already done
var NoWait = WaitFunc(func(ctx context.Context, _ string) error {
	return ctx.Err()
})

// Runner executes walkthrough steps strictly in order
type Runner struct {
	out    io.Writer
	waiter Waiter
	log    zerolog.Logger
}

type Option func(*Runner)

// WithLogger routes diagnostics to l
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) {
		r.log = l
	}
}

// NewRunner creates a runner printing to out and pacing with waiter
func NewRunner(out io.Writer, waiter Waiter, opts ...Option) *Runner {
	r := &Runner{
		out:    out,
		waiter: waiter,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run prints the title, then for every step prints its narration, waits for
// the operator and performs its action. A failed wait returns before the
// pending action runs. An action error the step does not tolerate aborts the
// run with a *StepError; a cancellation aborts it silently, as an interrupt.
func (r *Runner) Run(ctx context.Context, wt Walkthrough) error {
	if wt.Title != "" {
		fmt.Fprintf(r.out, "===== %s =====\n\n", wt.Title)
	}

	for i, step := range wt.Steps {
		log := r.log.With().Int("step", i+1).Str("name", step.Name).Logger()

		fmt.Fprintln(r.out, step.Narration)

		if err := r.waiter.Wait(ctx, step.prompt()); err != nil {
			log.Debug().Err(err).Msg("Wait interrupted")
			return fmt.Errorf("waiting for step %q: %w", step.Name, err)
		}

		if step.Action == nil {
			continue
		}

		start := time.Now()
		err := step.Action(ctx, r.out)
		if err != nil {
			kind := Classify(err)
			if step.Tolerates(kind) {
				r.printIgnored(step, err)
				log.Info().Err(err).Str("kind", kind.String()).Msg("Tolerated step error")
				continue
			}

			if kind == KindCanceled {
				log.Info().Msg("Step interrupted by operator")
				return &StepError{Step: step.Name, Kind: kind, Err: err}
			}

			fmt.Fprintf(r.out, "\n❌ %s failed: %v\n", step.Name, err)
			log.Error().Err(err).Str("kind", kind.String()).Msg("Step failed")
			return &StepError{Step: step.Name, Kind: kind, Err: err}
		}

		log.Debug().Dur("took", time.Since(start)).Msg("Step completed")
		if step.Done != "" {
			fmt.Fprintln(r.out, step.Done)
		}
	}

	if wt.Closing != "" {
		fmt.Fprintf(r.out, "\n===== %s =====\n", wt.Closing)
	}
	return nil
}

func (r *Runner) printIgnored(step Step, err error) {
	msg := step.Ignored
	if msg == "" {
		msg = "Ignoring expected error"
	}
	fmt.Fprintf(r.out, "%s: %v\n", msg, err)
}
