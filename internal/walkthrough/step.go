package walkthrough

import (
	"context"
	"io"
	"slices"
)

// DefaultPrompt completes "Press Enter to ..." when a step names none
const DefaultPrompt = "continue"

// Action performs the store calls of one step and prints what the store
// returned to w.
type Action func(ctx context.Context, w io.Writer) error

// Step is one narrated unit of a walkthrough
type Step struct {
	// Name labels the step in logs and errors.
	Name string
	// Narration is printed before the operator wait.
	Narration string
	// Prompt completes "Press Enter to <Prompt>...".
	Prompt string
	// Action runs after the operator acknowledges. Nil means narration only.
	Action Action
	// Done is printed after a successful action.
	Done string
	// Tolerate lists the error kinds that do not abort the run.
	Tolerate []ErrorKind
	// Ignored is printed when a tolerated error is swallowed.
	Ignored string
}

// Tolerates reports whether kind is swallowed by this step
func (s Step) Tolerates(kind ErrorKind) bool {
	return slices.Contains(s.Tolerate, kind)
}

func (s Step) prompt() string {
	if s.Prompt == "" {
		return DefaultPrompt
	}
	return s.Prompt
}

// Walkthrough is an ordered list of steps with a title and closing line
type Walkthrough struct {
	Title   string
	Steps   []Step
	Closing string
}
