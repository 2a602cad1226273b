package flow

import "context"

// StepName represents a step name
type StepName string

// Name method to make it easier to build named steps
func (s StepName) Name() string {
	return string(s)
}

// Stateless is a simple single unit of work without any state maintained
// on the step itself, collaborators are bound into the closure at
// construction time.
func Stateless[S any](name StepName, run RunFunc[S]) Step[S] {
	return &simpleStep[S]{StepName: name, run: run}
}

// Nop returns a step that takes no action
func Nop[S any]() Step[S] {
	return &simpleStep[S]{StepName: "<nop>"}
}

type simpleStep[S any] struct {
	StepName
	run RunFunc[S]
}

func (a *simpleStep[S]) Run(ctx context.Context, state *S) error {
	if a.run == nil {
		return nil
	}
	return a.run(ctx, state)
}
