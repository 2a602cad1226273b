package flow

import "context"

// Exec runs the steps strictly in declaration order against the shared
// state, stopping at the first failure. It returns the number of steps
// that completed and the failing step's error verbatim, nil when every
// step succeeded. Zero steps succeed with a count of zero.
//
// The executor never runs steps concurrently and never mutates the state
// itself. Cancellation is not polled between steps, observing the
// context is each step's contract.
func Exec[S any](ctx context.Context, state *S, steps ...Step[S]) (int, error) {
	for i, step := range steps {
		PublishRunEvent(ctx, step.Name(), StateProcessing, nil)
		if err := step.Run(ctx, state); err != nil {
			if IsCanceled(err) {
				PublishRunEvent(ctx, step.Name(), StateCanceled, nil)
			} else {
				PublishRunEvent(ctx, step.Name(), StateFailed, err)
			}
			return i, err
		}
		PublishRunEvent(ctx, step.Name(), StateSuccess, nil)
	}
	return len(steps), nil
}
