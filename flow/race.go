package flow

import (
	"context"

	multierror "github.com/hashicorp/go-multierror"
)

// Race runs the steps concurrently, each against its own clone of the
// state. The first step to succeed wins and only the winner's clone is
// copied back into the shared state, losing branches' mutations are
// discarded and their contexts canceled. When every branch fails the
// branch errors are aggregated into one error.
//
// The clone func must produce an independent copy, it is what keeps
// concurrent branches from racing on the shared state.
func Race[S any](name StepName, clone func(*S) *S, steps ...Step[S]) Step[S] {
	return &raceStep[S]{StepName: name, clone: clone, steps: steps}
}

type raceStep[S any] struct {
	StepName
	clone func(*S) *S
	steps []Step[S]
}

type raceResult[S any] struct {
	state *S
	err   error
}

func (r *raceStep[S]) Run(ctx context.Context, state *S) error {
	if len(r.steps) == 0 {
		return nil
	}

	nctx, cancel := context.WithCancel(SetParentName(ctx, r.Name()))
	defer cancel()

	results := make(chan raceResult[S], len(r.steps))
	for _, step := range r.steps {
		go func(step Step[S]) {
			branch := r.clone(state)
			PublishRunEvent(nctx, step.Name(), StateProcessing, nil)
			err := step.Run(nctx, branch)
			switch {
			case err == nil:
				PublishRunEvent(nctx, step.Name(), StateSuccess, nil)
			case IsCanceled(err):
				PublishRunEvent(nctx, step.Name(), StateCanceled, nil)
			default:
				PublishRunEvent(nctx, step.Name(), StateFailed, err)
			}
			results <- raceResult[S]{state: branch, err: err}
		}(step)
	}

	var errs *multierror.Error
	for range r.steps {
		res := <-results
		if res.err == nil {
			*state = *res.state
			return nil
		}
		errs = multierror.Append(errs, res.err)
	}
	return errs.ErrorOrNil()
}
