package flow

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Retry the step with the specified policy. A *PermanentError returned
// by the step acts as a circuit breaker and aborts retrying, every
// scheduled retry publishes a RetryEvent.
func Retry[S any](policy backoff.BackOff, step Step[S]) Step[S] {
	return &retryStep[S]{policy: policy, step: step}
}

type retryStep[S any] struct {
	policy backoff.BackOff
	step   Step[S]
}

func (r *retryStep[S]) Name() string {
	return r.step.Name()
}

func (r *retryStep[S]) Run(ctx context.Context, state *S) error {
	policy := backoff.WithContext(r.policy, ctx)
	notify := func(err error, next time.Duration) {
		PublishRetryEvent(ctx, r.step.Name(), err, next)
	}

	op := func() error {
		err := r.step.Run(ctx, state)
		if err != nil {
			var pe *PermanentError
			if errors.As(err, &pe) {
				return backoff.Permanent(pe.Err)
			}
		}
		return err
	}

	return backoff.RetryNotify(op, policy, notify)
}
