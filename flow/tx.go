package flow

import "context"

// Tx composes the steps into a single step that executes inside the
// transactional scope of the unit of work. When every wrapped step
// succeeds the closure returns nil and the unit of work commits, any
// failure is returned to the unit of work, which must interpret a
// non-nil error as roll back. Failures are never retried here.
//
// The wrapper only decides when a block of steps needs atomicity, the
// transaction mechanics belong entirely to the unit of work.
func Tx[S any](name StepName, uow UnitOfWork, state *S, steps ...Step[S]) Step[S] {
	return TxWhen(name, uow, nil, state, steps...)
}

// TxWhen is Tx with a decider deciding whether a step failure rolls the
// transaction back. When the decider vetoes the rollback the unit of
// work sees a nil error and commits, while the step still surfaces the
// original failure to its caller. A nil decider always rolls back.
func TxWhen[S any](name StepName, uow UnitOfWork, dec Decider, state *S, steps ...Step[S]) Step[S] {
	return &txStep[S]{StepName: name, uow: uow, dec: dec, state: state, steps: steps}
}

type txStep[S any] struct {
	StepName
	uow   UnitOfWork
	dec   Decider
	state *S
	steps []Step[S]
}

// Run executes the wrapped steps against the state captured at
// construction time. The state passed in must be that same state.
func (s *txStep[S]) Run(ctx context.Context, _ *S) error {
	cx := SetParentName(ctx, s.Name())

	var stepErr error
	txErr := s.uow.RunInTx(cx, func(ctx context.Context) error {
		_, stepErr = Exec(ctx, s.state, s.steps...)
		if stepErr != nil && s.dec != nil && !s.dec(stepErr) {
			// rollback vetoed, let the unit of work commit anyway
			return nil
		}
		return stepErr
	})

	switch {
	case txErr == nil && stepErr == nil:
		PublishCommitEvent(ctx, s.Name(), StateSuccess, nil)
		return nil
	case txErr == nil:
		// committed despite a vetoed step failure, surface the original error
		PublishCommitEvent(ctx, s.Name(), StateSuccess, nil)
		return stepErr
	case stepErr == nil:
		// the commit itself failed
		PublishCommitEvent(ctx, s.Name(), StateFailed, txErr)
		return txErr
	default:
		if re, ok := txErr.(*RollbackError); ok {
			PublishRollbackEvent(ctx, s.Name(), StateFailed, re.Err)
		} else {
			PublishRollbackEvent(ctx, s.Name(), StateSuccess, nil)
		}
		return txErr
	}
}
