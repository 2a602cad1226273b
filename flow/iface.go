package flow

import "context"

// A Step encapsulates a named unit of work against a shared state.
// The state is owned by exactly one pipeline invocation, steps mutate it
// in place and must observe cancellation on the context themselves.
type Step[S any] interface {
	Name() string
	Run(ctx context.Context, state *S) error
}

// RunFunc is the handler signature for a step body.
type RunFunc[S any] func(context.Context, *S) error

// Predicate for branching execution left or right
type Predicate[S any] func(context.Context, *S) bool

// A Decider determines whether an error should roll a transaction back
type Decider func(error) bool

// UnitOfWork provides a transactional scope for a block of steps.
// The implementation decides commit or rollback based on the error
// returned by fn: nil commits, anything else rolls back. When the
// rollback itself fails the implementation should return a
// *RollbackError so both failures stay diagnosable.
type UnitOfWork interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
