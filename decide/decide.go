// Package decide holds deciders classifying pipeline errors, used to
// choose between rolling a transaction back or committing anyway, and
// between reporting a usecase as failed or quietly halted.
package decide

import (
	"context"
	"errors"

	"github.com/alextanhongpin/clean-usecases/flow"
)

// Always treat any error as a real failure
func Always(error) bool {
	return true
}

// Never treat an error as a real failure
func Never(error) bool {
	return false
}

// OnCancel only fails on cancellation or timeout, not on other errors
func OnCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// RealFailure fails on everything except the noop sentinel, so a
// pipeline stopped early by flow.ErrNoop commits and halts quietly.
func RealFailure(err error) bool {
	return !flow.IsNoop(err)
}
