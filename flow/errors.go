package flow

import (
	"context"
	"errors"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/errwrap"
	multierror "github.com/hashicorp/go-multierror"
)

// ErrNoop terminates a pipeline early without signaling a true failure.
// The executor treats it like any other error, recognizing it is the
// caller's job through IsNoop.
var ErrNoop = errors.New("nothing to do")

// IsNoop returns true when the error is or contains the noop sentinel
func IsNoop(err error) bool {
	return errors.Is(err, ErrNoop) || errwrap.Contains(err, ErrNoop.Error())
}

// IsCanceled returns true when this error contains or is an error
// that means execution was canceled
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errwrap.Contains(err, context.Canceled.Error()) ||
		errwrap.Contains(err, context.DeadlineExceeded.Error())
}

// PermanentErr returns a permanent error for use in the retry policy as circuit breaker
func PermanentErr(err error) *PermanentError {
	switch e := err.(type) {
	case *backoff.PermanentError:
		return &PermanentError{Err: e.Err}
	case *PermanentError:
		return e
	default:
		return &PermanentError{Err: err}
	}
}

// PermanentError signals to the retry policy that the operation should not be retried.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// WrappedErrors implements errwrap.Wrapper from https://github.com/hashicorp/errwrap
func (e *PermanentError) WrappedErrors() []error {
	return []error{e.Err}
}

// RollbackError reports that rolling a transaction back failed, keeping
// the step failure that triggered the rollback reachable next to the
// rollback's own failure.
type RollbackError struct {
	// Cause is the step failure that triggered the rollback
	Cause error
	// Err is the rollback's own failure
	Err error
}

func (e *RollbackError) Error() string {
	return multierror.Append(e.Cause, e.Err).Error()
}

func (e *RollbackError) Unwrap() []error {
	return []error{e.Cause, e.Err}
}

// WrappedErrors implements errwrap.Wrapper from https://github.com/hashicorp/errwrap
func (e *RollbackError) WrappedErrors() []error {
	return []error{e.Cause, e.Err}
}
