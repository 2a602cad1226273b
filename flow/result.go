package flow

// Result pairs a computed value with an error so a late step can stash a
// not-yet-inspected outcome into the state and the pipeline's exit point
// unwraps it.
type Result[T any] struct {
	value T
	err   error
}

// MakeResult captures both value and error without validation. Exactly
// one of the two is expected to be live, upholding that is the
// constructor's caller's job.
func MakeResult[T any](value T, err error) Result[T] {
	return Result[T]{value: value, err: err}
}

// Unwrap returns the captured pair. A non-nil error means the value
// must be treated as undefined.
func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.err
}

// Ok reports whether the result carries no error
func (r Result[T]) Ok() bool {
	return r.err == nil
}
