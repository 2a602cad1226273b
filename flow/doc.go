// Package flow composes usecase logic out of small named steps executed
// strictly in sequence against one shared state.
//
// Each step mutates the state in place and aborts the whole sequence by
// returning an error, which the executor surfaces verbatim together
// with the count of steps that completed before it:
//
//	type signupState struct {
//		Email    string
//		Password string
//
//		encrypted string
//		Output    flow.Result[string]
//	}
//
//	n, err := flow.Exec(ctx, &state,
//		flow.Stateless("validate-email", validateEmail),
//		flow.Stateless("validate-password", validatePassword),
//		flow.Stateless("encrypt-password", encryptPassword),
//		flow.Tx("create-user", uow, &state,
//			flow.Stateless("insert-user", insertUser),
//			flow.Stateless("insert-audit-row", insertAuditRow),
//		),
//	)
//
// Chain packages a sub-sequence as one step, Tx does the same inside
// the transactional scope of a UnitOfWork, Retry wraps a step in a
// backoff policy and If/Then/Else branches on the state. Lifecycle
// events for every step are published to the event bus found on the
// context, observability never alters control flow.
//
// A step may return the ErrNoop sentinel to stop the pipeline early
// without signaling a true failure, the executor short-circuits exactly
// as for any error and callers recognize the sentinel with IsNoop.
package flow
