// Package usecase runs a configured step tree against one state and
// reports how far it got.
package usecase

import (
	"context"

	usecases "github.com/alextanhongpin/clean-usecases"
	"github.com/alextanhongpin/clean-usecases/decide"
	"github.com/alextanhongpin/clean-usecases/eventbus"
	"github.com/alextanhongpin/clean-usecases/flow"
	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"
)

// Option represents an option for a runner
type Option[S any] func(*Runner[S])

// ParentContext provides a parent context for the runner, cancellation
// and deadlines flow from it into every step.
func ParentContext[S any](ctx context.Context) Option[S] {
	return func(r *Runner[S]) { r.ctx = ctx }
}

// Run the provided steps, in order, when Run is called
func Run[S any](steps ...flow.Step[S]) Option[S] {
	return func(r *Runner[S]) { r.steps = steps }
}

// Should classifies which errors count as failures in the outcome.
// The default is decide.RealFailure, so a noop sentinel halts the
// usecase quietly instead of failing it.
func Should[S any](dec flow.Decider) Option[S] {
	return func(r *Runner[S]) { r.failure = dec }
}

// PublishTo adds an existing eventbus to the runner
func PublishTo[S any](bus eventbus.EventBus) Option[S] {
	return func(r *Runner[S]) { r.bus = bus }
}

// LogWith is used to log warning messages in the runner.
//
// There are very few usages of this, but when an error is seen and not
// returned, like a failed eventbus close, this logger reports it. The
// default logs nothing.
func LogWith[S any](log usecases.Logger) Option[S] {
	return func(r *Runner[S]) { r.log = log }
}

// New creates a runner for a usecase pipeline. The runner owns its
// event bus and is good for a single Run.
func New[S any](opts ...Option[S]) *Runner[S] {
	id := ksuid.New()
	r := &Runner[S]{
		id:      id,
		ctx:     context.Background(),
		failure: decide.RealFailure,
		log:     usecases.NopLogger,
	}

	for _, opt := range opts {
		opt(r)
	}
	if r.bus == nil {
		r.bus = eventbus.New(logrus.WithField("usecase", id.String()))
	}
	if len(r.steps) == 0 {
		r.steps = []flow.Step[S]{flow.Nop[S]()}
	}

	for _, step := range r.steps {
		flow.Walk(step, func(path string) {
			r.names = append(r.names, path)
		})
	}
	r.states = newStateStore(r.names)
	r.bus.Subscribe(eventbus.Handler(r.trackStepStates))

	return r
}

// Runner executes a usecase step tree against one state instance
type Runner[S any] struct {
	id      ksuid.KSUID
	ctx     context.Context
	bus     eventbus.EventBus
	steps   []flow.Step[S]
	failure flow.Decider
	log     usecases.Logger
	states  *stateStore
	names   []string
}

// Outcome describes a single pipeline invocation, enough to report
// "failed at step N of M" and which step.
type Outcome struct {
	// ID of the invocation
	ID string
	// Completed is the number of top level steps that finished
	Completed int
	// Total is the number of top level steps declared
	Total int
	// FailedStep names the step that stopped the pipeline
	FailedStep string
	// Halted is set when the stop was a noop, not a real failure
	Halted bool
	// Err is the error the failing step returned, kept verbatim even
	// when the halt was quiet
	Err error
}

func (t *Runner[S]) trackStepStates(evt eventbus.Event) error {
	switch evt.Name {
	case flow.TopicLifecycle:
		if et, ok := evt.Args.(flow.LifecycleEvent); ok && et.Action != flow.ActionInit {
			t.states.AddLifecycleEvent(et)
		}
	case flow.TopicRetry:
		if et, ok := evt.Args.(flow.RetryEvent); ok {
			t.states.AddRetryEvent(et)
		}
	}
	return nil
}

// ID of this runner
func (t *Runner[S]) ID() string {
	return t.id.String()
}

// StepNames is an ordered list with all the step paths known to this runner
func (t *Runner[S]) StepNames() []string {
	return t.names
}

// Subscribe handlers to the lifecycle events of this run
func (t *Runner[S]) Subscribe(handlers ...eventbus.EventHandler) *Runner[S] {
	t.bus.Subscribe(handlers...)
	return t
}

// Unsubscribe handlers from the lifecycle events of this run
func (t *Runner[S]) Unsubscribe(handlers ...eventbus.EventHandler) *Runner[S] {
	t.bus.Unsubscribe(handlers...)
	return t
}

// Run executes the steps against the state and closes the event bus
// once every event has been delivered, so step infos are final when it
// returns. The outcome's error and the returned error are the failing
// step's error verbatim, except for a quiet halt where the returned
// error is nil and the sentinel stays on the outcome for diagnosis.
func (t *Runner[S]) Run(state *S) (Outcome, error) {
	ctx := flow.WithPublisher(t.ctx, t.bus)
	for _, path := range t.names {
		flow.PublishRegisterEvent(ctx, path)
	}

	completed, err := flow.Exec(ctx, state, t.steps...)
	if cerr := t.bus.Close(); cerr != nil {
		t.log.Warnf("failed to close eventbus: %v", cerr)
	}

	out := Outcome{
		ID:        t.id.String(),
		Completed: completed,
		Total:     len(t.steps),
		Err:       err,
	}
	if err == nil {
		return out, nil
	}

	out.FailedStep = t.steps[completed].Name()
	if !t.failure(err) {
		out.Halted = true
		return out, nil
	}
	return out, err
}

// Info returns the recorded state for the step at the given path
func (t *Runner[S]) Info(path string) (StepInfo, bool) {
	return t.states.Info(path)
}

// Infos returns the recorded states of all steps under the given path prefix
func (t *Runner[S]) Infos(prefix string) []StepInfo {
	return t.states.Infos(prefix)
}
