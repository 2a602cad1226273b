package flow_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alextanhongpin/clean-usecases/eventbus"
	"github.com/alextanhongpin/clean-usecases/flow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepStates(t *testing.T) {
	for _, v := range []struct {
		Key  flow.State
		Name string
	}{
		{flow.StateUnknown, "unknown"},
		{flow.StateWaiting, "waiting"},
		{flow.StateSkipped, "skipped"},
		{flow.StateProcessing, "processing"},
		{flow.StateSuccess, "completed"},
		{flow.StateFailed, "failed"},
		{flow.StateCanceled, "canceled"},
	} {
		st, err := flow.StateFromString(v.Name)
		if assert.NoError(t, err) {
			assert.Equal(t, v.Key, st)
		}
		assert.Equal(t, v.Name, v.Key.String())
	}

	st, err := flow.StateFromString("blah")
	if assert.Error(t, err) {
		assert.Equal(t, flow.StateUnknown, st)
	}
}

func TestStepActions(t *testing.T) {
	for _, v := range []struct {
		Key  flow.Action
		Name string
	}{
		{flow.ActionInit, "init"},
		{flow.ActionRun, "run"},
		{flow.ActionCommit, "commit"},
		{flow.ActionRollback, "rollback"},
	} {
		a, err := flow.ActionFromString(v.Name)
		if assert.NoError(t, err) {
			assert.Equal(t, v.Key, a)
		}
		assert.Equal(t, v.Name, v.Key.String())
	}

	a, err := flow.ActionFromString("blah")
	if assert.Error(t, err) {
		assert.Equal(t, flow.ActionInit, a)
	}
}

func TestIsLifecycle(t *testing.T) {
	evt := eventbus.Event{
		Name: "bogus",
		At:   time.Now(),
		Args: struct{}{},
	}
	assert.False(t, flow.IsLifecycleEvent(evt, flow.ActionRun, flow.StateSkipped))

	evt = eventbus.Event{
		Name: flow.TopicLifecycle,
		At:   time.Now(),
		Args: flow.LifecycleEvent{Action: flow.ActionRun, State: flow.StateFailed, Name: "boom"},
	}
	assert.True(t, flow.IsLifecycleEvent(evt, flow.ActionRun, flow.StateFailed))
	assert.False(t, flow.IsLifecycleEvent(evt, flow.ActionRun, flow.StateSuccess))
}

func TestRetryEventFilter(t *testing.T) {
	assert.False(t, flow.RetryEventFilter(eventbus.Event{Name: "bogus"}))
	assert.False(t, flow.RetryEventFilter(eventbus.Event{Name: flow.TopicRetry, Args: struct{}{}}))
	assert.True(t, flow.RetryEventFilter(eventbus.Event{Name: flow.TopicRetry, Args: flow.RetryEvent{Name: "boom"}}))
}

func TestExec_PublishesLifecycle(t *testing.T) {
	bus := eventbus.New(nil)

	var mu sync.Mutex
	var seen []flow.LifecycleEvent
	bus.Subscribe(eventbus.Handler(func(evt eventbus.Event) error {
		if evt.Name != flow.TopicLifecycle {
			return nil
		}
		mu.Lock()
		seen = append(seen, evt.Args.(flow.LifecycleEvent))
		mu.Unlock()
		return nil
	}))

	ctx := flow.WithPublisher(context.Background(), bus)
	n, err := flow.Exec(ctx, &signup{},
		stepRun("one", noopFn),
		failRun("two"),
	)
	require.NoError(t, bus.Close())

	assert.Equal(t, 1, n)
	assert.Error(t, err)

	mu.Lock()
	defer mu.Unlock()
	want := []flow.LifecycleEvent{
		{Action: flow.ActionRun, State: flow.StateProcessing, Name: "one"},
		{Action: flow.ActionRun, State: flow.StateSuccess, Name: "one"},
		{Action: flow.ActionRun, State: flow.StateProcessing, Name: "two"},
		{Action: flow.ActionRun, State: flow.StateFailed, Name: "two", Reason: assert.AnError},
	}
	assert.Equal(t, want, seen)
}

func TestIsApplicationEvent(t *testing.T) {
	assert.True(t, flow.IsApplicationEvent(eventbus.Event{Name: flow.TopicApplication}))
	assert.False(t, flow.IsApplicationEvent(eventbus.Event{Name: flow.TopicLifecycle}))
}
