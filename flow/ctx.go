package flow

import (
	"context"

	"github.com/alextanhongpin/clean-usecases/eventbus"
	"github.com/alextanhongpin/clean-usecases/flow/internal"
)

// WithPublisher sets the event bus lifecycle events are published to.
// Without it events are dropped.
func WithPublisher(ctx context.Context, bus eventbus.EventBus) context.Context {
	return internal.SetPublisher(ctx, bus)
}

// SetParentName pushes a step name onto the dotted path of enclosing steps.
// An empty name leaves the context untouched.
func SetParentName(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, internal.ParentNameKey, StepPath(ctx, name))
}

// GetParentName returns the dotted path of the enclosing steps
func GetParentName(ctx context.Context) string {
	if name, ok := ctx.Value(internal.ParentNameKey).(string); ok {
		return name
	}
	return ""
}

// StepPath joins the enclosing path with the local step name
func StepPath(ctx context.Context, name string) string {
	parent := GetParentName(ctx)
	if parent == "" {
		return name
	}
	if name == "" {
		return parent
	}
	return parent + "." + name
}
