package internal

import (
	"context"
	"time"

	"github.com/alextanhongpin/clean-usecases/eventbus"
)

// SetPublisher on the context
func SetPublisher(ctx context.Context, pub eventbus.EventBus) context.Context {
	return context.WithValue(ctx, PublisherKey, pub)
}

// GetPublisher from the context, the nop bus when none was set
func GetPublisher(ctx context.Context) eventbus.EventBus {
	bus, ok := ctx.Value(PublisherKey).(eventbus.EventBus)
	if !ok {
		return eventbus.NopBus
	}
	return bus
}

// PublishEvent publishes an event to the bus on the context
func PublishEvent(ctx context.Context, name string, args any) {
	GetPublisher(ctx).Publish(eventbus.Event{
		Name: name,
		At:   time.Now(),
		Args: args,
	})
}
