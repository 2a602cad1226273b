package internal

// StepKey are keys used in step contexts
type StepKey uint8

const (
	// PublisherKey for the event publisher in the context
	PublisherKey StepKey = iota
	// ParentNameKey for the dotted path of the enclosing step
	ParentNameKey
)
