package event

import "context"

// Priority determines handler execution order.
// Lower values execute first.
type Priority int

const (
	// PriorityCritical is for core handlers that must run first.
	PriorityCritical Priority = 0

	// PriorityHigh is for UI handlers.
	PriorityHigh Priority = 100

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 200

	// PriorityLow is for metrics and logging handlers that run last.
	PriorityLow Priority = 300
)

// DeliveryMode specifies how events are delivered to handlers.
type DeliveryMode int

const (
	// DeliverySync executes the handler synchronously in the publisher's goroutine.
	DeliverySync DeliveryMode = iota

	// DeliveryAsync queues the event for delivery by the bus worker.
	DeliveryAsync
)

// String returns a human-readable delivery mode name.
func (m DeliveryMode) String() string {
	switch m {
	case DeliverySync:
		return "sync"
	case DeliveryAsync:
		return "async"
	default:
		return "unknown"
	}
}

// Handler is the interface for event handlers.
type Handler interface {
	// Handle processes an event.
	// The event parameter is type-erased; handlers should type-assert.
	Handle(ctx context.Context, event any) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, event any) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

// PayloadHandler adapts a typed payload function to a Handler.
// Events with a different payload type are skipped.
func PayloadHandler[T any](fn func(ctx context.Context, payload T) error) Handler {
	return HandlerFunc(func(ctx context.Context, ev any) error {
		p, ok := Payload[T](ev)
		if !ok {
			return nil
		}
		return fn(ctx, p)
	})
}

// FilterFunc is a predicate for filtering events.
// Return true to allow the event, false to filter it out.
type FilterFunc func(event any) bool

// PanicHandler is called when a handler panics.
type PanicHandler func(event any, recovered any)

// ErrorHandler is called when a handler returns an error.
type ErrorHandler func(event any, err error)

// Stats contains event bus statistics.
type Stats struct {
	EventsPublished   uint64
	EventsDelivered   uint64
	EventsDropped     uint64
	HandlerErrors     uint64
	HandlerPanics     uint64
	ActiveSubscribers int
	QueueDepth        int
}
