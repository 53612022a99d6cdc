package event

import "errors"

// Sentinel errors for the event bus.
var (
	// ErrBusNotRunning is returned when operations are attempted on a stopped bus.
	ErrBusNotRunning = errors.New("event bus is not running")

	// ErrBusAlreadyRunning is returned when Start is called on a running bus.
	ErrBusAlreadyRunning = errors.New("event bus is already running")

	// ErrQueueFull is returned when the async queue cannot accept more events.
	ErrQueueFull = errors.New("event queue is full")

	// ErrInvalidEvent is returned when an event does not carry a topic.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrInvalidTopic is returned when a topic is empty or malformed.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrSubscriptionNotFound is returned when unsubscribing an unknown subscription.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("shutdown timeout exceeded")
)

// PanicError wraps a recovered handler panic.
type PanicError struct {
	// SubscriptionID is the ID of the subscription whose handler panicked.
	SubscriptionID string

	// Topic is the topic of the event being delivered.
	Topic string

	// Value is the value passed to panic().
	Value any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return "handler panic for subscription " + e.SubscriptionID + " on topic " + e.Topic
}
