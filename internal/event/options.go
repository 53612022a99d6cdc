package event

// BusOption configures an event Bus.
type BusOption func(*busConfig)

// busConfig contains configuration for the event bus.
type busConfig struct {
	asyncQueueSize int
	panicHandler   PanicHandler
	errorHandler   ErrorHandler
}

// defaultBusConfig returns sensible default configuration.
func defaultBusConfig() busConfig {
	return busConfig{
		asyncQueueSize: 1024,
	}
}

// WithAsyncQueueSize sets the async event queue size.
func WithAsyncQueueSize(size int) BusOption {
	return func(c *busConfig) {
		if size > 0 {
			c.asyncQueueSize = size
		}
	}
}

// WithPanicHandler sets the handler called when a subscriber panics.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(c *busConfig) {
		c.panicHandler = h
	}
}

// WithErrorHandler sets the handler called when a subscriber returns an error.
func WithErrorHandler(h ErrorHandler) BusOption {
	return func(c *busConfig) {
		c.errorHandler = h
	}
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*subscriptionConfig)

type subscriptionConfig struct {
	priority     Priority
	deliveryMode DeliveryMode
	filter       FilterFunc
	once         bool
}

func defaultSubscriptionConfig() subscriptionConfig {
	return subscriptionConfig{
		priority:     PriorityNormal,
		deliveryMode: DeliverySync,
	}
}

// WithPriority sets the subscription priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(c *subscriptionConfig) {
		c.priority = p
	}
}

// WithDeliveryMode sets sync or async delivery.
func WithDeliveryMode(m DeliveryMode) SubscriptionOption {
	return func(c *subscriptionConfig) {
		c.deliveryMode = m
	}
}

// WithFilter only delivers events for which fn returns true.
func WithFilter(fn FilterFunc) SubscriptionOption {
	return func(c *subscriptionConfig) {
		c.filter = fn
	}
}

// Once cancels the subscription after its first successful delivery.
func Once() SubscriptionOption {
	return func(c *subscriptionConfig) {
		c.once = true
	}
}
