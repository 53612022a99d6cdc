package event

import (
	"sync/atomic"

	"github.com/dshills/scribe/internal/event/topic"
)

// Subscription represents an active event subscription.
type Subscription struct {
	id        string
	pattern   topic.Topic
	handler   Handler
	config    subscriptionConfig
	cancelled atomic.Bool
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string {
	return s.id
}

// Topic returns the subscribed topic pattern.
func (s *Subscription) Topic() topic.Topic {
	return s.pattern
}

// DeliveryMode returns how events reach this subscription.
func (s *Subscription) DeliveryMode() DeliveryMode {
	return s.config.deliveryMode
}

// IsActive returns true if the subscription can receive events.
func (s *Subscription) IsActive() bool {
	return !s.cancelled.Load()
}

// Cancel permanently cancels the subscription.
func (s *Subscription) Cancel() {
	s.cancelled.Store(true)
}

// shouldDeliver reports whether ev passes the subscription filter.
func (s *Subscription) shouldDeliver(ev any) bool {
	if !s.IsActive() {
		return false
	}
	if s.config.filter != nil && !s.config.filter(ev) {
		return false
	}
	return true
}
