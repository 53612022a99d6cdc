package app

import (
	"context"
	"sync"

	"github.com/dshills/scribe/internal/event"
	"github.com/dshills/scribe/internal/event/events"
	"github.com/dshills/scribe/internal/event/topic"
)

// Patterns the application listens on.
const (
	topicSessionAll topic.Topic = "ingress.session.*"
)

// subscriptionManager manages event bus subscriptions for the application.
type subscriptionManager struct {
	mu            sync.RWMutex
	subscriptions []*event.Subscription
	app           *Application
}

// newSubscriptionManager creates a new subscription manager.
func newSubscriptionManager(app *Application) *subscriptionManager {
	return &subscriptionManager{
		subscriptions: make([]*event.Subscription, 0, 4),
		app:           app,
	}
}

// setup subscribes the window and the metrics to core events. UI and
// metrics handlers are async so the ingress goroutine never waits on them.
func (sm *subscriptionManager) setup() error {
	if err := sm.subscribe(events.TopicBufferChanged, sm.handleBufferChanged,
		event.WithPriority(event.PriorityHigh),
		event.WithDeliveryMode(event.DeliveryAsync),
	); err != nil {
		return err
	}

	if err := sm.subscribe(topicSessionAll, sm.handleSessionEvent,
		event.WithPriority(event.PriorityLow),
		event.WithDeliveryMode(event.DeliveryAsync),
	); err != nil {
		return err
	}

	return sm.subscribe(events.TopicConfigReloaded, sm.handleConfigReloaded,
		event.WithPriority(event.PriorityLow),
	)
}

func (sm *subscriptionManager) subscribe(pattern topic.Topic, fn event.HandlerFunc, opts ...event.SubscriptionOption) error {
	sub, err := sm.app.eventBus.SubscribeFunc(pattern, fn, opts...)
	if err != nil {
		return err
	}

	sm.mu.Lock()
	sm.subscriptions = append(sm.subscriptions, sub)
	sm.mu.Unlock()
	return nil
}

// unsubscribeAll removes every subscription made by the manager.
func (sm *subscriptionManager) unsubscribeAll() {
	sm.mu.Lock()
	subs := sm.subscriptions
	sm.subscriptions = nil
	sm.mu.Unlock()

	for _, sub := range subs {
		_ = sm.app.eventBus.Unsubscribe(sub)
	}
}

// count returns the number of live subscriptions.
func (sm *subscriptionManager) count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscriptions)
}

func (sm *subscriptionManager) handleBufferChanged(_ context.Context, ev any) error {
	sm.app.metrics.RecordBufferChange()
	if p, ok := event.Payload[events.BufferChanged](ev); ok {
		sm.app.logger.Debug("buffer %s %q: rev %d, len %d", p.Op, p.Rune, p.Revision, p.Len)
	}
	sm.app.wake()
	return nil
}

func (sm *subscriptionManager) handleSessionEvent(_ context.Context, ev any) error {
	if _, ok := event.Payload[events.SessionOpened](ev); ok {
		sm.app.metrics.RecordSessionOpened()
		return nil
	}
	if p, ok := event.Payload[events.SessionClosed](ev); ok {
		sm.app.metrics.RecordSessionClosed(p.BytesRead)
	}
	return nil
}

func (sm *subscriptionManager) handleConfigReloaded(_ context.Context, ev any) error {
	if p, ok := event.Payload[events.ConfigReloaded](ev); ok {
		sm.app.logger.Debug("config reload published for %s", p.Path)
	}
	return nil
}
