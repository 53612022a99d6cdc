package event

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/scribe/internal/event/topic"
)

// Bus is the central event bus.
type Bus struct {
	mu   sync.RWMutex
	subs []*Subscription

	queue chan queuedEvent
	quit  chan struct{}
	wg    sync.WaitGroup

	running atomic.Bool

	config busConfig

	eventsPublished atomic.Uint64
	eventsDelivered atomic.Uint64
	eventsDropped   atomic.Uint64
	handlerErrors   atomic.Uint64
	handlerPanics   atomic.Uint64
}

type queuedEvent struct {
	ctx   context.Context
	event any
	sub   *Subscription
}

// NewBus creates a new event bus with the given options.
func NewBus(opts ...BusOption) *Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}

	return &Bus{
		config: config,
		queue:  make(chan queuedEvent, config.asyncQueueSize),
	}
}

// Start starts the async delivery worker.
func (b *Bus) Start() error {
	if !b.running.CompareAndSwap(false, true) {
		return ErrBusAlreadyRunning
	}

	b.quit = make(chan struct{})
	b.wg.Add(1)
	go b.worker(b.quit)
	return nil
}

// Stop stops the bus. Queued async events are delivered before the worker
// exits unless ctx expires first.
func (b *Bus) Stop(ctx context.Context) error {
	if !b.running.CompareAndSwap(true, false) {
		return ErrBusNotRunning
	}
	close(b.quit)

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ErrShutdownTimeout
	}
}

// IsRunning returns true if the bus is running.
func (b *Bus) IsRunning() bool {
	return b.running.Load()
}

// Subscribe creates a new subscription for the given topic pattern.
func (b *Bus) Subscribe(pattern topic.Topic, handler Handler, opts ...SubscriptionOption) (*Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !pattern.IsValid() {
		return nil, ErrInvalidTopic
	}

	config := defaultSubscriptionConfig()
	for _, opt := range opts {
		opt(&config)
	}

	sub := &Subscription{
		id:      uuid.NewString(),
		pattern: pattern,
		handler: handler,
		config:  config,
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.subs = append(b.subs, sub)
	sort.SliceStable(b.subs, func(i, j int) bool {
		return b.subs[i].config.priority < b.subs[j].config.priority
	})

	return sub, nil
}

// SubscribeFunc is a convenience method for subscribing with a function handler.
func (b *Bus) SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (*Subscription, error) {
	return b.Subscribe(pattern, fn, opts...)
}

// Unsubscribe removes a subscription.
func (b *Bus) Unsubscribe(sub *Subscription) error {
	if sub == nil {
		return ErrSubscriptionNotFound
	}
	sub.Cancel()

	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// Publish delivers an event. Sync subscribers run before Publish returns;
// async subscribers are queued.
func (b *Bus) Publish(ctx context.Context, ev any) error {
	if !b.running.Load() {
		return ErrBusNotRunning
	}

	tp, ok := ev.(TopicProvider)
	if !ok || tp.EventTopic() == "" {
		return ErrInvalidEvent
	}
	eventTopic := tp.EventTopic()

	subs := b.match(eventTopic)
	if len(subs) == 0 {
		return nil
	}
	b.eventsPublished.Add(1)

	for _, sub := range subs {
		if !sub.shouldDeliver(ev) {
			continue
		}

		if sub.config.deliveryMode == DeliveryAsync {
			select {
			case b.queue <- queuedEvent{ctx: ctx, event: ev, sub: sub}:
			default:
				b.eventsDropped.Add(1)
			}
			continue
		}

		b.deliver(ctx, ev, sub)
	}

	return nil
}

// Stats returns current bus statistics.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	active := 0
	for _, s := range b.subs {
		if s.IsActive() {
			active++
		}
	}
	b.mu.RUnlock()

	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		EventsDelivered:   b.eventsDelivered.Load(),
		EventsDropped:     b.eventsDropped.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		ActiveSubscribers: active,
		QueueDepth:        len(b.queue),
	}
}

// match returns the active subscriptions whose pattern matches t.
func (b *Bus) match(t topic.Topic) []*Subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []*Subscription
	for _, s := range b.subs {
		if s.IsActive() && t.Matches(s.pattern) {
			out = append(out, s)
		}
	}
	return out
}

// worker drains the async queue in order.
func (b *Bus) worker(quit <-chan struct{}) {
	defer b.wg.Done()

	for {
		select {
		case q := <-b.queue:
			b.deliver(q.ctx, q.event, q.sub)
		case <-quit:
			// Drain what is already queued
			for {
				select {
				case q := <-b.queue:
					b.deliver(q.ctx, q.event, q.sub)
				default:
					return
				}
			}
		}
	}
}

// deliver runs one handler with panic recovery.
func (b *Bus) deliver(ctx context.Context, ev any, sub *Subscription) {
	if !sub.IsActive() {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			if b.config.panicHandler != nil {
				b.config.panicHandler(ev, &PanicError{
					SubscriptionID: sub.id,
					Topic:          topicOf(ev),
					Value:          r,
				})
			}
		}
	}()

	if err := sub.handler.Handle(ctx, ev); err != nil {
		b.handlerErrors.Add(1)
		if b.config.errorHandler != nil {
			b.config.errorHandler(ev, err)
		}
		return
	}

	b.eventsDelivered.Add(1)
	if sub.config.once {
		_ = b.Unsubscribe(sub)
	}
}

func topicOf(ev any) string {
	if tp, ok := ev.(TopicProvider); ok {
		return tp.EventTopic().String()
	}
	return ""
}
