// Package event provides the publish/subscribe bus that connects the
// ingest side of scribe to the UI shell and other observers.
//
// Components publish typed events and subscribe to topic patterns:
//
//	bus := event.NewBus()
//	bus.Start()
//	defer bus.Stop(ctx)
//
//	sub, err := bus.Subscribe("buffer.changed", event.HandlerFunc(
//	    func(ctx context.Context, ev any) error {
//	        e := ev.(event.Event[events.BufferChanged])
//	        fmt.Println("revision", e.Payload.Revision)
//	        return nil
//	    }),
//	    event.WithDeliveryMode(event.DeliveryAsync),
//	)
//
//	bus.Publish(ctx, event.NewEvent(events.TopicBufferChanged, payload, "dispatcher"))
//
// # Delivery
//
// Sync subscriptions run in the publisher's goroutine, ordered by priority.
// Async subscriptions are queued and delivered by a single worker goroutine,
// so async handlers observe events in publish order. When the queue is full
// the event is dropped for that subscription and counted in Stats.
//
// Handler panics are recovered and reported to the bus panic handler; a
// misbehaving subscriber never takes down the publisher.
//
// # Thread Safety
//
// The Bus and Subscription types are safe for concurrent use.
package event
