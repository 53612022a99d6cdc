package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dshills/scribe/internal/engine/buffer"
	"github.com/dshills/scribe/internal/event"
	"github.com/dshills/scribe/internal/event/events"
	"github.com/dshills/scribe/internal/input/key"
)

// Publisher publishes events. *event.Bus satisfies it.
type Publisher interface {
	Publish(ctx context.Context, ev any) error
}

// Logger is the logging surface the dispatcher needs.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

// eventSource identifies the dispatcher on the event bus.
const eventSource = "dispatcher"

// Dispatcher applies key events to a buffer.
type Dispatcher struct {
	buf       *buffer.Buffer
	publisher Publisher
	logger    Logger
	metrics   *Metrics
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithPublisher sets where buffer events are published.
func WithPublisher(p Publisher) Option {
	return func(d *Dispatcher) {
		d.publisher = p
	}
}

// WithLogger sets the dispatcher logger.
func WithLogger(l Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// New creates a dispatcher that edits buf.
func New(buf *buffer.Buffer, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		buf:    buf,
		logger: nopLogger{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Buffer returns the buffer the dispatcher edits.
func (d *Dispatcher) Buffer() *buffer.Buffer {
	return d.buf
}

// Metrics returns the metrics collector, or nil if metrics are disabled.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Dispatch applies one key event to the buffer.
func (d *Dispatcher) Dispatch(ctx context.Context, ev key.Event) Result {
	start := time.Now()
	result := d.apply(ev)

	if d.metrics != nil {
		d.metrics.record(result, time.Since(start))
	}

	d.report(ctx, result)
	return result
}

// apply performs the edit for ev.
func (d *Dispatcher) apply(ev key.Event) Result {
	result := Result{Event: ev}

	switch ev.Kind {
	case key.KindAppend:
		edit, err := d.buf.Append(ev.Rune)
		result.Edit = edit
		if err != nil {
			result.Status = StatusRejected
			result.Err = err
			return result
		}
		result.Status = StatusApplied

	case key.KindDeleteLast:
		edit := d.buf.DeleteLast()
		result.Edit = edit
		if edit.Changed {
			result.Status = StatusApplied
		} else {
			result.Status = StatusNoOp
		}

	case key.KindInvalid:
		result.Status = StatusInvalid
		result.Err = fmt.Errorf("%w: code %#x", ErrInvalidInput, ev.Code)

	default:
		result.Status = StatusUnknown
		result.Err = fmt.Errorf("%w: %s", ErrUnknownKind, ev.Kind)
	}

	return result
}

// report logs the result and publishes the matching bus event.
func (d *Dispatcher) report(ctx context.Context, r Result) {
	switch r.Status {
	case StatusApplied:
		d.logger.Debug("%s %q -> len=%d rev=%d", r.Edit.Op, r.Edit.Rune, r.Edit.Len, r.Edit.Revision)
		d.publish(ctx, event.NewEvent(events.TopicBufferChanged, events.BufferChanged{
			Op:       r.Edit.Op.String(),
			Rune:     r.Edit.Rune,
			Revision: uint64(r.Edit.Revision),
			Len:      r.Edit.Len,
		}, eventSource))

	case StatusNoOp:
		d.logger.Debug("delete-last on empty buffer ignored")

	case StatusInvalid, StatusRejected, StatusUnknown:
		d.logger.Warn("input %#x not applied: %v", r.Event.Code, r.Err)
		d.publish(ctx, event.NewEvent(events.TopicBufferRejected, events.BufferRejected{
			Code:   r.Event.Code,
			Reason: rejectReason(r),
		}, eventSource))
	}
}

func (d *Dispatcher) publish(ctx context.Context, ev any) {
	if d.publisher == nil {
		return
	}
	if err := d.publisher.Publish(ctx, ev); err != nil && !errors.Is(err, event.ErrBusNotRunning) {
		d.logger.Warn("publish failed: %v", err)
	}
}

func rejectReason(r Result) string {
	switch {
	case errors.Is(r.Err, buffer.ErrBufferFull):
		return "buffer full"
	case r.Status == StatusInvalid:
		return "invalid scalar value"
	case r.Status == StatusUnknown:
		return "unknown event kind"
	case r.Err != nil:
		return r.Err.Error()
	default:
		return r.Status.String()
	}
}
