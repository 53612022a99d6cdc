package ingress

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/scribe/internal/dispatcher"
	"github.com/dshills/scribe/internal/event"
	"github.com/dshills/scribe/internal/event/events"
	"github.com/dshills/scribe/internal/input/key"
)

// DefaultAddress is the address the device connects to.
const DefaultAddress = "127.0.0.1:7878"

const (
	defaultReadBufferSize = 512
	minAcceptBackoff      = 5 * time.Millisecond
	maxAcceptBackoff      = time.Second
	eventSource           = "ingress"
)

// Dispatcher applies decoded key events. *dispatcher.Dispatcher satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev key.Event) dispatcher.Result
}

// Publisher publishes events. *event.Bus satisfies it.
type Publisher interface {
	Publish(ctx context.Context, ev any) error
}

// Logger is the logging surface the listener needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Stats is a point-in-time view of listener activity.
type Stats struct {
	Address       string
	Sessions      uint64
	ActiveSession string
	BytesRead     uint64
	AcceptErrors  uint64
}

// Listener accepts device connections one at a time.
type Listener struct {
	address        string
	dispatcher     Dispatcher
	decoder        *key.Decoder
	publisher      Publisher
	logger         Logger
	readBufferSize int

	mu     sync.Mutex
	ln     net.Listener
	active *Session

	serving atomic.Bool
	closed  atomic.Bool
	done    chan struct{}

	sessions     atomic.Uint64
	bytesRead    atomic.Uint64
	acceptErrors atomic.Uint64
}

// Option configures a Listener.
type Option func(*Listener)

// WithDecoder sets the byte decoder. The default decoder has no translator.
func WithDecoder(d *key.Decoder) Option {
	return func(l *Listener) {
		if d != nil {
			l.decoder = d
		}
	}
}

// WithPublisher sets where session events are published.
func WithPublisher(p Publisher) Option {
	return func(l *Listener) {
		l.publisher = p
	}
}

// WithLogger sets the listener logger.
func WithLogger(logger Logger) Option {
	return func(l *Listener) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithReadBufferSize sets the per-connection read buffer size.
func WithReadBufferSize(n int) Option {
	return func(l *Listener) {
		if n > 0 {
			l.readBufferSize = n
		}
	}
}

// New creates a listener for address. Nothing is bound until Listen.
func New(address string, d Dispatcher, opts ...Option) *Listener {
	if address == "" {
		address = DefaultAddress
	}
	l := &Listener{
		address:        address,
		dispatcher:     d,
		decoder:        key.NewDecoder(),
		logger:         nopLogger{},
		readBufferSize: defaultReadBufferSize,
		done:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Listen binds the listen address. It is called exactly once; a failure is
// returned as a *BindError and is not retried.
func (l *Listener) Listen() error {
	if l.closed.Load() {
		return ErrListenerClosed
	}

	l.mu.Lock()
	if l.ln != nil {
		l.mu.Unlock()
		return ErrAlreadyListening
	}

	ln, err := net.Listen("tcp", l.address)
	if err != nil {
		l.mu.Unlock()
		return &BindError{Address: l.address, Err: err}
	}
	l.ln = ln
	l.mu.Unlock()

	addr := ln.Addr().String()
	l.logger.Info("listening on %s", addr)
	l.publish(context.Background(), event.NewEvent(events.TopicIngressListening, events.IngressListening{
		Address: addr,
	}, eventSource))
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (l *Listener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ln == nil {
		return nil
	}
	return l.ln.Addr()
}

// Serve accepts connections sequentially and reads each until it ends.
// It returns nil after ctx is cancelled or Close is called.
func (l *Listener) Serve(ctx context.Context) error {
	l.mu.Lock()
	ln := l.ln
	l.mu.Unlock()

	if ln == nil {
		return ErrNotListening
	}
	if l.closed.Load() {
		return ErrListenerClosed
	}
	if !l.serving.CompareAndSwap(false, true) {
		return ErrAlreadyServing
	}
	defer l.serving.Store(false)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			l.Close()
		case <-stop:
		}
	}()

	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if l.closed.Load() {
				return nil
			}
			l.acceptErrors.Add(1)

			if backoff == 0 {
				backoff = minAcceptBackoff
			} else {
				backoff *= 2
			}
			if backoff > maxAcceptBackoff {
				backoff = maxAcceptBackoff
			}
			l.logger.Warn("accept error: %v; retrying in %v", err, backoff)

			select {
			case <-time.After(backoff):
			case <-l.done:
				return nil
			}
			continue
		}
		backoff = 0

		session := newSession(conn, l.readBufferSize)
		if !l.setActive(session) {
			session.close(true)
			return nil
		}

		l.serveSession(ctx, session)
		l.setActive(nil)

		if l.closed.Load() {
			return nil
		}
	}
}

// serveSession runs one session to completion.
func (l *Listener) serveSession(ctx context.Context, s *Session) {
	l.sessions.Add(1)
	l.logger.Info("session %s opened from %s", s.ID, s.RemoteAddr)
	l.publish(ctx, event.NewEvent(events.TopicSessionOpened, events.SessionOpened{
		SessionID:  s.ID,
		RemoteAddr: s.RemoteAddr,
	}, eventSource))

	err := s.run(ctx, l.decoder, l.dispatcher, func() { l.bytesRead.Add(1) })
	s.close(false)

	reason := s.reason(err)
	if reason != ReasonEOF && reason != ReasonShutdown {
		l.logger.Warn("%v", &SessionError{SessionID: s.ID, RemoteAddr: s.RemoteAddr, Err: err})
	}
	l.logger.Info("session %s closed (%s): %d bytes, %d events, %d dropped in %v",
		s.ID, reason, s.BytesRead(), s.Events(), s.Dropped(), s.Duration().Round(time.Millisecond))

	// The serve context may already be cancelled during shutdown.
	l.publish(context.WithoutCancel(ctx), event.NewEvent(events.TopicSessionClosed, events.SessionClosed{
		SessionID:  s.ID,
		RemoteAddr: s.RemoteAddr,
		BytesRead:  s.BytesRead(),
		Duration:   s.Duration(),
		Reason:     reason,
	}, eventSource))
}

// setActive records the active session. It returns false if the listener
// was closed before s could be registered.
func (l *Listener) setActive(s *Session) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s != nil && l.closed.Load() {
		return false
	}
	l.active = s
	return true
}

// Close stops the listener and ends the active session, if any. It is safe
// to call more than once.
func (l *Listener) Close() error {
	if l.closed.Swap(true) {
		return nil
	}
	close(l.done)

	l.mu.Lock()
	ln := l.ln
	active := l.active
	l.mu.Unlock()

	var err error
	if ln != nil {
		if cerr := ln.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			err = cerr
		}
	}
	if active != nil {
		active.close(true)
	}
	return err
}

// IsServing reports whether Serve is running.
func (l *Listener) IsServing() bool {
	return l.serving.Load()
}

// Stats returns current listener statistics.
func (l *Listener) Stats() Stats {
	l.mu.Lock()
	active := l.active
	l.mu.Unlock()

	stats := Stats{
		Address:      l.address,
		Sessions:     l.sessions.Load(),
		BytesRead:    l.bytesRead.Load(),
		AcceptErrors: l.acceptErrors.Load(),
	}
	if addr := l.Addr(); addr != nil {
		stats.Address = addr.String()
	}
	if active != nil {
		stats.ActiveSession = active.ID
	}
	return stats
}

func (l *Listener) publish(ctx context.Context, ev any) {
	if l.publisher == nil {
		return
	}
	if err := l.publisher.Publish(ctx, ev); err != nil && !errors.Is(err, event.ErrBusNotRunning) {
		l.logger.Warn("publish failed: %v", err)
	}
}
