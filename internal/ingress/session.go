package ingress

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/scribe/internal/input/key"
)

// Close reasons reported in session.closed events.
const (
	ReasonEOF      = "eof"
	ReasonShutdown = "shutdown"
)

// Session is the state of one accepted connection. It is discarded when the
// connection ends.
type Session struct {
	ID         string
	RemoteAddr string
	Started    time.Time

	conn   net.Conn
	reader *bufio.Reader

	bytesRead atomic.Uint64
	events    atomic.Uint64
	dropped   atomic.Uint64

	closeOnce sync.Once
	shutdown  atomic.Bool
}

func newSession(conn net.Conn, readBufferSize int) *Session {
	return &Session{
		ID:         uuid.NewString(),
		RemoteAddr: conn.RemoteAddr().String(),
		Started:    time.Now(),
		conn:       conn,
		reader:     bufio.NewReaderSize(conn, readBufferSize),
	}
}

// BytesRead returns the number of bytes received so far.
func (s *Session) BytesRead() uint64 {
	return s.bytesRead.Load()
}

// Events returns the number of key events dispatched so far.
func (s *Session) Events() uint64 {
	return s.events.Load()
}

// Dropped returns the number of bytes the decoder discarded.
func (s *Session) Dropped() uint64 {
	return s.dropped.Load()
}

// Duration returns how long the session has been open.
func (s *Session) Duration() time.Duration {
	return time.Since(s.Started)
}

// run reads the connection byte by byte and dispatches each decoded event
// until the peer closes or a read fails. It returns the error that ended
// the session; io.EOF for an orderly close.
func (s *Session) run(ctx context.Context, decoder *key.Decoder, d Dispatcher, onByte func()) error {
	for {
		b, err := s.reader.ReadByte()
		if err != nil {
			return err
		}
		s.bytesRead.Add(1)
		if onByte != nil {
			onByte()
		}

		ev, ok := decoder.Decode(b)
		if !ok {
			s.dropped.Add(1)
			continue
		}

		d.Dispatch(ctx, ev)
		s.events.Add(1)
	}
}

// reason describes why run returned.
func (s *Session) reason(err error) string {
	switch {
	case s.shutdown.Load():
		return ReasonShutdown
	case err == nil, errors.Is(err, io.EOF):
		return ReasonEOF
	default:
		return err.Error()
	}
}

// close closes the connection. shutdown marks the close as initiated by
// the listener rather than the peer.
func (s *Session) close(shutdown bool) error {
	var err error
	s.closeOnce.Do(func() {
		if shutdown {
			s.shutdown.Store(true)
		}
		err = s.conn.Close()
	})
	return err
}
