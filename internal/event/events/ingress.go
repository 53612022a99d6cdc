package events

import (
	"time"

	"github.com/dshills/scribe/internal/event/topic"
)

// Ingress event topics.
const (
	// TopicIngressListening is published once the listener is bound.
	TopicIngressListening topic.Topic = "ingress.listening"

	// TopicSessionOpened is published when a connection is accepted.
	TopicSessionOpened topic.Topic = "ingress.session.opened"

	// TopicSessionClosed is published when a connection session ends.
	TopicSessionClosed topic.Topic = "ingress.session.closed"
)

// IngressListening is the payload for TopicIngressListening.
type IngressListening struct {
	Address string
}

// SessionOpened is the payload for TopicSessionOpened.
type SessionOpened struct {
	SessionID  string
	RemoteAddr string
}

// SessionClosed is the payload for TopicSessionClosed.
type SessionClosed struct {
	SessionID  string
	RemoteAddr string
	BytesRead  uint64
	Duration   time.Duration
	// Reason is "eof", "shutdown" or the read error text.
	Reason string
}
