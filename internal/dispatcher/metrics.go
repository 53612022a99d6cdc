package dispatcher

import (
	"sync/atomic"
	"time"

	"github.com/dshills/scribe/internal/engine/buffer"
)

// Metrics collects dispatch statistics.
type Metrics struct {
	appends     atomic.Uint64
	deletes     atomic.Uint64
	noOpDeletes atomic.Uint64
	invalid     atomic.Uint64
	rejected    atomic.Uint64
	unknown     atomic.Uint64
	totalNs     atomic.Int64
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Appends     uint64
	Deletes     uint64
	NoOpDeletes uint64
	Invalid     uint64
	Rejected    uint64
	Unknown     uint64
	// AvgDispatch is the mean time spent in Dispatch.
	AvgDispatch time.Duration
}

// Total returns the number of dispatched events.
func (s MetricsSnapshot) Total() uint64 {
	return s.Appends + s.Deletes + s.NoOpDeletes + s.Invalid + s.Rejected + s.Unknown
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// record counts a dispatch outcome.
func (m *Metrics) record(r Result, d time.Duration) {
	m.totalNs.Add(d.Nanoseconds())

	switch r.Status {
	case StatusApplied:
		if r.Edit.Op == buffer.OpDeleteLast {
			m.deletes.Add(1)
		} else {
			m.appends.Add(1)
		}
	case StatusNoOp:
		m.noOpDeletes.Add(1)
	case StatusInvalid:
		m.invalid.Add(1)
	case StatusRejected:
		m.rejected.Add(1)
	case StatusUnknown:
		m.unknown.Add(1)
	}
}

// Snapshot returns current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Appends:     m.appends.Load(),
		Deletes:     m.deletes.Load(),
		NoOpDeletes: m.noOpDeletes.Load(),
		Invalid:     m.invalid.Load(),
		Rejected:    m.rejected.Load(),
		Unknown:     m.unknown.Load(),
	}
	if total := s.Total(); total > 0 {
		s.AvgDispatch = time.Duration(m.totalNs.Load() / int64(total))
	}
	return s
}

// Reset clears all counters.
func (m *Metrics) Reset() {
	m.appends.Store(0)
	m.deletes.Store(0)
	m.noOpDeletes.Store(0)
	m.invalid.Store(0)
	m.rejected.Store(0)
	m.unknown.Store(0)
	m.totalNs.Store(0)
}
