package app

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Metrics tracks application performance metrics.
type Metrics struct {
	// Frame timing
	frameCount  atomic.Uint64
	frameTotal  atomic.Int64
	frameMin    atomic.Int64
	frameMax    atomic.Int64
	lastFrameNs atomic.Int64

	// UI events
	eventCount atomic.Uint64

	// Device sessions
	sessionsOpened atomic.Uint64
	sessionsClosed atomic.Uint64
	sessionBytes   atomic.Uint64

	// Buffer and config activity seen on the bus
	bufferChanges atomic.Uint64
	reloads       atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),
	}
	// Initialize min to max int64 so first frame will be smaller
	m.frameMin.Store(1<<63 - 1)
	return m
}

// RecordFrame records frame timing.
func (m *Metrics) RecordFrame(duration time.Duration) {
	ns := duration.Nanoseconds()

	m.frameCount.Add(1)
	m.frameTotal.Add(ns)
	m.lastFrameNs.Store(ns)

	for {
		old := m.frameMin.Load()
		if ns >= old || m.frameMin.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.frameMax.Load()
		if ns <= old || m.frameMax.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordEvent records a terminal event handled by the UI loop.
func (m *Metrics) RecordEvent() {
	m.eventCount.Add(1)
}

// RecordSessionOpened counts an accepted device connection.
func (m *Metrics) RecordSessionOpened() {
	m.sessionsOpened.Add(1)
}

// RecordSessionClosed counts a finished device connection.
func (m *Metrics) RecordSessionClosed(bytesRead uint64) {
	m.sessionsClosed.Add(1)
	m.sessionBytes.Add(bytesRead)
}

// RecordBufferChange counts a published buffer change.
func (m *Metrics) RecordBufferChange() {
	m.bufferChanges.Add(1)
}

// RecordReload counts an applied config reload.
func (m *Metrics) RecordReload() {
	m.reloads.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	frameCount := m.frameCount.Load()

	var avgFrame time.Duration
	if frameCount > 0 {
		avgFrame = time.Duration(m.frameTotal.Load() / int64(frameCount))
	}

	minFrame := m.frameMin.Load()
	if minFrame == 1<<63-1 {
		minFrame = 0
	}

	return MetricsSnapshot{
		Uptime:         time.Since(m.startTime),
		FrameCount:     frameCount,
		AvgFrameTime:   avgFrame,
		MinFrameTime:   time.Duration(minFrame),
		MaxFrameTime:   time.Duration(m.frameMax.Load()),
		LastFrameTime:  time.Duration(m.lastFrameNs.Load()),
		EventCount:     m.eventCount.Load(),
		SessionsOpened: m.sessionsOpened.Load(),
		SessionsClosed: m.sessionsClosed.Load(),
		SessionBytes:   m.sessionBytes.Load(),
		BufferChanges:  m.bufferChanges.Load(),
		Reloads:        m.reloads.Load(),
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.frameCount.Store(0)
	m.frameTotal.Store(0)
	m.frameMin.Store(1<<63 - 1)
	m.frameMax.Store(0)
	m.lastFrameNs.Store(0)
	m.eventCount.Store(0)
	m.sessionsOpened.Store(0)
	m.sessionsClosed.Store(0)
	m.sessionBytes.Store(0)
	m.bufferChanges.Store(0)
	m.reloads.Store(0)
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime         time.Duration
	FrameCount     uint64
	AvgFrameTime   time.Duration
	MinFrameTime   time.Duration
	MaxFrameTime   time.Duration
	LastFrameTime  time.Duration
	EventCount     uint64
	SessionsOpened uint64
	SessionsClosed uint64
	SessionBytes   uint64
	BufferChanges  uint64
	Reloads        uint64
}

// AvgFPS returns the average frames per second.
func (s MetricsSnapshot) AvgFPS() float64 {
	if s.AvgFrameTime == 0 {
		return 0
	}
	return float64(time.Second) / float64(s.AvgFrameTime)
}

// ActiveSessions returns the number of sessions still open.
func (s MetricsSnapshot) ActiveSessions() uint64 {
	if s.SessionsClosed > s.SessionsOpened {
		return 0
	}
	return s.SessionsOpened - s.SessionsClosed
}

// String summarises the snapshot on one line for the shutdown log.
func (s MetricsSnapshot) String() string {
	return fmt.Sprintf("uptime=%v sessions=%d bytes=%d changes=%d frames=%d avgFrame=%v reloads=%d",
		s.Uptime.Round(time.Millisecond), s.SessionsOpened, s.SessionBytes, s.BufferChanges,
		s.FrameCount, s.AvgFrameTime, s.Reloads)
}

// Timer provides a simple way to measure elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Stop returns the elapsed time and resets the timer.
func (t *Timer) Stop() time.Duration {
	elapsed := t.Elapsed()
	t.start = time.Now()
	return elapsed
}
