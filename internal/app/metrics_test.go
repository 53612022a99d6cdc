package app

import (
	"strings"
	"testing"
	"time"
)

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()
	snap := m.Snapshot()

	if snap.FrameCount != 0 {
		t.Errorf("expected 0 frames, got %d", snap.FrameCount)
	}
	if snap.MinFrameTime != 0 {
		t.Errorf("expected min frame 0 before any frame, got %v", snap.MinFrameTime)
	}
}

func TestMetrics_RecordFrame(t *testing.T) {
	m := NewMetrics()
	m.RecordFrame(10 * time.Millisecond)
	m.RecordFrame(20 * time.Millisecond)
	m.RecordFrame(30 * time.Millisecond)

	snap := m.Snapshot()
	if snap.FrameCount != 3 {
		t.Errorf("expected 3 frames, got %d", snap.FrameCount)
	}
	if snap.AvgFrameTime != 20*time.Millisecond {
		t.Errorf("expected avg 20ms, got %v", snap.AvgFrameTime)
	}
	if snap.MinFrameTime != 10*time.Millisecond {
		t.Errorf("expected min 10ms, got %v", snap.MinFrameTime)
	}
	if snap.MaxFrameTime != 30*time.Millisecond {
		t.Errorf("expected max 30ms, got %v", snap.MaxFrameTime)
	}
	if snap.LastFrameTime != 30*time.Millisecond {
		t.Errorf("expected last 30ms, got %v", snap.LastFrameTime)
	}
}

func TestMetrics_Sessions(t *testing.T) {
	m := NewMetrics()
	m.RecordSessionOpened()
	m.RecordSessionClosed(5)
	m.RecordSessionOpened()

	snap := m.Snapshot()
	if snap.SessionsOpened != 2 || snap.SessionsClosed != 1 {
		t.Errorf("sessions = %d opened, %d closed", snap.SessionsOpened, snap.SessionsClosed)
	}
	if snap.SessionBytes != 5 {
		t.Errorf("expected 5 bytes, got %d", snap.SessionBytes)
	}
	if snap.ActiveSessions() != 1 {
		t.Errorf("expected 1 active session, got %d", snap.ActiveSessions())
	}
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()
	m.RecordEvent()
	m.RecordEvent()
	m.RecordBufferChange()
	m.RecordReload()

	snap := m.Snapshot()
	if snap.EventCount != 2 || snap.BufferChanges != 1 || snap.Reloads != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestMetrics_Snapshot_Uptime(t *testing.T) {
	m := NewMetrics()
	time.Sleep(10 * time.Millisecond)

	if snap := m.Snapshot(); snap.Uptime < 10*time.Millisecond {
		t.Errorf("expected uptime >= 10ms, got %v", snap.Uptime)
	}
}

func TestMetrics_Reset(t *testing.T) {
	m := NewMetrics()
	m.RecordFrame(10 * time.Millisecond)
	m.RecordEvent()
	m.RecordSessionOpened()
	m.RecordSessionClosed(3)
	m.RecordBufferChange()
	m.RecordReload()

	m.Reset()

	snap := m.Snapshot()
	if snap.FrameCount != 0 || snap.EventCount != 0 || snap.SessionsOpened != 0 ||
		snap.SessionBytes != 0 || snap.BufferChanges != 0 || snap.Reloads != 0 {
		t.Errorf("expected zeroed snapshot, got %+v", snap)
	}
	if snap.MinFrameTime != 0 {
		t.Errorf("expected min frame 0 after reset, got %v", snap.MinFrameTime)
	}
}

func TestMetricsSnapshot_AvgFPS(t *testing.T) {
	tests := []struct {
		name     string
		avg      time.Duration
		expected float64
	}{
		{"no frames", 0, 0},
		{"60fps", time.Second / 60, 60},
		{"30fps", time.Second / 30, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fps := MetricsSnapshot{AvgFrameTime: tt.avg}.AvgFPS()
			if fps < tt.expected-0.5 || fps > tt.expected+0.5 {
				t.Errorf("expected ~%.0f fps, got %.2f", tt.expected, fps)
			}
		})
	}
}

func TestMetricsSnapshot_String(t *testing.T) {
	s := MetricsSnapshot{SessionsOpened: 2, SessionBytes: 10, BufferChanges: 7}.String()
	for _, want := range []string{"sessions=2", "bytes=10", "changes=7"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestTimer(t *testing.T) {
	timer := StartTimer()
	time.Sleep(10 * time.Millisecond)

	if elapsed := timer.Elapsed(); elapsed < 10*time.Millisecond {
		t.Errorf("expected elapsed >= 10ms, got %v", elapsed)
	}
}

func TestTimer_Stop(t *testing.T) {
	timer := StartTimer()
	time.Sleep(10 * time.Millisecond)

	first := timer.Stop()
	if first < 10*time.Millisecond {
		t.Errorf("expected first >= 10ms, got %v", first)
	}

	second := timer.Elapsed()
	if second >= first {
		t.Errorf("expected timer reset, got %v after %v", second, first)
	}
}
