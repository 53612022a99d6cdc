package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dshills/scribe/internal/config"
	"github.com/dshills/scribe/internal/ingress"
	"github.com/dshills/scribe/internal/renderer"
	"github.com/dshills/scribe/internal/renderer/backend"
)

// syncBuffer is a bytes.Buffer safe for the logger and the test to share.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// newTestApp creates an application bound to an ephemeral loopback port
// that ignores the environment and discards logs unless opts says otherwise.
func newTestApp(t *testing.T, opts Options) *Application {
	t.Helper()
	if opts.Overrides == nil && opts.ConfigPath == "" {
		opts.Overrides = map[string]any{"listen.address": "127.0.0.1:0"}
	}
	opts.IgnoreEnv = true
	if opts.LogOutput == nil {
		opts.LogOutput = io.Discard
	}

	app, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func waitUntil(t *testing.T, cond func() bool, format string, args ...any) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting: "+format, args...)
}

func TestNewApplication(t *testing.T) {
	app := newTestApp(t, Options{})

	if app.EventBus() == nil || !app.EventBus().IsRunning() {
		t.Error("expected a running event bus")
	}
	if app.Buffer() == nil || !app.Buffer().IsEmpty() {
		t.Error("expected an empty buffer")
	}
	if app.Dispatcher() == nil || app.Listener() == nil {
		t.Error("expected dispatcher and listener")
	}
	if app.Addr() == nil {
		t.Fatal("expected the listener to be bound")
	}
	if app.Renderer() != nil {
		t.Error("renderer should only exist while the window runs")
	}
	if app.subs.count() != 3 {
		t.Errorf("subscriptions = %d, want 3", app.subs.count())
	}
	if app.IsRunning() {
		t.Error("new application should not be running")
	}

	cfg := app.Config()
	if cfg.UI.Title != config.DefaultTitle || cfg.UI.Placeholder != config.DefaultPlaceholder {
		t.Errorf("unexpected UI config: %+v", cfg.UI)
	}
	if cfg.Listen.Address != "127.0.0.1:0" {
		t.Errorf("override not applied: %q", cfg.Listen.Address)
	}
}

func TestNew_BindFailure(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer occupied.Close()

	_, err = New(Options{
		Overrides: map[string]any{"listen.address": occupied.Addr().String()},
		IgnoreEnv: true,
		LogOutput: io.Discard,
	})
	if !errors.Is(err, ingress.ErrBind) {
		t.Fatalf("New() error = %v, want ingress.ErrBind", err)
	}
	var ce *ComponentError
	if !errors.As(err, &ce) || ce.Component != "ingress" {
		t.Errorf("error = %v, want ingress ComponentError", err)
	}
	if hint := Hint(err); !strings.Contains(hint, occupied.Addr().String()) {
		t.Errorf("Hint() = %q, want the occupied address", hint)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, "[ui]\ntheme = \"neon\"\n")

	_, err := New(Options{ConfigPath: path, IgnoreEnv: true, LogOutput: io.Discard})
	if !config.IsValidationError(err) {
		t.Fatalf("New() error = %v, want validation error", err)
	}
	var ce *ComponentError
	if !errors.As(err, &ce) || ce.Component != "config" {
		t.Errorf("error = %v, want config ComponentError", err)
	}
}

func TestNew_MissingScript(t *testing.T) {
	_, err := New(Options{
		Overrides: map[string]any{
			"listen.address": "127.0.0.1:0",
			"plugin.script":  filepath.Join(t.TempDir(), "missing.lua"),
		},
		IgnoreEnv: true,
		LogOutput: io.Discard,
	})
	var ce *ComponentError
	if !errors.As(err, &ce) || ce.Component != "translator" {
		t.Fatalf("New() error = %v, want translator ComponentError", err)
	}
}

func TestNew_MissingConfigFileUsesDefaults(t *testing.T) {
	app := newTestApp(t, Options{
		ConfigPath: filepath.Join(t.TempDir(), "absent.toml"),
		Overrides:  map[string]any{"listen.address": "127.0.0.1:0"},
		NoWatch:    true,
	})

	if got := app.Config().UI.Theme; got != config.DefaultTheme {
		t.Errorf("theme = %q, want default", got)
	}
}

func TestApplication_ShutdownIdempotent(t *testing.T) {
	app := newTestApp(t, Options{})

	app.Shutdown()
	app.Shutdown()
	if err := app.Close(); err != nil {
		t.Errorf("Close() after Shutdown = %v", err)
	}

	if err := app.Run(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Run() after Close = %v, want ErrClosed", err)
	}
	if err := app.ReloadConfig(); !errors.Is(err, ErrClosed) {
		t.Errorf("ReloadConfig() after Close = %v, want ErrClosed", err)
	}
	if app.EventBus().IsRunning() {
		t.Error("event bus still running after Close")
	}
}

func TestApplication_SetBackend(t *testing.T) {
	app := newTestApp(t, Options{})
	if err := app.SetBackend(backend.NewNullBackend(80, 24)); err != nil {
		t.Errorf("SetBackend() error = %v", err)
	}
}

func TestApplication_RunTwice(t *testing.T) {
	app := newTestApp(t, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	waitUntil(t, app.IsRunning, "application to start")
	if err := app.Run(ctx); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run() = %v, want ErrAlreadyRunning", err)
	}
	if err := app.SetBackend(backend.NewNullBackend(10, 10)); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("SetBackend() while running = %v, want ErrAlreadyRunning", err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestApplication_ShutdownStopsRun(t *testing.T) {
	app := newTestApp(t, Options{})

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()
	waitUntil(t, app.IsRunning, "application to start")

	app.Shutdown()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
	if app.Listener().IsServing() {
		t.Error("listener still serving after shutdown")
	}
}

func TestHandleBackendEvent(t *testing.T) {
	app := newTestApp(t, Options{})
	be := backend.NewNullBackend(80, 24)
	r := renderer.New(be, renderer.DefaultOptions())

	tests := []struct {
		name string
		ev   backend.Event
		quit bool
	}{
		{"escape", backend.Event{Type: backend.EventKey, Key: backend.KeyEscape}, true},
		{"ctrl-c", backend.Event{Type: backend.EventKey, Key: backend.KeyCtrlC}, true},
		{"rune", backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'q'}, false},
		{"ctrl-l", backend.Event{Type: backend.EventKey, Key: backend.KeyCtrlL}, false},
		{"resize", backend.Event{Type: backend.EventResize, Width: 60, Height: 20}, false},
		{"interrupt", backend.Event{Type: backend.EventInterrupt}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := app.handleBackendEvent(r, tt.ev)
			if got := errors.Is(err, ErrQuit); got != tt.quit {
				t.Errorf("quit = %v, want %v (err %v)", got, tt.quit, err)
			}
		})
	}

	if app.Buffer().Len() != 0 {
		t.Error("terminal keys must not edit the buffer")
	}
	if r.FrameCount() == 0 {
		t.Error("expected ctrl-l to draw a frame")
	}
}

func TestRendererOptionsFromConfig(t *testing.T) {
	app := newTestApp(t, Options{
		Overrides: map[string]any{
			"listen.address": "127.0.0.1:0",
			"ui.theme":       "dark",
			"ui.title":       "Notes",
			"ui.frameRate":   10,
			"ui.width":       800, // ignored, the window size is fixed
		},
	})

	app.mu.RLock()
	opts := app.rendererOptions()
	app.mu.RUnlock()

	if opts.Theme != "dark" || opts.Title != "Notes" || opts.MaxFPS != 10 {
		t.Errorf("options = %+v", opts)
	}
	if opts.Width != renderer.WindowWidth || opts.Height != renderer.WindowHeight {
		t.Errorf("window = %dx%d, want %dx%d", opts.Width, opts.Height, renderer.WindowWidth, renderer.WindowHeight)
	}
	if !strings.Contains(opts.Hint, app.Addr().String()) {
		t.Errorf("hint %q does not show the address", opts.Hint)
	}
	if got := app.currentFrameInterval(); got != 100*time.Millisecond {
		t.Errorf("frame interval = %v, want 100ms", got)
	}
}

func TestApplication_LogsToOutput(t *testing.T) {
	var logs syncBuffer
	app := newTestApp(t, Options{
		Overrides: map[string]any{"listen.address": "127.0.0.1:0", "logging.level": "debug"},
		LogOutput: &logs,
	})
	if err := app.Close(); err != nil {
		t.Fatal(err)
	}

	out := logs.String()
	if !strings.Contains(out, "initialized event bus, config, logger") {
		t.Errorf("missing bootstrap log: %s", out)
	}
	if !strings.Contains(out, "shutdown complete") {
		t.Errorf("missing shutdown log: %s", out)
	}
}
