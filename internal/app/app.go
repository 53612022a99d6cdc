// Package app provides the main application structure and coordination
// for Scribe. It wires the ingress listener, dispatcher, buffer and
// window together and manages their lifecycle.
package app

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/scribe/internal/config"
	"github.com/dshills/scribe/internal/dispatcher"
	"github.com/dshills/scribe/internal/engine/buffer"
	"github.com/dshills/scribe/internal/event"
	"github.com/dshills/scribe/internal/ingress"
	"github.com/dshills/scribe/internal/input/key"
	"github.com/dshills/scribe/internal/plugin/lua"
	"github.com/dshills/scribe/internal/renderer"
	"github.com/dshills/scribe/internal/renderer/backend"
)

// DefaultShutdownTimeout bounds how long Close waits for components.
const DefaultShutdownTimeout = 5 * time.Second

// Application is the central coordinator for all Scribe components.
type Application struct {
	mu sync.RWMutex

	// Core infrastructure
	eventBus  *event.Bus
	configMgr *config.Manager
	cfg       *config.Config
	logger    *Logger
	logCloser io.Closer
	metrics   *Metrics

	// Ingest path
	buf        *buffer.Buffer
	dispatcher *dispatcher.Dispatcher
	translator *lua.Translator
	decoder    *key.Decoder
	listener   *ingress.Listener
	subs       *subscriptionManager

	// Window
	backend       backend.Backend
	renderer      *renderer.Renderer
	uiActive      atomic.Bool
	frameInterval atomic.Int64

	// State
	running   atomic.Bool
	cancel    context.CancelFunc
	serveDone chan struct{}
	closeOnce sync.Once
	closeErr  error
	closed    atomic.Bool

	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the TOML config file. Empty means defaults only.
	ConfigPath string

	// Overrides are dotted config paths set from the command line. They
	// take precedence over the file and the environment.
	Overrides map[string]any

	// IgnoreEnv skips SCRIBE_* environment variables.
	IgnoreEnv bool

	// NoWatch disables live reload of the config file.
	NoWatch bool

	// Headless runs without a window; Run only serves the listener.
	Headless bool

	// LogOutput replaces the configured log destination.
	LogOutput io.Writer

	// ShutdownTimeout bounds Close. Zero means DefaultShutdownTimeout.
	ShutdownTimeout time.Duration
}

// New creates an Application and initializes every component. The
// listen address is bound before New returns; a bind failure is returned
// as an error matching ingress.ErrBind.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		metrics: NewMetrics(),
	}

	if err := newBootstrapper(app, opts).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.backend = b
	return nil
}

// Run serves device connections and, unless headless or without a
// backend, drives the window. It blocks until ctx is cancelled, the user
// quits or Shutdown is called, then closes the application.
func (app *Application) Run(ctx context.Context) error {
	if app.closed.Load() {
		return ErrClosed
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.mu.Lock()
	app.cancel = cancel
	be := app.backend
	app.mu.Unlock()

	serveErr := app.startIngress(ctx)

	var err error
	if be == nil || app.opts.Headless {
		app.logger.Info("running headless on %s", app.Addr())
		err = app.waitHeadless(ctx, serveErr)
	} else {
		err = app.runUI(ctx, be, serveErr)
	}

	cancel()
	if cerr := app.Close(); err == nil {
		err = cerr
	}
	return err
}

// startIngress serves the listener in its own goroutine.
func (app *Application) startIngress(ctx context.Context) <-chan error {
	errCh := make(chan error, 1)
	done := make(chan struct{})

	app.mu.Lock()
	app.serveDone = done
	app.mu.Unlock()

	go func() {
		defer close(done)
		errCh <- app.listener.Serve(ctx)
	}()
	return errCh
}

func (app *Application) waitHeadless(ctx context.Context, serveErr <-chan error) error {
	select {
	case <-ctx.Done():
		return nil
	case err := <-serveErr:
		if err != nil {
			return NewComponentError("ingress", "serve", err)
		}
		return nil
	}
}

// Shutdown asks a running application to stop. Run returns once
// everything is closed. On an application that is not running it
// closes immediately.
func (app *Application) Shutdown() {
	app.mu.RLock()
	cancel := app.cancel
	app.mu.RUnlock()

	if app.running.Load() && cancel != nil {
		cancel()
		return
	}
	_ = app.Close()
}

// Close releases every component in reverse initialization order. It is
// safe to call more than once; later calls return the first result.
func (app *Application) Close() error {
	app.closeOnce.Do(func() {
		app.closed.Store(true)
		app.mu.RLock()
		cancel := app.cancel
		app.mu.RUnlock()
		if cancel != nil {
			cancel()
		}
		app.closeErr = app.shutdown()
	})
	return app.closeErr
}

// shutdown performs cleanup in reverse initialization order.
func (app *Application) shutdown() error {
	timeout := app.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs shutdownErrors

	// 1. Stop reloading config
	if app.configMgr != nil {
		errs.add("config", "close", app.configMgr.Close())
	}

	// 2. Stop ingress and wait for the serve loop
	if app.listener != nil {
		errs.add("ingress", "close", app.listener.Close())

		app.mu.RLock()
		done := app.serveDone
		app.mu.RUnlock()
		if done != nil {
			select {
			case <-done:
			case <-ctx.Done():
				errs.add("ingress", "stop", ErrShutdownTimeout)
			}
		}
	}

	// 3. Release the script state
	if app.translator != nil {
		errs.add("translator", "close", app.translator.Close())
	}

	// 4. Drop subscriptions and drain the bus
	if app.subs != nil {
		app.subs.unsubscribeAll()
	}
	if app.eventBus != nil {
		if err := app.eventBus.Stop(ctx); !errors.Is(err, event.ErrBusNotRunning) {
			errs.add("event bus", "stop", err)
		}
	}

	if app.logger != nil {
		for _, err := range errs.errs {
			app.logger.Error("shutdown: %v", err)
		}
		if len(errs.errs) > 0 {
			app.logger.Warn("shutdown finished with failures in %s", errs.components())
		}
		app.logger.Info("shutdown complete: %s", app.metrics.Snapshot())
	}

	// 5. Close the log file last
	if app.logCloser != nil {
		errs.add("log", "close", app.logCloser.Close())
	}

	return errs.err()
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Logger returns the application's logger instance.
func (app *Application) Logger() *Logger {
	if app.logger == nil {
		return NullLogger
	}
	return app.logger
}

// Config returns a copy of the active configuration.
func (app *Application) Config() *config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.cfg.Clone()
}

// EventBus returns the event bus.
func (app *Application) EventBus() *event.Bus {
	return app.eventBus
}

// Buffer returns the text buffer.
func (app *Application) Buffer() *buffer.Buffer {
	return app.buf
}

// Dispatcher returns the dispatcher.
func (app *Application) Dispatcher() *dispatcher.Dispatcher {
	return app.dispatcher
}

// Listener returns the ingress listener.
func (app *Application) Listener() *ingress.Listener {
	return app.listener
}

// Addr returns the bound listen address.
func (app *Application) Addr() net.Addr {
	return app.listener.Addr()
}

// Renderer returns the renderer, or nil when no window is shown.
func (app *Application) Renderer() *renderer.Renderer {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.renderer
}

// Metrics returns the application's metrics instance.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// Stats gathers the counters of every component.
type Stats struct {
	App      MetricsSnapshot
	Dispatch dispatcher.MetricsSnapshot
	Ingress  ingress.Stats
	Bus      event.Stats
}

// Stats returns a point-in-time view of all component counters.
func (app *Application) Stats() Stats {
	return Stats{
		App:      app.metrics.Snapshot(),
		Dispatch: app.dispatcher.Metrics().Snapshot(),
		Ingress:  app.listener.Stats(),
		Bus:      app.eventBus.Stats(),
	}
}
