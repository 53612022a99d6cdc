package config

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/scribe/internal/config/loader"
	"github.com/dshills/scribe/internal/config/watcher"
)

// ReloadHandler is called after the config file changed and the new
// configuration loaded and validated.
type ReloadHandler func(prev, next *Config)

// Manager loads the configuration and keeps it current.
type Manager struct {
	mu sync.RWMutex

	path      string
	envPrefix string
	fs        loader.FileSystem
	overrides map[string]any
	debounce  time.Duration

	current  *Config
	handlers []ReloadHandler
	onError  func(error)

	watcher *watcher.Watcher
	closed  bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithPath sets the config file. An empty path disables the file layer.
func WithPath(path string) Option {
	return func(m *Manager) {
		m.path = path
	}
}

// WithEnvPrefix sets the environment variable prefix. An empty prefix
// disables the environment layer.
func WithEnvPrefix(prefix string) Option {
	return func(m *Manager) {
		m.envPrefix = prefix
	}
}

// WithFileSystem sets the file system the TOML loader reads from.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(m *Manager) {
		if fsys != nil {
			m.fs = fsys
		}
	}
}

// WithOverride sets a value that takes precedence over every other
// source, typically from a command-line flag.
func WithOverride(path string, value any) Option {
	return func(m *Manager) {
		loader.SetPath(m.overrides, path, value)
	}
}

// WithReloadDebounce sets how long the file must be quiet before a reload.
func WithReloadDebounce(d time.Duration) Option {
	return func(m *Manager) {
		m.debounce = d
	}
}

// WithErrorHandler sets a callback for reload failures. The previous
// configuration stays in effect after a failure.
func WithErrorHandler(fn func(error)) Option {
	return func(m *Manager) {
		m.onError = fn
	}
}

// NewManager creates a manager. Nothing is read until Load.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		envPrefix: loader.DefaultEnvPrefix,
		fs:        loader.DefaultFS(),
		overrides: make(map[string]any),
		debounce:  100 * time.Millisecond,
		current:   Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Path returns the config file path.
func (m *Manager) Path() string {
	return m.path
}

// Load reads every source and replaces the current configuration.
func (m *Manager) Load() (*Config, error) {
	cfg, err := m.build()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.current = cfg
	m.mu.Unlock()
	return cfg.Clone(), nil
}

func (m *Manager) build() (*Config, error) {
	sources := []loader.Loader{
		loader.NewTOMLLoaderWithFS(m.fs, m.path),
	}
	if m.envPrefix != "" {
		sources = append(sources, loader.NewEnvLoader(m.envPrefix))
	}
	sources = append(sources, loader.MapLoader(m.overrides))
	return Build(sources...)
}

// Current returns a copy of the current configuration.
func (m *Manager) Current() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Clone()
}

// OnReload registers a handler for successful reloads.
func (m *Manager) OnReload(h ReloadHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, h)
}

// Reload re-reads every source. On success the handlers are called with
// the previous and new configuration; on failure the current
// configuration is kept and the error returned.
func (m *Manager) Reload() (*Config, error) {
	cfg, err := m.build()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	prev := m.current
	m.current = cfg
	handlers := make([]ReloadHandler, len(m.handlers))
	copy(handlers, m.handlers)
	m.mu.Unlock()

	for _, h := range handlers {
		h(prev.Clone(), cfg.Clone())
	}
	return cfg.Clone(), nil
}

// Watch starts watching the config file and reloads on every change.
func (m *Manager) Watch() error {
	if m.path == "" {
		return ErrNoFile
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrManagerClosed
	}
	if m.watcher != nil {
		return nil
	}

	w, err := watcher.New(
		watcher.WithDebounce(m.debounce),
		watcher.WithErrorHandler(m.reportError),
	)
	if err != nil {
		return err
	}
	if err := w.Watch(m.path); err != nil {
		w.Close()
		return err
	}
	w.OnChange(m.handleFileChange)
	w.Start()

	m.watcher = w
	return nil
}

// IsWatching reports whether the file watcher is running.
func (m *Manager) IsWatching() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.watcher != nil && m.watcher.IsRunning()
}

func (m *Manager) handleFileChange(_ watcher.Event) {
	// A removed file reloads as "no file": defaults plus env and overrides.
	if _, err := m.Reload(); err != nil {
		m.reportError(err)
	}
}

func (m *Manager) reportError(err error) {
	if m.onError != nil && err != nil {
		m.onError(err)
	}
}

// Close stops the watcher.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	w := m.watcher
	m.watcher = nil
	m.mu.Unlock()

	if w != nil {
		return w.Close()
	}
	return nil
}

// IsValidationError reports whether err came from Validate.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidationFailed)
}
