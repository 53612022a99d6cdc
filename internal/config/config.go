package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Defaults.
const (
	DefaultAddress        = "127.0.0.1:7878"
	DefaultReadBufferSize = 512
	DefaultLogLevel       = "info"
	DefaultTheme          = ThemeLight
	DefaultTitle          = "Scribe"
	DefaultBanner         = "Welcome to Scribe"
	DefaultPlaceholder    = "Your translation here ..."
	DefaultFrameRate      = 30
	DefaultPluginTimeout  = 50 * time.Millisecond
)

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Config is the complete scribe configuration.
type Config struct {
	Listen  ListenConfig  `toml:"listen"`
	Logging LoggingConfig `toml:"logging"`
	UI      UIConfig      `toml:"ui"`
	Plugin  PluginConfig  `toml:"plugin"`
	Buffer  BufferConfig  `toml:"buffer"`
}

// ListenConfig configures the TCP ingress.
type ListenConfig struct {
	// Address is the host:port to bind.
	Address string `toml:"address"`
	// ReadBufferSize is the per-connection read buffer in bytes.
	ReadBufferSize int `toml:"readBufferSize"`
}

// LoggingConfig configures the application logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
	// File is the log destination. Empty selects the default for the mode:
	// a file in the temp dir for the terminal UI, stderr when headless.
	File string `toml:"file"`
}

// UIConfig configures the terminal window.
type UIConfig struct {
	Theme       string `toml:"theme"`
	Title       string `toml:"title"`
	Banner      string `toml:"banner"`
	Placeholder string `toml:"placeholder"`
	// FrameRate is the number of redraw ticks per second.
	FrameRate int `toml:"frameRate"`
}

// PluginConfig configures the optional key translation script.
type PluginConfig struct {
	Script  string   `toml:"script"`
	Timeout Duration `toml:"timeout"`
}

// BufferConfig configures the text buffer.
type BufferConfig struct {
	// MaxLen caps the buffer length in runes. Zero means unbounded.
	MaxLen int `toml:"maxLen"`
}

// Default returns the built-in configuration. It reproduces the fixed
// behavior of the application without any config file.
func Default() *Config {
	return &Config{
		Listen: ListenConfig{
			Address:        DefaultAddress,
			ReadBufferSize: DefaultReadBufferSize,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
		UI: UIConfig{
			Theme:       DefaultTheme,
			Title:       DefaultTitle,
			Banner:      DefaultBanner,
			Placeholder: DefaultPlaceholder,
			FrameRate:   DefaultFrameRate,
		},
		Plugin: PluginConfig{
			Timeout: Duration(DefaultPluginTimeout),
		},
	}
}

// Clone returns a copy of c.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// FrameInterval returns the redraw interval for the configured frame rate.
func (c *Config) FrameInterval() time.Duration {
	if c.UI.FrameRate <= 0 {
		return time.Second / DefaultFrameRate
	}
	return time.Second / time.Duration(c.UI.FrameRate)
}

// ScriptPath returns the plugin script path with a leading ~ expanded.
func (c *Config) ScriptPath() string {
	return expandHome(c.Plugin.Script)
}

// Validate checks every setting and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error
	add := func(path string, value any, msg string) {
		errs = append(errs, &ValidationError{Path: path, Value: value, Message: msg})
	}

	if err := validateAddress(c.Listen.Address); err != nil {
		add("listen.address", c.Listen.Address, err.Error())
	}
	if c.Listen.ReadBufferSize <= 0 {
		add("listen.readBufferSize", c.Listen.ReadBufferSize, "must be positive")
	}

	if !ValidLogLevel(c.Logging.Level) {
		add("logging.level", c.Logging.Level, "must be debug, info, warn or error")
	}

	switch c.UI.Theme {
	case ThemeLight, ThemeDark:
	default:
		add("ui.theme", c.UI.Theme, "must be light or dark")
	}
	if c.UI.FrameRate < 1 || c.UI.FrameRate > 240 {
		add("ui.frameRate", c.UI.FrameRate, "must be between 1 and 240")
	}

	if c.Plugin.Timeout <= 0 {
		add("plugin.timeout", c.Plugin.Timeout, "must be positive")
	}

	if c.Buffer.MaxLen < 0 {
		add("buffer.maxLen", c.Buffer.MaxLen, "must not be negative")
	}

	return errors.Join(errs...)
}

// ValidLogLevel reports whether level names a log level.
func ValidLogLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

func validateAddress(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	if host == "" {
		return errors.New("missing host")
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("invalid port %q", port)
	}
	return nil
}

// RestartRequired lists settings that differ between prev and next but
// only take effect on restart.
func RestartRequired(prev, next *Config) []string {
	var paths []string
	if prev.Listen.Address != next.Listen.Address {
		paths = append(paths, "listen.address")
	}
	if prev.Listen.ReadBufferSize != next.Listen.ReadBufferSize {
		paths = append(paths, "listen.readBufferSize")
	}
	if prev.Logging.File != next.Logging.File {
		paths = append(paths, "logging.file")
	}
	if prev.Plugin != next.Plugin {
		paths = append(paths, "plugin")
	}
	return paths
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "scribe", "config.toml")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Duration is a time.Duration written as a string such as "50ms".
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// String returns the duration in time.Duration notation.
func (d Duration) String() string {
	return time.Duration(d).String()
}
