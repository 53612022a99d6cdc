package loader

import (
	"os"
	"strconv"
	"strings"
)

// DefaultEnvPrefix is the prefix for scribe environment variables.
const DefaultEnvPrefix = "SCRIBE_"

// EnvLoader loads configuration from environment variables.
//
// Explicitly mapped variables go to their mapped path. Any other variable
// with the prefix is converted by rule: SCRIBE_LISTEN_READ_BUFFER_SIZE
// becomes listen.readBufferSize.
type EnvLoader struct {
	prefix  string            // e.g. "SCRIBE_"
	mapping map[string]string // env var -> config path
	environ func() []string
}

// NewEnvLoader creates an environment loader. The prefix should include
// the trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(),
		environ: os.Environ,
	}
}

// NewEnvLoaderWithMapping creates a loader with custom mappings.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: mapping,
		environ: os.Environ,
	}
}

func defaultEnvMapping() map[string]string {
	return map[string]string{
		"SCRIBE_LISTEN_ADDRESS": "listen.address",
		"SCRIBE_LOG_LEVEL":      "logging.level",
		"SCRIBE_LOG_FILE":       "logging.file",
		"SCRIBE_UI_THEME":       "ui.theme",
		"SCRIBE_PLUGIN_SCRIPT":  "plugin.script",
		"SCRIBE_BUFFER_MAX_LEN": "buffer.maxLen",
	}
}

// Load reads the environment and returns a configuration map.
// Empty values are kept, not treated as unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}

		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		SetPath(config, path, parseValue(value))
	}

	return config, nil
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// envToPath converts SCRIBE_SECTION_SOME_KEY to section.someKey.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.TrimPrefix(env, l.prefix)
	parts := strings.Split(strings.ToLower(name), "_")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return ""
	}

	setting := parts[1]
	for _, part := range parts[2:] {
		if part != "" {
			setting += strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return parts[0] + "." + setting
}

// parseValue converts the string into a bool, integer or float when it
// reads as one. Everything else, including durations and addresses, stays
// a string for the typed decoder to interpret.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if strings.Contains(s, ".") && !strings.Contains(s, ":") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	return s
}
