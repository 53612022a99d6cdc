package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultIncludeDepth bounds nested @include directives.
const DefaultIncludeDepth = 8

// ErrIncludeDepthExceeded indicates too many nested @include directives,
// usually an include cycle.
var ErrIncludeDepthExceeded = errors.New("include depth exceeded")

// TOMLLoader loads configuration from a TOML file. A top-level @include
// key names further files, relative to the including file, whose values
// the including file overrides.
type TOMLLoader struct {
	fs       FileSystem
	path     string
	maxDepth int
}

// NewTOMLLoader creates a TOML loader for path.
func NewTOMLLoader(path string) *TOMLLoader {
	return NewTOMLLoaderWithFS(DefaultFS(), path)
}

// NewTOMLLoaderWithFS creates a TOML loader with a custom file system.
func NewTOMLLoaderWithFS(fsys FileSystem, path string) *TOMLLoader {
	return &TOMLLoader{
		fs:       fsys,
		path:     path,
		maxDepth: DefaultIncludeDepth,
	}
}

// Path returns the file the loader reads.
func (l *TOMLLoader) Path() string {
	return l.path
}

// Load reads the configured file and its includes. A missing file yields
// nil, nil.
func (l *TOMLLoader) Load() (map[string]any, error) {
	if l.path == "" {
		return nil, nil
	}
	return l.loadWithIncludes(l.path, l.maxDepth)
}

// LoadFrom reads a single file without processing includes.
func (l *TOMLLoader) LoadFrom(path string) (map[string]any, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	return Parse(path, data)
}

// Parse decodes TOML data into a map. source names the data in errors.
func Parse(source string, data []byte) (map[string]any, error) {
	var config map[string]any
	if err := toml.Unmarshal(data, &config); err != nil {
		perr := &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}

	return config, nil
}

func (l *TOMLLoader) loadWithIncludes(path string, depth int) (map[string]any, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrIncludeDepthExceeded, path)
	}

	config, err := l.LoadFrom(path)
	if err != nil || config == nil {
		return config, err
	}

	includes, ok := config["@include"]
	if !ok {
		return config, nil
	}
	delete(config, "@include")

	var includeList []string
	switch v := includes.(type) {
	case string:
		includeList = []string{v}
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s: @include must be string or array of strings", path)
			}
			includeList = append(includeList, s)
		}
	default:
		return nil, fmt.Errorf("%s: @include must be string or array of strings, got %T", path, includes)
	}

	baseDir := filepath.Dir(path)
	merged := make(map[string]any)
	for _, inc := range includeList {
		incPath := inc
		if !filepath.IsAbs(inc) {
			incPath = filepath.Join(baseDir, inc)
		}

		incConfig, err := l.loadWithIncludes(incPath, depth-1)
		if err != nil {
			return nil, fmt.Errorf("loading include %s: %w", incPath, err)
		}
		merged = DeepMerge(merged, incConfig)
	}

	// The including file wins over everything it includes.
	return DeepMerge(merged, config), nil
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
