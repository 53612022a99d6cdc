// Package loader reads configuration sources into nested maps.
//
// Each source (a TOML file, the process environment, command-line
// overrides) produces a map[string]any keyed by section. Maps are layered
// with DeepMerge, later sources overriding earlier ones, and the result is
// decoded into the typed configuration by the config package.
package loader

import (
	"io/fs"
	"os"
)

// Loader is the interface for configuration sources.
type Loader interface {
	// Load reads configuration from the source and returns a map.
	// Returns nil, nil if the source doesn't exist (not an error).
	Load() (map[string]any, error)
}

// FileSystem is an abstraction for file system operations.
// Tests substitute an in-memory implementation.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the OS file system.
func DefaultFS() FileSystem {
	return OSFS{}
}

// MapLoader returns a fixed map. It carries command-line overrides.
type MapLoader map[string]any

// Load returns a copy of the map.
func (m MapLoader) Load() (map[string]any, error) {
	return Clone(m), nil
}
