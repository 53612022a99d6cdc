package config

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/scribe/internal/config/loader"
)

// defaultsMap returns Default() as a nested map, the base layer every
// other source merges over.
func defaultsMap() (map[string]any, error) {
	data, err := toml.Marshal(Default())
	if err != nil {
		return nil, fmt.Errorf("encoding defaults: %w", err)
	}
	return loader.Parse("<defaults>", data)
}

// Decode converts a merged settings map into a Config. Missing settings
// keep their defaults; settings scribe doesn't know are ignored.
func Decode(settings map[string]any) (*Config, error) {
	cfg := Default()
	if len(settings) == 0 {
		return cfg, nil
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return cfg, nil
}

// Build merges the given sources over the defaults, decodes and validates
// the result. Sources are applied in order; later sources win.
func Build(sources ...loader.Loader) (*Config, error) {
	merged, err := defaultsMap()
	if err != nil {
		return nil, err
	}

	for _, src := range sources {
		layer, err := src.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, layer)
	}

	cfg, err := Decode(merged)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
