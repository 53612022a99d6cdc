// Package config provides scribe's typed configuration.
//
// Configuration is layered, lowest priority first:
//
//  1. Built-in defaults (Default)
//  2. The TOML file, with @include support
//  3. SCRIBE_* environment variables
//  4. Command-line overrides
//
// Each layer is read into a nested map by the loader package and merged
// with loader.DeepMerge. The merged map is decoded into a Config and
// validated. A Manager owns the current Config and can watch the file for
// changes, re-running the whole pipeline on every change and handing the
// old and new values to registered reload handlers.
//
// Example config file:
//
//	[listen]
//	address = "127.0.0.1:7878"
//
//	[logging]
//	level = "debug"
//
//	[ui]
//	theme = "dark"
//
//	[plugin]
//	script = "~/.config/scribe/translate.lua"
//	timeout = "50ms"
package config
