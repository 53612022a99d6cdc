package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFlags(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	tests := []struct {
		name      string
		args      []string
		overrides map[string]any
		config    string
		headless  bool
		wantErr   bool
	}{
		{name: "defaults", args: nil},
		{
			name:      "listen shorthand",
			args:      []string{"-l", "127.0.0.1:9000"},
			overrides: map[string]any{"listen.address": "127.0.0.1:9000"},
		},
		{
			name: "logging",
			args: []string{"-log-level", "DEBUG", "-log-file", "-"},
			overrides: map[string]any{
				"logging.level": "DEBUG",
				"logging.file":  "-",
			},
		},
		{name: "config", args: []string{"-c", "scribe.toml"}, config: "scribe.toml"},
		{name: "headless", args: []string{"-headless"}, headless: true},
		{name: "bad log level", args: []string{"-log-level", "loud"}, wantErr: true},
		{name: "unknown flag", args: []string{"-nope"}, wantErr: true},
		{name: "positional", args: []string{"file.txt"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			opts, err := parseFlags(tt.args, &stdout, &stderr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFlags() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(opts.Overrides) != len(tt.overrides) {
				t.Fatalf("overrides = %v, want %v", opts.Overrides, tt.overrides)
			}
			for k, v := range tt.overrides {
				if opts.Overrides[k] != v {
					t.Errorf("override %s = %v, want %v", k, opts.Overrides[k], v)
				}
			}
			if opts.ConfigPath != tt.config {
				t.Errorf("ConfigPath = %q, want %q", opts.ConfigPath, tt.config)
			}
			if opts.Headless != tt.headless {
				t.Errorf("Headless = %v, want %v", opts.Headless, tt.headless)
			}
		})
	}
}

func TestParseFlags_DefaultConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	path := filepath.Join(home, "scribe", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[ui]\ntheme = \"dark\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := parseFlags(nil, &bytes.Buffer{}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if opts.ConfigPath != path {
		t.Errorf("ConfigPath = %q, want %q", opts.ConfigPath, path)
	}
}

func TestParseFlags_HelpAndVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if _, err := parseFlags([]string{"-v"}, &stdout, &stderr); !errors.Is(err, errExit) {
		t.Fatalf("-v error = %v, want errExit", err)
	}
	if !strings.Contains(stdout.String(), "Scribe "+version) {
		t.Errorf("version output = %q", stdout.String())
	}

	stdout.Reset()
	stderr.Reset()
	if _, err := parseFlags([]string{"-h"}, &stdout, &stderr); !errors.Is(err, errExit) {
		t.Fatalf("-h error = %v, want errExit", err)
	}
	if !strings.Contains(stderr.String(), "Usage: scribe") {
		t.Errorf("usage output = %q", stderr.String())
	}
}
