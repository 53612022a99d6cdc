// Package main is the entry point for Scribe.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/scribe/internal/app"
	"github.com/dshills/scribe/internal/config"
	"github.com/dshills/scribe/internal/ingress"
	"github.com/dshills/scribe/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errExit stops startup after help or version output.
var errExit = errors.New("exit")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseFlags(args, os.Stdout, os.Stderr)
	if errors.Is(err, errExit) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	application, err := app.New(opts)
	if err != nil {
		if errors.Is(err, ingress.ErrBind) {
			fmt.Fprintf(os.Stderr, "Error: cannot accept connections: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		}
		printHint(err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	if !opts.Headless {
		term, err := backend.NewTerminal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
			return 1
		}
		if err := application.SetBackend(term); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to set backend: %v\n", err)
			return 1
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// SIGHUP re-reads the config file.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-hup:
				if err := application.ReloadConfig(); err != nil {
					application.Logger().Warn("reload on SIGHUP: %v", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	if opts.Headless {
		fmt.Fprintf(os.Stderr, "scribe: listening on %s\n", application.Addr())
	}

	// Run returns nil when the user quits the window.
	if err := application.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		printHint(err)
		return 1
	}

	return 0
}

func printHint(err error) {
	if hint := app.Hint(err); hint != "" {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	}
}

// parseFlags turns the command line into application options. Flags that
// mirror config keys become overrides, so they win over file and env.
func parseFlags(args []string, stdout, stderr io.Writer) (app.Options, error) {
	var opts app.Options
	var (
		listen      string
		logLevel    string
		logFile     string
		showVersion bool
		showHelp    bool
	)

	fs := flag.NewFlagSet("scribe", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&listen, "listen", "", "Address to accept keystroke connections on")
	fs.StringVar(&listen, "l", "", "Address to accept keystroke connections on (shorthand)")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&logFile, "log-file", "", "Log file path (\"-\" for stderr)")
	fs.BoolVar(&opts.Headless, "headless", false, "Run without a window")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	fs.BoolVar(&showHelp, "help", false, "Show help message")
	fs.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Scribe - shows keystrokes received over TCP\n\n")
		fmt.Fprintf(stderr, "Usage: scribe [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  scribe                          Listen on %s\n", config.DefaultAddress)
		fmt.Fprintf(stderr, "  scribe -l 127.0.0.1:9000        Listen on another port\n")
		fmt.Fprintf(stderr, "  scribe -headless -log-file -    Run without a window, log to stderr\n")
		fmt.Fprintf(stderr, "  scribe -c ./scribe.toml         Use a specific config file\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, errExit
		}
		return opts, err
	}

	if showHelp {
		fs.Usage()
		return opts, errExit
	}

	if showVersion {
		fmt.Fprintf(stdout, "Scribe %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return opts, errExit
	}

	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if logLevel != "" && !config.ValidLogLevel(logLevel) {
		return opts, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", logLevel)
	}

	overrides := make(map[string]any)
	if listen != "" {
		overrides["listen.address"] = listen
	}
	if logLevel != "" {
		overrides["logging.level"] = logLevel
	}
	if logFile != "" {
		overrides["logging.file"] = logFile
	}
	if len(overrides) > 0 {
		opts.Overrides = overrides
	}

	// Without -config, use the per-user file when it exists.
	if opts.ConfigPath == "" {
		if path := config.DefaultPath(); path != "" {
			if _, err := os.Stat(path); err == nil {
				opts.ConfigPath = path
			}
		}
	}

	return opts, nil
}
