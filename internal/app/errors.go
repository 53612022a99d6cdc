package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/scribe/internal/config"
	"github.com/dshills/scribe/internal/ingress"
)

// Application errors.
var (
	// ErrQuit signals that the user asked to exit.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning indicates the application is already running.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrClosed indicates the application has been shut down.
	ErrClosed = errors.New("application closed")

	// ErrShutdownTimeout indicates a component did not stop in time.
	ErrShutdownTimeout = errors.New("shutdown timed out")
)

// LogFileError reports a log destination that could not be opened.
type LogFileError struct {
	Path string
	Err  error
}

func (e *LogFileError) Error() string {
	return fmt.Sprintf("open log file %s: %v", e.Path, e.Err)
}

func (e *LogFileError) Unwrap() error {
	return e.Err
}

// ComponentError names the component and step that failed during startup,
// reload or shutdown.
type ComponentError struct {
	Component string // "config", "ingress", "translator", ...
	Action    string // "load", "listen", "close", ...
	Err       error
}

// NewComponentError creates a new ComponentError.
func NewComponentError(component, action string, err error) *ComponentError {
	return &ComponentError{
		Component: component,
		Action:    action,
		Err:       err,
	}
}

func (e *ComponentError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Component, e.Action)
	}
	return fmt.Sprintf("%s: %s: %v", e.Component, e.Action, e.Err)
}

func (e *ComponentError) Unwrap() error {
	return e.Err
}

// Hint returns advice for the person starting scribe about err, or "" when
// there is nothing more useful to say than the error itself.
func Hint(err error) string {
	var (
		bind    *ingress.BindError
		logFile *LogFileError
	)
	switch {
	case errors.As(err, &bind):
		return fmt.Sprintf("%s is taken or not local; pick another address with -listen or listen.address", bind.Address)
	case config.IsValidationError(err):
		return "fix the setting in the config file, the SCRIBE_* environment or the flags"
	case errors.As(err, &logFile):
		return "choose a writable path with -log-file, or \"-\" for stderr"
	}

	var ce *ComponentError
	if errors.As(err, &ce) && ce.Component == "translator" {
		return "check plugin.script; the script must define translate(code)"
	}
	return ""
}

// PanicError is a panic recovered from the window loop. The stack is kept
// apart from the message so it only reaches the log.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// shutdownErrors collects the failures of each component closed during
// shutdown so one failure never stops the rest from closing.
type shutdownErrors struct {
	errs []error
}

func (s *shutdownErrors) add(component, action string, err error) {
	if err != nil {
		s.errs = append(s.errs, NewComponentError(component, action, err))
	}
}

// components lists the components that failed, in shutdown order.
func (s *shutdownErrors) components() string {
	names := make([]string, 0, len(s.errs))
	for _, err := range s.errs {
		var ce *ComponentError
		if errors.As(err, &ce) {
			names = append(names, ce.Component)
		}
	}
	return strings.Join(names, ", ")
}

func (s *shutdownErrors) err() error {
	return errors.Join(s.errs...)
}
