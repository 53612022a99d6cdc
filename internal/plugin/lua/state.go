package lua

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds every script execution.
const DefaultExecutionTimeout = 50 * time.Millisecond

// State wraps gopher-lua with a sandbox and per-call timeouts.
type State struct {
	L *lua.LState

	mu sync.Mutex

	executionTimeout time.Duration
	print            func(string)
	closed           bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the timeout for each script execution.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		if d > 0 {
			s.executionTimeout = d
		}
	}
}

// WithPrint routes the script's print output to fn.
func WithPrint(fn func(string)) StateOption {
	return func(s *State) {
		s.print = fn
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	s := &State{
		executionTimeout: DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	openSafeLibraries(L)
	installSandbox(L)
	installPrint(L, s.print)

	s.L = L
	return s
}

// DoString executes a Lua chunk.
func (s *State) DoString(code string) error {
	return s.run(func() error {
		return s.L.DoString(code)
	})
}

// DoFile executes a Lua file.
func (s *State) DoFile(path string) error {
	return s.run(func() error {
		return s.L.DoFile(path)
	})
}

// HasFunction returns true if name is a global function.
func (s *State) HasFunction(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	return s.L.GetGlobal(name).Type() == lua.LTFunction
}

// Call calls a global Lua function and returns its first result.
func (s *State) Call(name string, args ...lua.LValue) (lua.LValue, error) {
	var ret lua.LValue = lua.LNil

	err := s.run(func() error {
		fn := s.L.GetGlobal(name)
		if fn.Type() != lua.LTFunction {
			return fmt.Errorf("%w: %s", ErrFunctionNotFound, name)
		}

		if err := s.L.CallByParam(lua.P{
			Fn:      fn,
			NRet:    1,
			Protect: true,
		}, args...); err != nil {
			return err
		}

		ret = s.L.Get(-1)
		s.L.Pop(1)
		return nil
	})

	return ret, err
}

// run executes fn under the state lock with a timeout and panic recovery.
func (s *State) run(fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.executionTimeout)
	defer cancel()
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	return fn()
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases all resources associated with the Lua state.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.L.Close()
	s.closed = true
	return nil
}
