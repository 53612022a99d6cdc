package lua

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	glua "github.com/yuin/gopher-lua"
)

func TestNewState(t *testing.T) {
	state := NewState()
	defer state.Close()

	if state.IsClosed() {
		t.Error("NewState() returned closed state")
	}
}

func TestStateDoStringAndCall(t *testing.T) {
	state := NewState()
	defer state.Close()

	if err := state.DoString(`function double(x) return x * 2 end`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	ret, err := state.Call("double", glua.LNumber(21))
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if ret != glua.LNumber(42) {
		t.Errorf("Call() = %v, expected 42", ret)
	}
}

func TestStateCallMissingFunction(t *testing.T) {
	state := NewState()
	defer state.Close()

	if _, err := state.Call("nope"); !errors.Is(err, ErrFunctionNotFound) {
		t.Errorf("expected ErrFunctionNotFound, got %v", err)
	}
}

func TestStateSandbox(t *testing.T) {
	state := NewState()
	defer state.Close()

	blocked := []string{
		`dofile("x")`,
		`loadstring("return 1")()`,
		`require("os")`,
		`os.exit(1)`,
		`io.write("x")`,
	}

	for _, code := range blocked {
		if err := state.DoString(code); err == nil {
			t.Errorf("expected %q to fail in sandbox", code)
		}
	}

	// Safe libraries remain available
	if err := state.DoString(`x = string.upper("a") .. math.floor(1.5) .. table.concat({"b"})`); err != nil {
		t.Errorf("safe libraries unavailable: %v", err)
	}
}

func TestStateTimeout(t *testing.T) {
	state := NewState(WithExecutionTimeout(20 * time.Millisecond))
	defer state.Close()

	start := time.Now()
	err := state.DoString(`while true do end`)
	if err == nil {
		t.Fatal("expected infinite loop to be interrupted")
	}
	if time.Since(start) > 2*time.Second {
		t.Error("timeout took too long")
	}
}

func TestStatePrintCaptured(t *testing.T) {
	var lines []string
	state := NewState(WithPrint(func(s string) { lines = append(lines, s) }))
	defer state.Close()

	if err := state.DoString(`print("hello", 1)`); err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0] != "hello\t1" {
		t.Errorf("unexpected print output %q", lines)
	}
}

func TestStateClose(t *testing.T) {
	state := NewState()
	if err := state.Close(); err != nil {
		t.Fatal(err)
	}
	if err := state.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if !state.IsClosed() {
		t.Error("state should be closed")
	}
	if err := state.DoString(`x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("expected ErrStateClosed, got %v", err)
	}
	if state.HasFunction("print") {
		t.Error("closed state should report no functions")
	}
}

func TestStateDoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.lua")
	if err := os.WriteFile(path, []byte(`answer = 42`), 0o644); err != nil {
		t.Fatal(err)
	}

	state := NewState()
	defer state.Close()

	if err := state.DoFile(path); err != nil {
		t.Fatalf("DoFile() error = %v", err)
	}
}
