package lua

import (
	"fmt"
	"math"
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"
)

// TranslateFunc is the global function a translation script must define.
const TranslateFunc = "translate"

// Translator maps incoming key codes through a Lua script.
type Translator struct {
	state *State
	path  string
}

// NewTranslator loads the script at path and checks that it defines translate.
func NewTranslator(path string, opts ...StateOption) (*Translator, error) {
	state := NewState(opts...)
	if err := state.DoFile(path); err != nil {
		state.Close()
		return nil, fmt.Errorf("loading translation script %s: %w", path, err)
	}
	return newTranslator(state, path)
}

// NewTranslatorFromString loads a translation script from source.
func NewTranslatorFromString(source string, opts ...StateOption) (*Translator, error) {
	state := NewState(opts...)
	if err := state.DoString(source); err != nil {
		state.Close()
		return nil, fmt.Errorf("loading translation script: %w", err)
	}
	return newTranslator(state, "<string>")
}

func newTranslator(state *State, path string) (*Translator, error) {
	if !state.HasFunction(TranslateFunc) {
		state.Close()
		return nil, fmt.Errorf("%w: %s in %s", ErrFunctionNotFound, TranslateFunc, path)
	}
	return &Translator{state: state, path: path}, nil
}

// Path returns where the script was loaded from.
func (t *Translator) Path() string {
	return t.path
}

// Translate runs translate(code). It returns the new code and false when
// the script asked for the key to be dropped.
func (t *Translator) Translate(code uint32) (uint32, bool, error) {
	ret, err := t.state.Call(TranslateFunc, lua.LNumber(code))
	if err != nil {
		return code, true, err
	}

	switch v := ret.(type) {
	case *lua.LNilType:
		return 0, false, nil
	case lua.LBool:
		if !bool(v) {
			return 0, false, nil
		}
		return code, true, nil
	case lua.LNumber:
		f := float64(v)
		if f < 0 || f > math.MaxUint32 || f != math.Trunc(f) {
			return code, true, fmt.Errorf("%w: %v", ErrBadResult, f)
		}
		return uint32(f), true, nil
	case lua.LString:
		s := string(v)
		r, size := utf8.DecodeRuneInString(s)
		// A one-byte RuneError is invalid UTF-8; a real U+FFFD is three bytes.
		if size == 0 || size != len(s) || (size == 1 && r == utf8.RuneError) {
			return code, true, fmt.Errorf("%w: %q", ErrBadResult, s)
		}
		return uint32(r), true, nil
	default:
		return code, true, fmt.Errorf("%w: %s", ErrBadResult, ret.Type())
	}
}

// Close releases the Lua state.
func (t *Translator) Close() error {
	return t.state.Close()
}
