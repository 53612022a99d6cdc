package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// dangerousFuncs are removed from the global table.
var dangerousFuncs = []string{
	"dofile",     // Load and execute file
	"loadfile",   // Load file as function
	"load",       // Load string as function
	"loadstring", // Load string as function (deprecated but may exist)
	"require",    // Module loading
	"module",
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Not opened: io, os, debug, package, channel, coroutine
}

// installSandbox strips globals that could escape the sandbox.
func installSandbox(L *lua.LState) {
	for _, name := range dangerousFuncs {
		L.SetGlobal(name, lua.LNil)
	}
}

// installPrint replaces print so script output never reaches the terminal.
func installPrint(L *lua.LState, out func(string)) {
	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		if out != nil {
			out(strings.Join(parts, "\t"))
		}
		return 0
	}))
}
