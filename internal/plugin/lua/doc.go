// Package lua runs the optional key translation script in a sandboxed
// gopher-lua state.
//
// A translation script defines a global function:
//
//	function translate(code)
//	    if code == 0x0D then return 0x0A end  -- CR -> LF
//	    if code < 0x20 and code ~= 0x08 then return nil end  -- drop controls
//	    return code
//	end
//
// translate receives the raw byte value and returns a number (the code to
// decode), a one-character string, or nil/false to drop the key.
//
// The sandbox opens only the base, table, string and math libraries and
// removes dofile/loadfile/load/loadstring. Every call runs under a timeout.
//
// gopher-lua's LState is not goroutine-safe; State serializes all access.
package lua
