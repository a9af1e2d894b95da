// Package script embeds Lua (gopher-lua) and bridges it to the event system.
//
// A Host opens only the safe standard libraries (base, table, string, math)
// and lets Go code expose functions to scripts with RegisterFunction, using
// dotted names to build module tables:
//
//	h := script.New()
//	defer h.Close()
//
//	h.RegisterFunction("dusk.exit", func(L *lua.LState) int {
//	    prog.Exit()
//	    return 0
//	})
//
// # Event bridge
//
// BindDispatcher adds dusk.on, dusk.off, dusk.dispatch, dusk.event and the
// dusk.events table. A script listener is an ordinary dispatcher listener:
// when its event is dispatched, the payload pushes itself onto the Lua
// stack and the script function is called with those values.
//
//	local h = dusk.on(dusk.events.Update, function(t)
//	    if t.TotalSeconds > 10 then dusk.exit() end
//	end)
//
// # Reload
//
// Load runs the main script and Watch marks it dirty when it changes on
// disk. ReloadIfChanged re-runs it on the loop goroutine.
package script
