package graphics

import (
	"github.com/gdamore/tcell/v2"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/dusk/internal/script"
)

// RegisterScript exposes the graphics system to scripts:
//
//	dusk.window_size() -> width, height
//	dusk.draw_text(x, y, text [, color])
//
// draw_text draws on the current context and is meant for Render listeners.
func RegisterScript(h *script.Host, sys System) error {
	funcs := map[string]lua.LGFunction{
		"dusk.window_size": func(L *lua.LState) int {
			w, ht := sys.WindowSize()
			L.Push(lua.LNumber(w))
			L.Push(lua.LNumber(ht))
			return 2
		},
		"dusk.draw_text": func(L *lua.LState) int {
			txt := Text{
				X:       L.CheckInt(1),
				Y:       L.CheckInt(2),
				Content: L.CheckString(3),
				Style:   tcell.StyleDefault,
			}
			if name := L.OptString(4, ""); name != "" {
				c, err := ParseColor(name)
				if err != nil {
					L.ArgError(4, err.Error())
					return 0
				}
				txt.Style = txt.Style.Foreground(c)
			}
			sys.Context().Draw(txt)
			return 0
		},
	}

	for name, fn := range funcs {
		if err := h.RegisterFunction(name, fn); err != nil {
			return err
		}
	}
	return nil
}
