package program

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/dusk/internal/event"
	"github.com/dshills/dusk/internal/graphics"
	"github.com/dshills/dusk/internal/input"
	"github.com/dshills/dusk/internal/script"
)

// bindScript connects a script host to the program: the event bridge, the
// program functions, graphics and input when present, and hot reload.
//
//	dusk.exit()
//	dusk.target_fps() -> fps
//	dusk.set_target_fps(fps)
//	dusk.current_fps() -> fps
//	dusk.frame_count() -> n
func (p *Program) bindScript(h *script.Host) error {
	if err := h.BindDispatcher(p.Dispatcher); err != nil {
		return err
	}

	funcs := map[string]lua.LGFunction{
		"dusk.exit": func(*lua.LState) int {
			p.Exit()
			return 0
		},
		"dusk.target_fps": func(L *lua.LState) int {
			L.Push(lua.LNumber(p.TargetFPS()))
			return 1
		},
		"dusk.set_target_fps": func(L *lua.LState) int {
			if err := p.SetTargetFPS(float64(L.CheckNumber(1))); err != nil {
				L.ArgError(1, err.Error())
			}
			return 0
		},
		"dusk.current_fps": func(L *lua.LState) int {
			L.Push(lua.LNumber(p.CurrentFPS()))
			return 1
		},
		"dusk.frame_count": func(L *lua.LState) int {
			L.Push(lua.LNumber(p.FrameCount()))
			return 1
		},
	}
	for name, fn := range funcs {
		if err := h.RegisterFunction(name, fn); err != nil {
			return err
		}
	}

	if p.graphics != nil {
		if err := graphics.RegisterScript(h, p.graphics); err != nil {
			return err
		}
	}
	if err := input.RegisterScript(h); err != nil {
		return err
	}

	return p.AddEventListener(event.Update, p, p.reloadScript)
}

// reloadScript re-runs the main script when it changed on disk. A broken
// script is logged and the loop carries on without its listeners.
func (p *Program) reloadScript(event.Event) error {
	if reloaded, err := p.script.ReloadIfChanged(); err != nil {
		p.logger.Error("%v", err)
	} else if reloaded {
		p.logger.Info("script reloaded")
	}
	return nil
}
