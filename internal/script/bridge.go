package script

import (
	"errors"
	"math"

	"github.com/google/uuid"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/dusk/internal/event"
)

// Args is an event payload made of Lua values. Events dispatched from
// scripts carry their extra arguments as Args.
type Args []lua.LValue

// Clone copies the value list. Tables are shared, as in Lua itself.
func (a Args) Clone() event.Data {
	out := make(Args, len(a))
	copy(out, a)
	return out
}

// PushToScript pushes every value in order.
func (a Args) PushToScript(L *lua.LState) int {
	for _, v := range a {
		L.Push(v)
	}
	return len(a)
}

// subscription is one dusk.on registration. The subscription pointer is
// the listener owner, so every script listener has its own identity even
// though all of them share deliver's code.
type subscription struct {
	handle string
	id     event.ID
	fn     *lua.LFunction
	host   *Host
}

func (s *subscription) deliver(evt event.Event) error {
	return s.host.callListener(s, evt)
}

// callListener calls the script function with whatever the payload pushes.
// A payload that pushes nothing still calls the function, with no arguments.
func (h *Host) callListener(sub *subscription, evt event.Event) error {
	if h.IsClosed() {
		return ErrClosed
	}

	L := h.l
	top := L.GetTop()
	L.Push(sub.fn)
	n := evt.PushToScript(L)

	if err := L.PCall(n, 0, nil); err != nil {
		L.SetTop(top)
		return &Error{Op: "listener", Source: sub.handle, Err: err}
	}
	return nil
}

// BindDispatcher installs the event bridge into the dusk module:
//
//	dusk.on(id|name, fn) -> handle
//	dusk.off(handle) -> bool
//	dusk.dispatch(id|name, ...) -> true | false, message
//	dusk.event(name) -> id
//	dusk.events -> {Update = 1, Render = 2, Exit = 3, ...}
//
// A host binds to at most one dispatcher; binding again replaces it and
// drops listeners registered on the previous one.
func (h *Host) BindDispatcher(d *event.Dispatcher) error {
	if d == nil {
		return errors.New("script: nil dispatcher")
	}
	if h.IsClosed() {
		return ErrClosed
	}

	h.dropSubscriptions()
	h.dispatcher = d

	h.events = h.l.NewTable()
	for name, id := range event.Names() {
		h.events.RawSetString(name, lua.LNumber(id))
	}

	funcs := map[string]lua.LGFunction{
		"dusk.on":       h.luaOn,
		"dusk.off":      h.luaOff,
		"dusk.dispatch": h.luaDispatch,
		"dusk.event":    h.luaEvent,
	}
	for name, fn := range funcs {
		if err := h.RegisterFunction(name, fn); err != nil {
			return err
		}
	}
	return h.RegisterValue("dusk.events", h.events)
}

// Subscriptions returns the number of live script listeners.
func (h *Host) Subscriptions() int {
	return len(h.subs)
}

// dropSubscriptions removes every script listener from the dispatcher.
func (h *Host) dropSubscriptions() {
	if h.dispatcher != nil {
		for _, sub := range h.subs {
			h.dispatcher.RemoveOwner(sub)
		}
	}
	clear(h.subs)
}

// checkEventID reads an event ID argument given as a number or a name.
func (h *Host) checkEventID(L *lua.LState, n int) event.ID {
	switch v := L.CheckAny(n).(type) {
	case lua.LNumber:
		f := float64(v)
		if f <= 0 || f > math.MaxUint32 || f != math.Trunc(f) {
			L.ArgError(n, "event id must be a positive integer")
			return event.Invalid
		}
		return event.ID(f)
	case lua.LString:
		id := h.registerName(string(v))
		if id == event.Invalid {
			L.ArgError(n, "event name cannot be empty")
		}
		return id
	default:
		L.ArgError(n, "event id or name expected")
		return event.Invalid
	}
}

// registerName allocates an ID and mirrors it into dusk.events.
func (h *Host) registerName(name string) event.ID {
	id := event.Register(name)
	if id != event.Invalid && h.events != nil {
		h.events.RawSetString(name, lua.LNumber(id))
	}
	return id
}

// on(id, fn) -> handle
func (h *Host) luaOn(L *lua.LState) int {
	id := h.checkEventID(L, 1)
	fn := L.CheckFunction(2)

	sub := &subscription{
		handle: uuid.NewString(),
		id:     id,
		fn:     fn,
		host:   h,
	}
	if err := h.dispatcher.AddEventListener(id, sub, sub.deliver); err != nil {
		L.RaiseError("on: %v", err)
		return 0
	}
	h.subs[sub.handle] = sub

	L.Push(lua.LString(sub.handle))
	return 1
}

// off(handle) -> bool
func (h *Host) luaOff(L *lua.LState) int {
	handle := L.CheckString(1)

	sub, ok := h.subs[handle]
	if !ok {
		L.Push(lua.LFalse)
		return 1
	}
	delete(h.subs, handle)
	h.dispatcher.RemoveEventListener(sub.id, sub, sub.deliver)

	L.Push(lua.LTrue)
	return 1
}

// dispatch(id, ...) -> true | false, message
func (h *Host) luaDispatch(L *lua.LState) int {
	id := h.checkEventID(L, 1)

	evt := event.New(id)
	if top := L.GetTop(); top > 1 {
		args := make(Args, 0, top-1)
		for i := 2; i <= top; i++ {
			args = append(args, L.Get(i))
		}
		evt = event.WithData(id, args)
	}

	if err := h.dispatcher.Dispatch(evt); err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

// event(name) -> id
func (h *Host) luaEvent(L *lua.LState) int {
	name := L.CheckString(1)
	id := h.registerName(name)
	if id == event.Invalid {
		L.ArgError(1, "event name cannot be empty")
		return 0
	}
	L.Push(lua.LNumber(id))
	return 1
}
