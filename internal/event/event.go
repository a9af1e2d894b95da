package event

import lua "github.com/yuin/gopher-lua"

// Data is the payload capability carried by an Event.
//
// Clone returns an independently owned copy with the same logical content.
// PushToScript pushes the payload onto the Lua stack and returns how many
// values it pushed; payloads that are not visible to scripts return 0.
type Data interface {
	Clone() Data
	PushToScript(L *lua.LState) int
}

// Event is an ID plus an optional payload. Events are values created for a
// single dispatch and are never persisted.
//
// A borrowed payload is only valid for the duration of the Dispatch call
// that delivers it. Listeners that need it afterwards must Clone the event.
type Event struct {
	id       ID
	data     Data
	borrowed bool
}

// New creates an event without a payload.
func New(id ID) Event {
	return Event{id: id}
}

// WithData creates an event that owns its payload.
func WithData(id ID, data Data) Event {
	return Event{id: id, data: data}
}

// Borrow creates an event whose payload belongs to the caller's stack frame.
func Borrow(id ID, data Data) Event {
	return Event{id: id, data: data, borrowed: data != nil}
}

// ID returns the event identifier.
func (e Event) ID() ID {
	return e.id
}

// Data returns the payload, or nil.
func (e Event) Data() Data {
	return e.data
}

// HasData reports whether the event carries a payload.
func (e Event) HasData() bool {
	return e.data != nil
}

// Borrowed reports whether the payload is only valid during dispatch.
func (e Event) Borrowed() bool {
	return e.borrowed
}

// Clone returns an event that owns a fresh copy of the payload.
func (e Event) Clone() Event {
	if e.data == nil {
		return Event{id: e.id}
	}
	return Event{id: e.id, data: e.data.Clone()}
}

// PushToScript pushes the payload onto L and returns the number of values
// pushed. Events without a payload push nothing.
func (e Event) PushToScript(L *lua.LState) int {
	if e.data == nil {
		return 0
	}
	return e.data.PushToScript(L)
}

// DataAs returns the payload as T.
func DataAs[T Data](e Event) (T, bool) {
	v, ok := e.data.(T)
	return v, ok
}
