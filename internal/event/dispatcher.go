package event

import (
	"reflect"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// Listener is a callback invoked with the dispatched event.
type Listener func(evt Event) error

// registration is one entry of a route. Its identity is the
// (owner, key) pair within the route's ID.
type registration struct {
	owner any
	key   uintptr
	fn    Listener
}

// listenerKey returns the identity of a callback: its code pointer.
// Closures built from the same literal, and method values of the same
// method, share a key; the owner tells them apart.
func listenerKey(fn Listener) uintptr {
	return reflect.ValueOf(fn).Pointer()
}

// Dispatcher routes events to listeners registered per ID.
//
// Dispatch is synchronous and re-entrant: listeners run on the calling
// goroutine in registration order, may add or remove listeners (including
// themselves) and may dispatch further events. Each Dispatch call works on
// a snapshot of the route taken before the first listener runs.
//
// The registry is guarded by a mutex that is never held while a listener
// runs, so registration from other goroutines is safe. The framework
// itself only touches the dispatcher from the loop goroutine.
type Dispatcher struct {
	mu     sync.Mutex
	routes map[ID][]registration

	// Stats
	dispatched  atomic.Uint64
	invocations atomic.Uint64
	failures    atomic.Uint64
	panics      atomic.Uint64
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		routes: make(map[ID][]registration),
	}
}

// AddEventListener registers fn to be called when id is dispatched.
// The owner identifies who registered the callback and takes part in the
// registration's identity; it may be nil and must otherwise be comparable.
//
// Registering the same (id, owner, fn) tuple twice fails with
// ErrDuplicateListener. Callbacks are compared by code pointer, so every
// closure created from one function literal counts as the same fn even
// when it captures different values. Give such closures distinct owners.
func (d *Dispatcher) AddEventListener(id ID, owner any, fn Listener) error {
	if fn == nil {
		return ErrNilListener
	}
	if owner != nil && !reflect.TypeOf(owner).Comparable() {
		return ErrInvalidOwner
	}

	reg := registration{owner: owner, key: listenerKey(fn), fn: fn}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, r := range d.routes[id] {
		if r.key == reg.key && r.owner == owner {
			return ErrDuplicateListener
		}
	}
	d.routes[id] = append(d.routes[id], reg)
	return nil
}

// RemoveEventListener removes the (id, owner, fn) registration.
// Removing a registration that does not exist is a no-op.
func (d *Dispatcher) RemoveEventListener(id ID, owner any, fn Listener) {
	if fn == nil {
		return
	}
	if owner != nil && !reflect.TypeOf(owner).Comparable() {
		return
	}
	key := listenerKey(fn)

	d.mu.Lock()
	defer d.mu.Unlock()

	route := d.routes[id]
	for i, r := range route {
		if r.key == key && r.owner == owner {
			d.setRoute(id, without(route, i))
			return
		}
	}
}

// RemoveOwner removes every registration made by owner across all IDs
// and returns how many were removed.
func (d *Dispatcher) RemoveOwner(owner any) int {
	if owner != nil && !reflect.TypeOf(owner).Comparable() {
		return 0
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	removed := 0
	for id, route := range d.routes {
		kept := make([]registration, 0, len(route))
		for _, r := range route {
			if r.owner == owner {
				removed++
				continue
			}
			kept = append(kept, r)
		}
		if len(kept) != len(route) {
			d.setRoute(id, kept)
		}
	}
	return removed
}

// setRoute stores a route, dropping empty ones. Caller holds d.mu.
func (d *Dispatcher) setRoute(id ID, route []registration) {
	if len(route) == 0 {
		delete(d.routes, id)
		return
	}
	d.routes[id] = route
}

// without returns a new slice with element i removed. The original backing
// array is left untouched.
func without(route []registration, i int) []registration {
	out := make([]registration, 0, len(route)-1)
	out = append(out, route[:i]...)
	return append(out, route[i+1:]...)
}

// snapshot copies the route for id.
func (d *Dispatcher) snapshot(id ID) []registration {
	d.mu.Lock()
	defer d.mu.Unlock()

	route := d.routes[id]
	if len(route) == 0 {
		return nil
	}
	out := make([]registration, len(route))
	copy(out, route)
	return out
}

// Dispatch invokes every listener registered for evt.ID() at the moment
// Dispatch is called, in registration order.
//
// The payload is delivered as is; it is never cloned. If a listener
// returns an error or panics, the remaining listeners of this dispatch are
// skipped and the failure is returned as a *ListenerError or *PanicError.
func (d *Dispatcher) Dispatch(evt Event) error {
	d.dispatched.Add(1)

	for i, reg := range d.snapshot(evt.ID()) {
		if err := d.invoke(i, reg, evt); err != nil {
			d.failures.Add(1)
			return err
		}
	}
	return nil
}

// invoke runs one listener, converting a panic into a PanicError.
func (d *Dispatcher) invoke(index int, reg registration, evt Event) (err error) {
	d.invocations.Add(1)

	defer func() {
		if r := recover(); r != nil {
			d.panics.Add(1)
			err = &PanicError{
				ID:    evt.ID(),
				Index: index,
				Value: r,
				Stack: string(debug.Stack()),
			}
		}
	}()

	if lerr := reg.fn(evt); lerr != nil {
		return &ListenerError{ID: evt.ID(), Index: index, Err: lerr}
	}
	return nil
}

// HasListeners reports whether anything is registered for id.
func (d *Dispatcher) HasListeners(id ID) bool {
	return d.ListenerCount(id) > 0
}

// ListenerCount returns the number of listeners registered for id.
func (d *Dispatcher) ListenerCount(id ID) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.routes[id])
}

// Stats contains dispatcher counters.
type Stats struct {
	// Dispatched is the number of Dispatch calls.
	Dispatched uint64

	// Invocations is the number of listener calls.
	Invocations uint64

	// Failures is the number of dispatches aborted by a listener.
	Failures uint64

	// Panics is the number of recovered listener panics.
	Panics uint64

	// Routes is the number of IDs with at least one listener.
	Routes int
}

// Stats returns a snapshot of the dispatcher counters.
func (d *Dispatcher) Stats() Stats {
	d.mu.Lock()
	routes := len(d.routes)
	d.mu.Unlock()

	return Stats{
		Dispatched:  d.dispatched.Load(),
		Invocations: d.invocations.Load(),
		Failures:    d.failures.Load(),
		Panics:      d.panics.Load(),
		Routes:      routes,
	}
}
