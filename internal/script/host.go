package script

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/dusk/internal/event"
	"github.com/dshills/dusk/internal/logging"
)

// Host owns a Lua state and the bridge between it and the event system.
//
// gopher-lua's LState is not goroutine-safe. Every method except Close and
// Changed must be called from the goroutine that runs the program loop.
// Script code may call back into Go, which may dispatch events that run
// script listeners, so no lock is held while Lua executes.
type Host struct {
	l      *lua.LState
	logger *logging.Logger

	mu     sync.Mutex
	closed bool

	// Bridge
	dispatcher *event.Dispatcher
	subs       map[string]*subscription
	events     *lua.LTable

	// Reload
	mainPath string
	watcher  *fsnotify.Watcher
	dirty    atomic.Bool
	done     chan struct{}
	wg       sync.WaitGroup
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger used for script output and reload messages.
func WithLogger(l *logging.Logger) Option {
	return func(h *Host) {
		h.logger = l
	}
}

// New creates a host with only the safe standard libraries opened.
func New(opts ...Option) *Host {
	h := &Host{
		logger: logging.Null(),
		subs:   make(map[string]*subscription),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.l = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(h.l)
	h.l.SetGlobal("print", h.l.NewFunction(h.print))

	return h
}

// openSafeLibraries opens the libraries that cannot reach the host system.
// io, os, debug and package stay closed.
func openSafeLibraries(L *lua.LState) {
	libs := []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	// Each opener returns its module table; calling through the VM keeps
	// those off the stack.
	for _, lib := range libs {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	for _, name := range []string{"dofile", "loadfile"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// print routes Lua's print through the logger.
func (h *Host) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	h.logger.Info("%s", strings.Join(parts, "\t"))
	return 0
}

// LState returns the underlying Lua state for building values such as
// tables. It must only be used from the loop goroutine.
func (h *Host) LState() *lua.LState {
	return h.l
}

// IsClosed reports whether Close has been called.
func (h *Host) IsClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// RegisterFunction exposes fn to scripts under name. A dotted name such as
// "dusk.exit" places the function in nested module tables, creating them
// as needed; a plain name sets a global.
func (h *Host) RegisterFunction(name string, fn lua.LGFunction) error {
	if h.IsClosed() {
		return ErrClosed
	}
	if fn == nil {
		return fmt.Errorf("%w: nil function for %q", ErrInvalidName, name)
	}
	return h.RegisterValue(name, h.l.NewFunction(fn))
}

// RegisterValue sets value under a plain or dotted name.
func (h *Host) RegisterValue(name string, value lua.LValue) error {
	if h.IsClosed() {
		return ErrClosed
	}

	parts, err := splitName(name)
	if err != nil {
		return err
	}

	if len(parts) == 1 {
		h.l.SetGlobal(parts[0], value)
		return nil
	}

	tbl, err := h.module(parts[:len(parts)-1], true)
	if err != nil {
		return fmt.Errorf("register %q: %w", name, err)
	}
	tbl.RawSetString(parts[len(parts)-1], value)
	return nil
}

// module walks (and optionally creates) the tables named by path.
func (h *Host) module(path []string, create bool) (*lua.LTable, error) {
	cur := h.l.GetGlobal(path[0])
	tbl, ok := cur.(*lua.LTable)
	if !ok {
		if cur != lua.LNil || !create {
			return nil, fmt.Errorf("%w: %s", ErrNameConflict, path[0])
		}
		tbl = h.l.NewTable()
		h.l.SetGlobal(path[0], tbl)
	}

	for i, seg := range path[1:] {
		next := tbl.RawGetString(seg)
		child, ok := next.(*lua.LTable)
		if !ok {
			if next != lua.LNil || !create {
				return nil, fmt.Errorf("%w: %s", ErrNameConflict, strings.Join(path[:i+2], "."))
			}
			child = h.l.NewTable()
			tbl.RawSetString(seg, child)
		}
		tbl = child
	}
	return tbl, nil
}

// lookup resolves a plain or dotted name to a value.
func (h *Host) lookup(name string) (lua.LValue, error) {
	parts, err := splitName(name)
	if err != nil {
		return lua.LNil, err
	}
	if len(parts) == 1 {
		return h.l.GetGlobal(parts[0]), nil
	}
	tbl, err := h.module(parts[:len(parts)-1], false)
	if err != nil {
		return lua.LNil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return tbl.RawGetString(parts[len(parts)-1]), nil
}

func splitName(name string) ([]string, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	parts := strings.Split(name, ".")
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	return parts, nil
}

// RunFile executes a Lua file.
func (h *Host) RunFile(path string) error {
	if h.IsClosed() {
		return ErrClosed
	}
	if err := h.protect(func() error { return h.l.DoFile(path) }); err != nil {
		return &Error{Op: "run", Source: path, Err: err}
	}
	return nil
}

// RunString executes a chunk of Lua code.
func (h *Host) RunString(code string) error {
	if h.IsClosed() {
		return ErrClosed
	}
	if err := h.protect(func() error { return h.l.DoString(code) }); err != nil {
		return &Error{Op: "run", Err: err}
	}
	return nil
}

// protect converts a Go panic escaping the Lua VM into an error.
func (h *Host) protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Call calls the function stored under a plain or dotted name and returns
// its results. It returns an empty slice, not nil, when nothing is returned.
func (h *Host) Call(name string, args ...lua.LValue) ([]lua.LValue, error) {
	if h.IsClosed() {
		return nil, ErrClosed
	}

	fn, err := h.lookup(name)
	if err != nil {
		return nil, err
	}
	if fn == lua.LNil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if fn.Type() != lua.LTFunction {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotFunction, name, fn.Type())
	}

	L := h.l
	top := L.GetTop()
	L.Push(fn)
	for _, arg := range args {
		L.Push(arg)
	}

	if err := h.protect(func() error { return L.PCall(len(args), lua.MultRet, nil) }); err != nil {
		L.SetTop(top)
		return nil, &Error{Op: "call", Source: name, Err: err}
	}

	n := L.GetTop() - top
	results := make([]lua.LValue, n)
	for i := 0; i < n; i++ {
		results[i] = L.Get(top + i + 1)
	}
	L.SetTop(top)
	return results, nil
}

// Close stops the reload watcher, removes every script listener from the
// bound dispatcher and releases the Lua state. Close is idempotent.
func (h *Host) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()

	var err error
	if h.watcher != nil {
		close(h.done)
		err = h.watcher.Close()
		h.wg.Wait()
	}

	h.dropSubscriptions()
	h.l.Close()
	return err
}
