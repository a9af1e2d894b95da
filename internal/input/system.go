package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/dusk/internal/event"
	"github.com/dshills/dusk/internal/logging"
	"github.com/dshills/dusk/internal/script"
)

// DefaultMaxPerPoll bounds how many terminal events one Poll handles, so
// a flood of input cannot starve the frame.
const DefaultMaxPerPoll = 64

// Source yields pending terminal events without blocking.
type Source interface {
	TryEvent() (tcell.Event, bool)
}

// System turns terminal events into KeyPress, TextInput and Resize
// dispatches on the shared dispatcher.
type System struct {
	dispatcher *event.Dispatcher
	source     Source
	logger     *logging.Logger
	maxPerPoll int
}

// Option configures a System.
type Option func(*System)

// WithLogger sets the logger for listener failures.
func WithLogger(l *logging.Logger) Option {
	return func(s *System) {
		s.logger = l
	}
}

// WithMaxPerPoll sets the per-poll event limit.
func WithMaxPerPoll(n int) Option {
	return func(s *System) {
		if n > 0 {
			s.maxPerPoll = n
		}
	}
}

// NewSystem creates an input system. A nil source makes Poll a no-op,
// which is what headless programs use.
func NewSystem(d *event.Dispatcher, src Source, opts ...Option) *System {
	s := &System{
		dispatcher: d,
		source:     src,
		logger:     logging.Null(),
		maxPerPoll: DefaultMaxPerPoll,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddEventListener registers a listener on the shared dispatcher.
func (s *System) AddEventListener(id event.ID, owner any, fn event.Listener) error {
	return s.dispatcher.AddEventListener(id, owner, fn)
}

// RemoveEventListener removes a listener from the shared dispatcher.
func (s *System) RemoveEventListener(id event.ID, owner any, fn event.Listener) {
	s.dispatcher.RemoveEventListener(id, owner, fn)
}

// Attach makes the system poll on every Update.
func (s *System) Attach() error {
	return s.dispatcher.AddEventListener(event.Update, s, s.onUpdate)
}

// Detach undoes Attach.
func (s *System) Detach() {
	s.dispatcher.RemoveOwner(s)
}

// onUpdate polls input. Input listener failures are logged here so they
// do not abort the rest of the Update dispatch.
func (s *System) onUpdate(event.Event) error {
	if err := s.Poll(); err != nil {
		s.logger.Warn("input dispatch: %v", err)
	}
	return nil
}

// Poll drains pending terminal events and dispatches them. Every event is
// handled; the first dispatch failure is returned.
func (s *System) Poll() error {
	if s.source == nil {
		return nil
	}

	var first error
	for i := 0; i < s.maxPerPoll; i++ {
		ev, ok := s.source.TryEvent()
		if !ok {
			break
		}
		if err := s.handle(ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (s *System) handle(ev tcell.Event) error {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return s.handleKey(e)
	case *tcell.EventResize:
		w, h := e.Size()
		return s.dispatcher.Dispatch(event.WithData(Resize, &ResizeData{Width: w, Height: h}))
	}
	return nil
}

func (s *System) handleKey(e *tcell.EventKey) error {
	var first error

	if key := TranslateKey(e); key != Invalid {
		data := &KeyData{Key: key, Rune: e.Rune(), Mods: e.Modifiers()}
		first = s.dispatcher.Dispatch(event.WithData(KeyPress, data))
	}

	if e.Key() == tcell.KeyRune && unicode.IsPrint(e.Rune()) {
		if err := s.dispatcher.Dispatch(event.WithData(TextInput, &TextData{Rune: e.Rune()})); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// RegisterScript installs dusk.keys (name to code) and
// dusk.key_name(code).
func RegisterScript(h *script.Host) error {
	L := h.LState()
	keys := L.NewTable()
	for name, k := range Keys() {
		keys.RawSetString(name, lua.LNumber(k))
	}
	if err := h.RegisterValue("dusk.keys", keys); err != nil {
		return err
	}

	return h.RegisterFunction("dusk.key_name", func(L *lua.LState) int {
		L.Push(lua.LString(Key(L.CheckInt(1)).String()))
		return 1
	})
}
