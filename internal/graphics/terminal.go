package graphics

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// eventBuffer is the number of terminal events held between polls.
const eventBuffer = 64

// Terminal is a tcell-backed System, Context and Canvas. It also feeds
// terminal input events to the input system through TryEvent.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex

	events  chan tcell.Event
	quit    chan struct{}
	running bool
}

// NewTerminal creates a terminal on the process's tty.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen), nil
}

// NewTerminalWithScreen wraps an existing screen, such as a
// tcell.SimulationScreen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// Init initializes the screen and starts pumping its events. A terminal
// may be initialized again after Shutdown.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return nil
	}
	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.HideCursor()

	// The pump closes its channel on Shutdown, so each run gets a new one.
	t.events = make(chan tcell.Event, eventBuffer)
	t.quit = make(chan struct{})
	t.running = true
	go t.screen.ChannelEvents(t.events, t.quit)
	return nil
}

// Shutdown stops the event pump and restores the terminal.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}
	close(t.quit)
	t.running = false
	t.screen.Fini()
}

// Screen returns the underlying tcell screen.
func (t *Terminal) Screen() tcell.Screen {
	return t.screen
}

// WindowSize implements System.
func (t *Terminal) WindowSize() (int, int) {
	return t.Size()
}

// Context implements System. The terminal is its own context.
func (t *Terminal) Context() Context {
	return t
}

// Size implements Canvas.
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// SetCell implements Canvas. Cells outside the screen are ignored.
func (t *Terminal) SetCell(x, y int, mainc rune, combining []rune, style tcell.Style) {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, h := t.screen.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	t.screen.SetContent(x, y, mainc, combining, style)
}

// Clear implements Context.
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

// SwapBuffers implements Context by showing the back buffer.
func (t *Terminal) SwapBuffers() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

// Draw implements Context.
func (t *Terminal) Draw(d Drawable) {
	if d != nil {
		d.Draw(t)
	}
}

// TryEvent returns the next pending terminal event without blocking.
// Resize events also sync the screen to its new size. It reports false
// before Init and after Shutdown.
func (t *Terminal) TryEvent() (tcell.Event, bool) {
	t.mu.Lock()
	events := t.events
	t.mu.Unlock()

	select {
	case ev, open := <-events:
		if !open || ev == nil {
			return nil, false
		}
		if _, ok := ev.(*tcell.EventResize); ok {
			t.mu.Lock()
			t.screen.Sync()
			t.mu.Unlock()
		}
		return ev, true
	default:
		return nil, false
	}
}
