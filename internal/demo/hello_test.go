package demo

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/dshills/dusk/internal/config"
	"github.com/dshills/dusk/internal/event"
	"github.com/dshills/dusk/internal/graphics"
	"github.com/dshills/dusk/internal/input"
	"github.com/dshills/dusk/internal/program"
)

// fakeGraphics is a tiny window that records what is drawn.
type fakeGraphics struct {
	w, h  int
	drawn *[]graphics.Drawable
}

func (g fakeGraphics) WindowSize() (int, int)    { return g.w, g.h }
func (g fakeGraphics) Context() graphics.Context { return g }
func (g fakeGraphics) Clear()                    {}
func (g fakeGraphics) SwapBuffers()              {}
func (g fakeGraphics) Draw(d graphics.Drawable)  { *g.drawn = append(*g.drawn, d) }

func newDemo(t *testing.T, g graphics.System, cfg config.DemoConfig) (*program.Program, *Hello) {
	t.Helper()
	p, err := program.New(program.Options{
		Graphics: g,
		Clock:    program.NewManualClock(time.Unix(0, 0), 20*time.Millisecond),
	})
	if err != nil {
		t.Fatal(err)
	}
	h, err := NewHello(p, cfg, WithRand(rand.New(rand.NewPCG(1, 2))))
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Attach(); err != nil {
		t.Fatal(err)
	}
	return p, h
}

func runFor(t *testing.T, p *program.Program, iterations int) {
	t.Helper()
	n := 0
	counter := func(event.Event) error {
		n++
		if n >= iterations {
			p.Exit()
		}
		return nil
	}
	if err := p.AddEventListener(event.Update, &n, counter); err != nil {
		t.Fatal(err)
	}
	if err := p.Run(); err != nil {
		t.Fatal(err)
	}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func defaultDemo() config.DemoConfig {
	return config.Default().Demo
}

func TestHello_MovesByDelta(t *testing.T) {
	p, h := newDemo(t, nil, defaultDemo())
	runFor(t, p, 2)

	// speed 0.5 with Delta 1.2 per iteration
	x, y := h.Position()
	if !near(x, 1.2) || !near(y, 1.2) {
		t.Errorf("Position() = (%v, %v), want (1.2, 1.2)", x, y)
	}
}

func TestHello_BouncesOffEdges(t *testing.T) {
	var drawn []graphics.Drawable
	g := fakeGraphics{w: 13, h: 2, drawn: &drawn}
	p, h := newDemo(t, g, defaultDemo())
	runFor(t, p, 3)

	vx, vy := h.Velocity()
	if vx != -0.5 || vy != -0.5 {
		t.Errorf("Velocity() = (%v, %v), want (-0.5, -0.5)", vx, vy)
	}
	x, _ := h.Position()
	if !near(x, 0.6) {
		t.Errorf("x = %v, want 0.6", x)
	}
}

func TestHello_DrawsText(t *testing.T) {
	var drawn []graphics.Drawable
	cfg := defaultDemo()
	cfg.Color = "#ff0000"
	p, _ := newDemo(t, fakeGraphics{w: 80, h: 25, drawn: &drawn}, cfg)
	runFor(t, p, 1)

	if len(drawn) != 1 {
		t.Fatalf("drawn %d items, want 1", len(drawn))
	}
	text, ok := drawn[0].(graphics.Text)
	if !ok {
		t.Fatalf("drawn %T, want graphics.Text", drawn[0])
	}
	if text.Content != "Hello, World" || text.X != 0 || text.Y != 0 {
		t.Errorf("text = %+v", text)
	}
	want, _ := graphics.ParseColor("#ff0000")
	if fg, _, _ := text.Style.Decompose(); fg != want {
		t.Errorf("foreground = %v, want %v", fg, want)
	}
}

func TestHello_Keys(t *testing.T) {
	p, h := newDemo(t, nil, defaultDemo())

	press := func(k input.Key) {
		t.Helper()
		if err := p.Dispatch(event.WithData(input.KeyPress, &input.KeyData{Key: k})); err != nil {
			t.Fatal(err)
		}
	}

	press(input.Space)
	if vx, vy := h.Velocity(); vx != -0.5 || vy != -0.5 {
		t.Errorf("after Space Velocity() = (%v, %v)", vx, vy)
	}

	press(input.Enter)
	vx, vy := h.Velocity()
	if math.Abs(vx) > 0.5 || math.Abs(vy) > 0.5 {
		t.Errorf("after Enter Velocity() = (%v, %v), want within speed", vx, vy)
	}

	press(input.Escape)
	updates := 0
	_ = p.AddEventListener(event.Update, nil, func(event.Event) error { updates++; return nil })
	if err := p.Run(); err != nil {
		t.Fatal(err)
	}
	if updates != 0 {
		t.Errorf("Escape did not exit: %d updates ran", updates)
	}
}

func TestHello_Detach(t *testing.T) {
	p, h := newDemo(t, nil, defaultDemo())
	h.Detach()

	for _, id := range []event.ID{event.Update, event.Render, input.KeyPress, event.Exit} {
		if p.HasListeners(id) {
			t.Errorf("%v still has listeners after Detach", id)
		}
	}
	if err := h.Attach(); err != nil {
		t.Errorf("Attach() after Detach error = %v", err)
	}
}

func TestNewHello_BadColor(t *testing.T) {
	p, err := program.New(program.Options{})
	if err != nil {
		t.Fatal(err)
	}
	cfg := defaultDemo()
	cfg.Color = "not-a-color"
	if _, err := NewHello(p, cfg); err == nil {
		t.Error("NewHello() with a bad color should fail")
	}
}
