package graphics

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/dusk/internal/script"
)

func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	term := NewTerminalWithScreen(sim)
	if err := term.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(term.Shutdown)
	return term, sim
}

// rowText returns the runes of row y from x0 for n cells.
func rowText(sim tcell.SimulationScreen, x0, y, n int) string {
	cells, w, _ := sim.GetContents()
	out := make([]rune, 0, n)
	for x := x0; x < x0+n; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			out = append(out, ' ')
			continue
		}
		out = append(out, c.Runes[0])
	}
	return string(out)
}

func TestTerminal_DrawAndSwap(t *testing.T) {
	term, sim := newSimTerminal(t)

	if w, h := term.WindowSize(); w != 80 || h != 25 {
		t.Fatalf("WindowSize() = %d, %d; want 80, 25", w, h)
	}

	ctx := term.Context()
	ctx.Clear()
	ctx.Draw(Text{X: 2, Y: 1, Content: "Hello", Style: tcell.StyleDefault})
	ctx.SwapBuffers()

	if got := rowText(sim, 2, 1, 5); got != "Hello" {
		t.Errorf("row 1 = %q, want Hello", got)
	}

	// off-screen cells are ignored
	ctx.Draw(Text{X: 78, Y: 24, Content: "abcdef"})
	ctx.Draw(Text{X: -3, Y: -1, Content: "zzz"})
	ctx.SwapBuffers()
	if got := rowText(sim, 78, 24, 2); got != "ab" {
		t.Errorf("clipped row = %q, want ab", got)
	}
}

func TestTerminal_TryEvent(t *testing.T) {
	term, sim := newSimTerminal(t)

	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	waitKey(t, term, 'q')
}

// waitKey polls TryEvent until a key with rune r arrives.
func waitKey(t *testing.T, term *Terminal, r rune) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		ev, ok := term.TryEvent()
		if ok {
			if key, isKey := ev.(*tcell.EventKey); isKey && key.Rune() == r {
				return
			}
			continue
		}
		if time.Now().After(deadline) {
			t.Fatalf("key %q never arrived", r)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestTerminal_ShutdownAndReinit(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	term := NewTerminalWithScreen(sim)

	if ev, ok := term.TryEvent(); ok {
		t.Errorf("TryEvent() before Init = %v, true", ev)
	}

	if err := term.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	term.Shutdown()

	// The pump closes its channel shortly after Shutdown; a closed
	// channel must never be reported as an event.
	deadline := time.Now().Add(100 * time.Millisecond)
	for time.Now().Before(deadline) {
		if ev, ok := term.TryEvent(); ok {
			t.Fatalf("TryEvent() after Shutdown = %v, true", ev)
		}
		time.Sleep(time.Millisecond)
	}

	if err := term.Init(); err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	defer term.Shutdown()

	sim.InjectKey(tcell.KeyRune, 'r', tcell.ModNone)
	waitKey(t, term, 'r')
}

func TestText_Width(t *testing.T) {
	tests := []struct {
		content string
		want    int
	}{
		{"", 0},
		{"Hello, World", 12},
		{"世界", 4},
		{"é", 1},
	}

	for _, tt := range tests {
		if got := (Text{Content: tt.content}).Width(); got != tt.want {
			t.Errorf("Width(%q) = %d, want %d", tt.content, got, tt.want)
		}
	}
}

type recordCanvas struct {
	cells map[[2]int]rune
}

func (r *recordCanvas) Size() (int, int) { return 80, 25 }

func (r *recordCanvas) SetCell(x, y int, mainc rune, _ []rune, _ tcell.Style) {
	r.cells[[2]int{x, y}] = mainc
}

func TestText_WideClusters(t *testing.T) {
	c := &recordCanvas{cells: make(map[[2]int]rune)}
	Text{X: 0, Y: 0, Content: "世a"}.Draw(c)

	if c.cells[[2]int{0, 0}] != '世' || c.cells[[2]int{2, 0}] != 'a' {
		t.Errorf("cells = %v", c.cells)
	}
	if _, ok := c.cells[[2]int{1, 0}]; ok {
		t.Error("wide cluster's second cell was written")
	}
}

func TestCentered(t *testing.T) {
	tests := []struct {
		total, width, want int
	}{
		{80, 12, 34},
		{10, 10, 0},
		{5, 12, 0},
	}
	for _, tt := range tests {
		if got := Centered(tt.total, tt.width); got != tt.want {
			t.Errorf("Centered(%d, %d) = %d, want %d", tt.total, tt.width, got, tt.want)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input   string
		want    tcell.Color
		wantErr bool
	}{
		{"#ff0000", tcell.NewRGBColor(255, 0, 0), false},
		{"#0F0", tcell.NewRGBColor(0, 255, 0), false},
		{"red", tcell.ColorRed, false},
		{" Blue ", tcell.ColorBlue, false},
		{"#zzzzzz", tcell.ColorDefault, true},
		{"notacolor", tcell.ColorDefault, true},
		{"", tcell.ColorDefault, true},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestHueColor_Wraps(t *testing.T) {
	if HueColor(360) != HueColor(0) {
		t.Error("HueColor(360) != HueColor(0)")
	}
	if HueColor(-120) != HueColor(240) {
		t.Error("HueColor(-120) != HueColor(240)")
	}
	if HueColor(0) == HueColor(180) {
		t.Error("opposite hues produced the same color")
	}
}

func TestRegisterScript(t *testing.T) {
	term, sim := newSimTerminal(t)
	h := script.New()
	defer h.Close()

	if err := RegisterScript(h, term); err != nil {
		t.Fatalf("RegisterScript() error = %v", err)
	}

	err := h.RunString(`
		w, h = dusk.window_size()
		dusk.draw_text(0, 0, "lua", "#00ff00")
	`)
	if err != nil {
		t.Fatal(err)
	}
	term.SwapBuffers()

	L := h.LState()
	if L.GetGlobal("w") != lua.LNumber(80) || L.GetGlobal("h") != lua.LNumber(25) {
		t.Errorf("window_size = %v, %v", L.GetGlobal("w"), L.GetGlobal("h"))
	}
	if got := rowText(sim, 0, 0, 3); got != "lua" {
		t.Errorf("row 0 = %q, want lua", got)
	}

	if err := h.RunString(`dusk.draw_text(0, 0, "x", "nocolor")`); err == nil {
		t.Error("draw_text with a bad color should fail")
	}
}
