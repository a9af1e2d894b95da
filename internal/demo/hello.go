// Package demo contains the bouncing "Hello, World" program.
package demo

import (
	"math/rand/v2"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/dusk/internal/config"
	"github.com/dshills/dusk/internal/event"
	"github.com/dshills/dusk/internal/graphics"
	"github.com/dshills/dusk/internal/input"
	"github.com/dshills/dusk/internal/logging"
	"github.com/dshills/dusk/internal/program"
)

// Size used for bouncing when the program is headless.
const (
	headlessWidth  = 80
	headlessHeight = 25
)

// Hello bounces a line of text around the window. Space reverses its
// direction, Enter picks a random velocity and color, Escape and Ctrl+Q
// exit.
type Hello struct {
	p      *program.Program
	logger *logging.Logger
	rng    *rand.Rand

	text   string
	width  int
	speed  float64
	x, y   float64
	vx, vy float64
	style  tcell.Style
	fixed  bool // color came from config
}

// Option configures Hello.
type Option func(*Hello)

// WithRand sets the random source used by Enter.
func WithRand(r *rand.Rand) Option {
	return func(h *Hello) {
		h.rng = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(h *Hello) {
		h.logger = l
	}
}

// NewHello creates the demo for p. It does nothing until Attach.
func NewHello(p *program.Program, cfg config.DemoConfig, opts ...Option) (*Hello, error) {
	h := &Hello{
		p:      p,
		logger: logging.Null(),
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		text:   cfg.Text,
		speed:  cfg.Speed,
		vx:     cfg.Speed,
		vy:     cfg.Speed,
		style:  tcell.StyleDefault,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.width = graphics.Text{Content: h.text}.Width()

	if cfg.Color != "" {
		c, err := graphics.ParseColor(cfg.Color)
		if err != nil {
			return nil, err
		}
		h.style = h.style.Foreground(c)
		h.fixed = true
	} else {
		h.style = h.style.Foreground(graphics.HueColor(h.rng.Float64() * 360))
	}
	return h, nil
}

// Attach registers the demo's listeners.
func (h *Hello) Attach() error {
	listeners := []struct {
		id event.ID
		fn event.Listener
	}{
		{event.Update, h.onUpdate},
		{event.Render, h.onRender},
		{input.KeyPress, h.onKeyPress},
		{event.Exit, h.onExit},
	}
	for _, l := range listeners {
		if err := h.p.AddEventListener(l.id, h, l.fn); err != nil {
			h.Detach()
			return err
		}
	}
	return nil
}

// Detach removes the demo's listeners.
func (h *Hello) Detach() {
	h.p.RemoveOwner(h)
}

// Position returns the text position in cells.
func (h *Hello) Position() (x, y float64) {
	return h.x, h.y
}

// Velocity returns the velocity in cells per fixed update.
func (h *Hello) Velocity() (vx, vy float64) {
	return h.vx, h.vy
}

func (h *Hello) windowSize() (int, int) {
	if g := h.p.Graphics(); g != nil {
		return g.WindowSize()
	}
	return headlessWidth, headlessHeight
}

func (h *Hello) onUpdate(evt event.Event) error {
	u, ok := event.DataAs[*program.UpdateData](evt)
	if !ok {
		return nil
	}

	w, ht := h.windowSize()

	if h.x < 0 {
		h.vx = h.speed
	} else if h.x+float64(h.width) > float64(w) {
		h.vx = -h.speed
	}
	if h.y < 0 {
		h.vy = h.speed
	} else if h.y+1 > float64(ht) {
		h.vy = -h.speed
	}

	h.x += h.vx * u.Info.Delta
	h.y += h.vy * u.Info.Delta
	return nil
}

func (h *Hello) onRender(evt event.Event) error {
	r, ok := event.DataAs[*program.RenderData](evt)
	if !ok {
		return nil
	}
	r.Context.Draw(graphics.Text{
		X:       int(h.x),
		Y:       int(h.y),
		Content: h.text,
		Style:   h.style,
	})
	return nil
}

func (h *Hello) onKeyPress(evt event.Event) error {
	k, ok := event.DataAs[*input.KeyData](evt)
	if !ok {
		return nil
	}

	switch {
	case k.Key == input.Space:
		h.vx, h.vy = -h.vx, -h.vy
	case k.Key == input.Enter:
		h.vx = (h.rng.Float64()*2 - 1) * h.speed
		h.vy = (h.rng.Float64()*2 - 1) * h.speed
		if !h.fixed {
			h.style = h.style.Foreground(graphics.HueColor(h.rng.Float64() * 360))
		}
	case k.Key == input.Escape, k.Key == input.Q && k.Mods&tcell.ModCtrl != 0:
		h.p.Exit()
	}
	return nil
}

func (h *Hello) onExit(event.Event) error {
	x, y := h.Position()
	h.logger.Info("stopped at (%.1f, %.1f) after %d frames", x, y, h.p.FrameCount())
	return nil
}
