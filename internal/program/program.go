package program

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/dusk/internal/event"
	"github.com/dshills/dusk/internal/graphics"
	"github.com/dshills/dusk/internal/input"
	"github.com/dshills/dusk/internal/logging"
	"github.com/dshills/dusk/internal/script"
)

// DefaultTargetFPS is the frame rate used when Options.TargetFPS is zero.
const DefaultTargetFPS = 60.0

// State is the lifecycle state of a Program.
type State int32

// Program states. A program moves forward only.
const (
	StateConstructed State = iota
	StateRunning
	StateExited
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Options configures a Program.
type Options struct {
	// Graphics renders frames. Nil runs the program headless: render
	// passes are still counted but nothing is cleared, dispatched or swapped.
	Graphics graphics.System

	// Input is polled on every Update. Nil disables input.
	Input input.Source

	// Script, when set, gets the event bridge and the program, graphics
	// and input functions, and is reloaded on Update when its main script
	// changes. The program does not close it.
	Script *script.Host

	// Clock defaults to SystemClock.
	Clock Clock

	// Logger defaults to a null logger.
	Logger *logging.Logger

	// TargetFPS is the render rate. Zero means DefaultTargetFPS.
	TargetFPS float64

	// IdleSleep is slept after every iteration. Zero runs the loop flat out.
	IdleSleep time.Duration
}

// Program drives the fixed-update/variable-render loop and owns the event
// dispatcher that connects every part of an application. Programs are
// explicitly owned; there is no global instance.
type Program struct {
	*event.Dispatcher

	graphics  graphics.System
	input     *input.System
	script    *script.Host
	clock     Clock
	logger    *logging.Logger
	queue     *event.Queue
	metrics   Metrics
	idleSleep time.Duration
	sleep     func(time.Duration)

	state   atomic.Int32
	exiting atomic.Bool
	frames  atomic.Uint64

	mu             sync.RWMutex
	targetFPS      float64
	updateInterval float64 // seconds, 1/targetFPS
	currentFPS     float64
}

// New creates a program.
func New(opts Options) (*Program, error) {
	if opts.TargetFPS == 0 {
		opts.TargetFPS = DefaultTargetFPS
	}
	if !validFPS(opts.TargetFPS) {
		return nil, fmt.Errorf("%w: target fps %v", ErrInvalidArgument, opts.TargetFPS)
	}
	if opts.IdleSleep < 0 {
		return nil, fmt.Errorf("%w: idle sleep %v", ErrInvalidArgument, opts.IdleSleep)
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Null()
	}

	p := &Program{
		Dispatcher: event.NewDispatcher(),
		graphics:   opts.Graphics,
		script:     opts.Script,
		clock:      opts.Clock,
		logger:     opts.Logger.WithComponent("program"),
		queue:      event.NewQueue(),
		idleSleep:  opts.IdleSleep,
		sleep:      time.Sleep,
	}
	p.setTiming(opts.TargetFPS)

	if opts.Input != nil {
		p.input = input.NewSystem(p.Dispatcher, opts.Input,
			input.WithLogger(opts.Logger.WithComponent("input")))
		if err := p.input.Attach(); err != nil {
			return nil, err
		}
	}

	if p.script != nil {
		if err := p.bindScript(p.script); err != nil {
			return nil, fmt.Errorf("bind script: %w", err)
		}
	}

	p.logger.Debug("created at %.1f fps", opts.TargetFPS)
	return p, nil
}

func validFPS(fps float64) bool {
	return fps > 0 && !math.IsNaN(fps) && !math.IsInf(fps, 0)
}

// State returns the lifecycle state.
func (p *Program) State() State {
	return State(p.state.Load())
}

// Running reports whether the loop is running.
func (p *Program) Running() bool {
	return p.State() == StateRunning
}

// Graphics returns the graphics system, or nil when headless.
func (p *Program) Graphics() graphics.System {
	return p.graphics
}

// Headless reports whether the program renders nothing.
func (p *Program) Headless() bool {
	return p.graphics == nil
}

// Input returns the input system, or nil when input is disabled.
func (p *Program) Input() *input.System {
	return p.input
}

// Script returns the script host, or nil.
func (p *Program) Script() *script.Host {
	return p.script
}

// SetTargetFPS changes the render rate. The new rate applies from the next
// iteration. It fails with ErrInvalidArgument for non-positive, NaN or
// infinite rates and leaves the current rate unchanged.
func (p *Program) SetTargetFPS(fps float64) error {
	if !validFPS(fps) {
		return fmt.Errorf("%w: target fps %v", ErrInvalidArgument, fps)
	}
	p.setTiming(fps)
	return nil
}

func (p *Program) setTiming(fps float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.targetFPS = fps
	p.updateInterval = 1.0 / fps
}

// timing returns target fps, update interval and current fps together.
func (p *Program) timing() (target, interval, current float64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.targetFPS, p.updateInterval, p.currentFPS
}

// TargetFPS returns the render rate.
func (p *Program) TargetFPS() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.targetFPS
}

// UpdateInterval returns the fixed update interval, 1/TargetFPS.
func (p *Program) UpdateInterval() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return time.Duration(p.updateInterval * float64(time.Second))
}

// CurrentFPS returns the frame rate measured at the last render pass.
func (p *Program) CurrentFPS() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.currentFPS
}

// FrameCount returns the number of render passes so far.
func (p *Program) FrameCount() uint64 {
	return p.frames.Load()
}

// Metrics returns a snapshot of the loop metrics.
func (p *Program) Metrics() MetricsSnapshot {
	return p.metrics.Snapshot()
}

// Exit asks the loop to stop. The current iteration completes, including
// its render pass if one is due, then Exit is dispatched and Run returns.
// Exit may be called from any goroutine and before Run, in which case Run
// performs no iterations.
func (p *Program) Exit() {
	p.exiting.Store(true)
}

// Post queues an event for dispatch at the start of the next iteration.
// The event is cloned, so borrowed payloads are safe to post. Post may be
// called from any goroutine.
func (p *Program) Post(evt event.Event) {
	p.queue.Post(evt)
}

// reportDispatch logs and counts a failed dispatch. The loop continues.
func (p *Program) reportDispatch(what string, err error) {
	p.metrics.RecordDispatchError()
	p.logger.Warn("%s dispatch failed: %v", what, err)

	var perr *event.PanicError
	if errors.As(err, &perr) {
		p.logger.Debug("listener panic stack:\n%s", perr.Stack)
	}
}
