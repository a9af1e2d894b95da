package program

import (
	"time"

	"github.com/dshills/dusk/internal/event"
)

// loopState is the state carried between iterations of one Run.
type loopState struct {
	last        time.Time
	sinceRender float64 // seconds since the last render pass
	info        FrameTimeInfo
	update      UpdateData
}

// Run runs the loop on the calling goroutine until Exit is called, then
// dispatches Exit once and returns. A program runs at most once.
func (p *Program) Run() error {
	if !p.state.CompareAndSwap(int32(StateConstructed), int32(StateRunning)) {
		if p.State() == StateRunning {
			return ErrAlreadyRunning
		}
		return ErrExited
	}

	p.logger.Info("running at %.1f fps (headless=%t)", p.TargetFPS(), p.Headless())

	ls := &loopState{last: p.clock.Now()}
	ls.update.Info = &ls.info

	for !p.exiting.Load() {
		p.iterate(ls)
		if p.idleSleep > 0 {
			p.sleep(p.idleSleep)
		}
	}

	if err := p.Dispatch(event.New(event.Exit)); err != nil {
		p.reportDispatch(event.Exit.String(), err)
	}
	p.state.Store(int32(StateExited))

	p.logger.Info("exited after %d frames", p.FrameCount())
	return nil
}

// iterate runs one loop iteration: sample the clock, update timing,
// flush posted events, dispatch Update and render if a frame is due.
func (p *Program) iterate(ls *loopState) {
	now := p.clock.Now()
	elapsed := now.Sub(ls.last)
	ls.last = now

	target, interval, current := p.timing()

	info := &ls.info
	info.CurrentFPS = current
	info.TargetFPS = target
	info.ElapsedSeconds = elapsed.Seconds()
	info.ElapsedMilliseconds = float64(elapsed) / float64(time.Millisecond)
	info.TotalSeconds += info.ElapsedSeconds
	info.TotalMilliseconds += info.ElapsedMilliseconds
	info.Delta = info.ElapsedSeconds / interval

	ls.sinceRender += info.ElapsedSeconds

	if err := p.queue.Flush(p.Dispatcher); err != nil {
		p.reportDispatch("posted event", err)
	}

	start := time.Now()
	if err := p.Dispatch(event.Borrow(event.Update, &ls.update)); err != nil {
		p.reportDispatch(event.Update.String(), err)
	}
	p.metrics.RecordUpdate(time.Since(start))

	if ls.sinceRender >= interval {
		p.render()
		p.frames.Add(1)

		p.mu.Lock()
		p.currentFPS = (interval / ls.sinceRender) * target
		p.mu.Unlock()

		ls.sinceRender = 0
	}
}

// render performs one render pass: clear, dispatch Render, swap.
func (p *Program) render() {
	if p.graphics == nil {
		return
	}

	start := time.Now()
	ctx := p.graphics.Context()

	ctx.Clear()
	if err := p.Dispatch(event.Borrow(event.Render, &RenderData{Context: ctx})); err != nil {
		p.reportDispatch(event.Render.String(), err)
	}
	ctx.SwapBuffers()

	p.metrics.RecordRender(time.Since(start))
}
