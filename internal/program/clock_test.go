package program

import (
	"testing"
	"time"
)

func TestManualClock(t *testing.T) {
	start := time.Unix(100, 0)
	c := NewManualClock(start, 10*time.Millisecond)

	if got := c.Now(); !got.Equal(start) {
		t.Errorf("first Now() = %v, want %v", got, start)
	}
	if got := c.Now(); got.Sub(start) != 10*time.Millisecond {
		t.Errorf("second Now() is %v after start, want 10ms", got.Sub(start))
	}

	c.SetStep(0)
	c.Advance(time.Second)
	a, b := c.Now(), c.Now()
	if !a.Equal(b) {
		t.Errorf("zero step clock moved: %v then %v", a, b)
	}
	if got := a.Sub(start); got != time.Second+20*time.Millisecond {
		t.Errorf("clock at %v after start, want 1.02s", got)
	}
}

func TestMetrics(t *testing.T) {
	var m Metrics

	m.RecordUpdate(2 * time.Millisecond)
	m.RecordUpdate(4 * time.Millisecond)
	m.RecordUpdate(6 * time.Millisecond)
	m.RecordRender(5 * time.Millisecond)
	m.RecordRender(1 * time.Millisecond)
	m.RecordDispatchError()

	s := m.Snapshot()
	if s.Iterations != 3 || s.Renders != 2 || s.DispatchErrors != 1 {
		t.Errorf("counts = %+v", s)
	}
	if s.AvgUpdate != 4*time.Millisecond {
		t.Errorf("AvgUpdate = %v, want 4ms", s.AvgUpdate)
	}
	if s.AvgRender != 3*time.Millisecond || s.MaxRender != 5*time.Millisecond {
		t.Errorf("AvgRender = %v, MaxRender = %v", s.AvgRender, s.MaxRender)
	}
	if got := s.UpdatesPerRender(); got != 1.5 {
		t.Errorf("UpdatesPerRender() = %v, want 1.5", got)
	}

	var empty MetricsSnapshot
	if empty.UpdatesPerRender() != 0 {
		t.Error("UpdatesPerRender() on empty snapshot should be 0")
	}
}
