package program

import (
	"sync/atomic"
	"time"
)

// Metrics tracks loop performance. All fields are atomics so a snapshot
// can be taken from any goroutine.
type Metrics struct {
	iterations     atomic.Uint64
	updateTotalNs  atomic.Int64
	renders        atomic.Uint64
	renderTotalNs  atomic.Int64
	renderMaxNs    atomic.Int64
	dispatchErrors atomic.Uint64
}

// RecordUpdate records the wall time of one Update dispatch.
func (m *Metrics) RecordUpdate(d time.Duration) {
	m.iterations.Add(1)
	m.updateTotalNs.Add(d.Nanoseconds())
}

// RecordRender records the wall time of one render pass.
func (m *Metrics) RecordRender(d time.Duration) {
	ns := d.Nanoseconds()
	m.renders.Add(1)
	m.renderTotalNs.Add(ns)

	for {
		old := m.renderMaxNs.Load()
		if ns <= old || m.renderMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordDispatchError counts a failed dispatch.
func (m *Metrics) RecordDispatchError() {
	m.dispatchErrors.Add(1)
}

// Snapshot returns the current values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	iterations := m.iterations.Load()
	renders := m.renders.Load()

	var avgUpdate, avgRender time.Duration
	if iterations > 0 {
		avgUpdate = time.Duration(m.updateTotalNs.Load() / int64(iterations))
	}
	if renders > 0 {
		avgRender = time.Duration(m.renderTotalNs.Load() / int64(renders))
	}

	return MetricsSnapshot{
		Iterations:     iterations,
		Renders:        renders,
		DispatchErrors: m.dispatchErrors.Load(),
		AvgUpdate:      avgUpdate,
		AvgRender:      avgRender,
		MaxRender:      time.Duration(m.renderMaxNs.Load()),
	}
}

// MetricsSnapshot is a point-in-time view of Metrics.
type MetricsSnapshot struct {
	Iterations     uint64
	Renders        uint64
	DispatchErrors uint64
	AvgUpdate      time.Duration
	AvgRender      time.Duration
	MaxRender      time.Duration
}

// UpdatesPerRender returns how many updates ran per rendered frame.
func (s MetricsSnapshot) UpdatesPerRender() float64 {
	if s.Renders == 0 {
		return 0
	}
	return float64(s.Iterations) / float64(s.Renders)
}
