package program

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/dusk/internal/event"
	"github.com/dshills/dusk/internal/graphics"
)

// FrameTimeInfo is the timing snapshot delivered with every Update. The
// loop owns it and rewrites it each iteration; listeners only read it.
type FrameTimeInfo struct {
	CurrentFPS          float64
	TargetFPS           float64
	ElapsedSeconds      float64
	ElapsedMilliseconds float64
	TotalSeconds        float64
	TotalMilliseconds   float64

	// Delta is ElapsedSeconds divided by the fixed update interval: 1.0
	// when the iteration took exactly one nominal frame.
	Delta float64
}

// UpdateData is the Update payload. It borrows the loop's FrameTimeInfo,
// which is only valid during the dispatch; Clone copies it.
type UpdateData struct {
	Info *FrameTimeInfo
}

// Clone implements event.Data.
func (d *UpdateData) Clone() event.Data {
	info := *d.Info
	return &UpdateData{Info: &info}
}

// PushToScript pushes a table with the seven timing fields.
func (d *UpdateData) PushToScript(L *lua.LState) int {
	t := L.NewTable()
	t.RawSetString("CurrentFPS", lua.LNumber(d.Info.CurrentFPS))
	t.RawSetString("TargetFPS", lua.LNumber(d.Info.TargetFPS))
	t.RawSetString("ElapsedSeconds", lua.LNumber(d.Info.ElapsedSeconds))
	t.RawSetString("ElapsedMilliseconds", lua.LNumber(d.Info.ElapsedMilliseconds))
	t.RawSetString("TotalSeconds", lua.LNumber(d.Info.TotalSeconds))
	t.RawSetString("TotalMilliseconds", lua.LNumber(d.Info.TotalMilliseconds))
	t.RawSetString("Delta", lua.LNumber(d.Info.Delta))
	L.Push(t)
	return 1
}

// RenderData is the Render payload: the graphics context of the current
// pass. The context is a borrowed handle; Clone copies the handle, not the
// context.
type RenderData struct {
	Context graphics.Context
}

// Clone implements event.Data.
func (d *RenderData) Clone() event.Data {
	return &RenderData{Context: d.Context}
}

// PushToScript pushes nothing; the context is not visible to scripts.
func (d *RenderData) PushToScript(*lua.LState) int {
	return 0
}
