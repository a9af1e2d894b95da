// Package graphics defines the graphics collaborator used by the program
// loop and its terminal implementation.
package graphics

import "github.com/gdamore/tcell/v2"

// System is the window-level graphics service.
type System interface {
	// WindowSize returns the drawable area in cells.
	WindowSize() (width, height int)

	// Context returns the context used for a render pass.
	Context() Context
}

// Context is the target of one render pass. The program clears it before
// dispatching Render and swaps it afterwards.
type Context interface {
	Clear()
	SwapBuffers()
	Draw(d Drawable)
}

// Drawable is anything that can paint itself onto a Canvas.
type Drawable interface {
	Draw(c Canvas)
}

// Canvas is a cell grid.
type Canvas interface {
	Size() (width, height int)
	SetCell(x, y int, mainc rune, combining []rune, style tcell.Style)
}

// DrawFunc adapts a function to Drawable.
type DrawFunc func(c Canvas)

// Draw calls f(c).
func (f DrawFunc) Draw(c Canvas) {
	f(c)
}
