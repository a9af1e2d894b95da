package input

import (
	"github.com/gdamore/tcell/v2"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/dusk/internal/event"
)

// Input event IDs.
var (
	KeyPress  = event.Register("KeyPress")
	TextInput = event.Register("TextInput")
	Resize    = event.Register("Resize")
)

// KeyData is the payload of KeyPress. It is an owned value.
type KeyData struct {
	Key  Key
	Rune rune
	Mods tcell.ModMask
}

// Clone implements event.Data.
func (d *KeyData) Clone() event.Data {
	c := *d
	return &c
}

// PushToScript pushes the key code and a modifiers table.
func (d *KeyData) PushToScript(L *lua.LState) int {
	mods := L.NewTable()
	mods.RawSetString("shift", lua.LBool(d.Mods&tcell.ModShift != 0))
	mods.RawSetString("ctrl", lua.LBool(d.Mods&tcell.ModCtrl != 0))
	mods.RawSetString("alt", lua.LBool(d.Mods&tcell.ModAlt != 0))

	L.Push(lua.LNumber(d.Key))
	L.Push(mods)
	return 2
}

// TextData is the payload of TextInput: one printable character.
type TextData struct {
	Rune rune
}

// Clone implements event.Data.
func (d *TextData) Clone() event.Data {
	return &TextData{Rune: d.Rune}
}

// PushToScript pushes the character as a string.
func (d *TextData) PushToScript(L *lua.LState) int {
	L.Push(lua.LString(string(d.Rune)))
	return 1
}

// ResizeData is the payload of Resize.
type ResizeData struct {
	Width, Height int
}

// Clone implements event.Data.
func (d *ResizeData) Clone() event.Data {
	return &ResizeData{Width: d.Width, Height: d.Height}
}

// PushToScript pushes width and height.
func (d *ResizeData) PushToScript(L *lua.LState) int {
	L.Push(lua.LNumber(d.Width))
	L.Push(lua.LNumber(d.Height))
	return 2
}
