// Package input translates terminal input into dispatched events.
package input

import "strconv"

// Key identifies a physical key independent of the terminal library.
// The numeric values are stable and visible to scripts.
type Key int

// Keys.
const (
	Invalid Key = -1

	A Key = 1
	B Key = 2
	C Key = 3
	D Key = 4
	E Key = 5
	F Key = 6
	G Key = 7
	H Key = 8
	I Key = 9
	J Key = 10
	K Key = 11
	L Key = 12
	M Key = 13
	N Key = 14
	O Key = 15
	P Key = 16
	Q Key = 17
	R Key = 18
	S Key = 19
	T Key = 20
	U Key = 21
	V Key = 22
	W Key = 23
	X Key = 24
	Y Key = 25
	Z Key = 26

	N0 Key = 50
	N1 Key = 51
	N2 Key = 52
	N3 Key = 53
	N4 Key = 54
	N5 Key = 55
	N6 Key = 56
	N7 Key = 57
	N8 Key = 58
	N9 Key = 59

	Dash         Key = 100
	Equal        Key = 101
	Tilde        Key = 102
	LeftBracket  Key = 103
	RightBracket Key = 104
	Semicolon    Key = 105
	Quote        Key = 106
	Backslash    Key = 107
	Period       Key = 108
	Comma        Key = 109
	Slash        Key = 110
	Up           Key = 111
	Down         Key = 112
	Left         Key = 113
	Right        Key = 114
	Backspace    Key = 118
	Tab          Key = 119
	Enter        Key = 120
	Return           = Enter
	Space        Key = 121
	Pause        Key = 122
	PrintScreen  Key = 123

	LeftShift    Key = 124
	RightShift   Key = 125
	LeftControl  Key = 126
	RightControl Key = 127
	LeftAlt      Key = 128
	RightAlt     Key = 129
	LeftSuper    Key = 138
	LeftSystem       = LeftSuper
	RightSuper   Key = 139
	RightSystem      = RightSuper

	Insert   Key = 130
	Delete   Key = 131
	Home     Key = 132
	End      Key = 133
	PageUp   Key = 134
	PageDown Key = 135
	Escape   Key = 136
	Menu     Key = 137

	Pad0 Key = 200
	Pad1 Key = 201
	Pad2 Key = 202
	Pad3 Key = 203
	Pad4 Key = 204
	Pad5 Key = 205
	Pad6 Key = 206
	Pad7 Key = 207
	Pad8 Key = 208
	Pad9 Key = 209

	Add      Key = 210
	Subtract Key = 211
	Multiply Key = 212
	Divide   Key = 213

	F1  Key = 216
	F2  Key = 217
	F3  Key = 218
	F4  Key = 219
	F5  Key = 220
	F6  Key = 221
	F7  Key = 222
	F8  Key = 223
	F9  Key = 224
	F10 Key = 225
	F11 Key = 226
	F12 Key = 227
	F13 Key = 228
	F14 Key = 229
	F15 Key = 230
)

var keyNames = map[Key]string{
	Invalid: "Invalid",

	Dash: "Dash", Equal: "Equal", Tilde: "Tilde",
	LeftBracket: "LeftBracket", RightBracket: "RightBracket",
	Semicolon: "Semicolon", Quote: "Quote", Backslash: "Backslash",
	Period: "Period", Comma: "Comma", Slash: "Slash",
	Up: "Up", Down: "Down", Left: "Left", Right: "Right",
	Backspace: "Backspace", Tab: "Tab", Enter: "Enter", Space: "Space",
	Pause: "Pause", PrintScreen: "PrintScreen",

	LeftShift: "LeftShift", RightShift: "RightShift",
	LeftControl: "LeftControl", RightControl: "RightControl",
	LeftAlt: "LeftAlt", RightAlt: "RightAlt",
	LeftSuper: "LeftSuper", RightSuper: "RightSuper",

	Insert: "Insert", Delete: "Delete", Home: "Home", End: "End",
	PageUp: "PageUp", PageDown: "PageDown", Escape: "Escape", Menu: "Menu",

	Add: "Add", Subtract: "Subtract", Multiply: "Multiply", Divide: "Divide",
}

// keysByName is the inverse of keyNames plus the generated names and
// aliases.
var keysByName = map[string]Key{
	"Return":      Return,
	"LeftSystem":  LeftSystem,
	"RightSystem": RightSystem,
}

func init() {
	for k := A; k <= Z; k++ {
		keyNames[k] = string(rune('A' + k - A))
	}
	for k := N0; k <= N9; k++ {
		keyNames[k] = "N" + strconv.Itoa(int(k-N0))
	}
	for k := Pad0; k <= Pad9; k++ {
		keyNames[k] = "Pad" + strconv.Itoa(int(k-Pad0))
	}
	for k := F1; k <= F15; k++ {
		keyNames[k] = "F" + strconv.Itoa(int(k-F1)+1)
	}
	for k, name := range keyNames {
		keysByName[name] = k
	}
}

// String returns the key's name, or "Key(N)" for unknown values.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "Key(" + strconv.Itoa(int(k)) + ")"
}

// Valid reports whether k is a named key other than Invalid.
func (k Key) Valid() bool {
	_, ok := keyNames[k]
	return ok && k != Invalid
}

// ParseKey returns the key with the given name. Aliases such as "Return"
// are accepted.
func ParseKey(name string) (Key, bool) {
	k, ok := keysByName[name]
	return k, ok
}

// Keys returns every named key keyed by name, aliases included.
func Keys() map[string]Key {
	out := make(map[string]Key, len(keysByName))
	for name, k := range keysByName {
		out[name] = k
	}
	return out
}
