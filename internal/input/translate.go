package input

import "github.com/gdamore/tcell/v2"

// specialKeys maps tcell's named keys to Keys.
var specialKeys = map[tcell.Key]Key{
	tcell.KeyUp:        Up,
	tcell.KeyDown:      Down,
	tcell.KeyLeft:      Left,
	tcell.KeyRight:     Right,
	tcell.KeyBackspace: Backspace,
	tcell.KeyDEL:       Backspace,
	tcell.KeyTab:       Tab,
	tcell.KeyBacktab:   Tab,
	tcell.KeyEnter:     Enter,
	tcell.KeyLF:        Enter,
	tcell.KeyEscape:    Escape,
	tcell.KeyPause:     Pause,
	tcell.KeyPrint:     PrintScreen,
	tcell.KeyInsert:    Insert,
	tcell.KeyDelete:    Delete,
	tcell.KeyHome:      Home,
	tcell.KeyEnd:       End,
	tcell.KeyPgUp:      PageUp,
	tcell.KeyPgDn:      PageDown,
	tcell.KeyMenu:      Menu,
	tcell.KeyCtrlSpace: Space,
}

// runeKeys maps printable runes to the key that produces them on a US
// layout. Shifted symbols map to their unshifted key.
var runeKeys = map[rune]Key{
	' ': Space,
	'-': Dash, '_': Dash,
	'=': Equal,
	'`': Tilde, '~': Tilde,
	'[': LeftBracket, '{': LeftBracket,
	']': RightBracket, '}': RightBracket,
	';': Semicolon, ':': Semicolon,
	'\'': Quote, '"': Quote,
	'\\': Backslash, '|': Backslash,
	'.': Period, '>': Period,
	',': Comma, '<': Comma,
	'/': Slash, '?': Slash,
	'+': Add,
	'*': Multiply,
	')': N0, '!': N1, '@': N2, '#': N3, '$': N4,
	'%': N5, '^': N6, '&': N7, '(': N9,
}

// RuneKey returns the key for a printable rune, or Invalid.
func RuneKey(r rune) Key {
	switch {
	case r >= 'a' && r <= 'z':
		return A + Key(r-'a')
	case r >= 'A' && r <= 'Z':
		return A + Key(r-'A')
	case r >= '0' && r <= '9':
		return N0 + Key(r-'0')
	}
	if k, ok := runeKeys[r]; ok {
		return k
	}
	return Invalid
}

// TranslateKey converts a tcell key event to a Key. Control chords such as
// Ctrl+C translate to their letter; the modifier stays on the event.
func TranslateKey(ev *tcell.EventKey) Key {
	k := ev.Key()
	switch {
	case k == tcell.KeyRune:
		return RuneKey(ev.Rune())
	case k >= tcell.KeyF1 && k <= tcell.KeyF15:
		return F1 + Key(k-tcell.KeyF1)
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return A + Key(k-tcell.KeyCtrlA)
	}

	if key, ok := specialKeys[k]; ok {
		return key
	}

	// Raw control characters carry their letter as the rune.
	if ev.Modifiers()&tcell.ModCtrl != 0 {
		return RuneKey(ev.Rune())
	}
	return Invalid
}
