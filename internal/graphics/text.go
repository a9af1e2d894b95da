package graphics

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// Text is a single line of text drawn at a cell position. Grapheme
// clusters are kept together and wide clusters take two cells.
type Text struct {
	X, Y    int
	Content string
	Style   tcell.Style
}

// Width returns the display width of the text in cells.
func (t Text) Width() int {
	return uniseg.StringWidth(t.Content)
}

// Draw implements Drawable.
func (t Text) Draw(c Canvas) {
	x := t.X
	g := uniseg.NewGraphemes(t.Content)
	for g.Next() {
		runes := g.Runes()
		w := g.Width()
		if w == 0 {
			continue
		}
		var combining []rune
		if len(runes) > 1 {
			combining = runes[1:]
		}
		c.SetCell(x, t.Y, runes[0], combining, t.Style)
		x += w
	}
}

// Centered returns the x coordinate that centers a text of the given
// width in an area of width total.
func Centered(total, width int) int {
	if width >= total {
		return 0
	}
	return (total - width) / 2
}
