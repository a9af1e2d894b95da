package graphics

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor parses "#rrggbb", "#rgb" or a tcell color name such as
// "red" or "darkolivegreen".
func ParseColor(s string) (tcell.Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return tcell.ColorDefault, errors.New("empty color")
	}

	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return tcell.ColorDefault, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return toTcell(c), nil
	}

	if c, ok := tcell.ColorNames[s]; ok {
		return c, nil
	}
	return tcell.ColorDefault, fmt.Errorf("unknown color %q", s)
}

// HueColor returns a saturated color for a hue in degrees. Hues outside
// [0, 360) wrap around.
func HueColor(hue float64) tcell.Color {
	hue = math.Mod(hue, 360)
	if hue < 0 {
		hue += 360
	}
	return toTcell(colorful.Hsv(hue, 0.75, 1))
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
