// color.go: Hex color parsing for the canvas background.
package compose

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseHexColor parses "#rgb", "#rrggbb" or "#rrggbbaa" (leading '#'
// optional) into color.RGBA. The result is alpha-premultiplied.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")

	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6, 8:
	default:
		return color.RGBA{}, fmt.Errorf("invalid color %q: expected #rgb, #rrggbb or #rrggbbaa", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}

	a := uint32(0xff)
	if len(hex) == 8 {
		a = uint32(v & 0xff)
		v >>= 8
	}
	r, g, b := uint32(v>>16&0xff), uint32(v>>8&0xff), uint32(v&0xff)

	// Premultiply so the value is a valid color.RGBA.
	return color.RGBA{
		R: uint8(r * a / 0xff),
		G: uint8(g * a / 0xff),
		B: uint8(b * a / 0xff),
		A: uint8(a),
	}, nil
}

// ParseHexRGBA is ParseHexColor with a fallback: it returns white on any
// parse error.
func ParseHexRGBA(s string) color.RGBA {
	c, err := ParseHexColor(s)
	if err != nil {
		return color.RGBA{255, 255, 255, 255}
	}
	return c
}

// FormatHex returns c as "#rrggbb", or "#rrggbbaa" when it is not opaque.
func FormatHex(c color.RGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}
