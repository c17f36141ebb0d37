package pixel

import (
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-engine/internal/imgerr"
)

// Color is an 8-bit RGBA color as authored by a caller.
type Color struct {
	R, G, B, A uint8
}

// Black is the default fill color.
var Black = Color{0, 0, 0, 255}

// ParseColor parses "#RRGGBB" or "#RRGGBBAA". The leading '#' is optional and
// an omitted alpha means fully opaque. An empty string yields Black.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Black, nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}

	alpha := uint8(255)
	switch len(s) {
	case 4, 7:
	case 9:
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, imgerr.Input("invalid color %q", s)
		}
		alpha = uint8(a)
		s = s[:7]
	default:
		return Color{}, imgerr.Input("invalid color %q: expected #RRGGBB or #RRGGBBAA", s)
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, imgerr.Input("invalid color %q", s)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b, A: alpha}, nil
}

// MustParseColor is ParseColor for literals known to be valid.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Gray returns the average of the color's red, green and blue components.
func (c Color) Gray() float64 {
	return math.Round((float64(c.R) + float64(c.G) + float64(c.B)) / 3)
}

// Samples returns the color as one pixel of the given space and sample type,
// with channels in the space's storage order and values scaled so that 255
// maps to the type's full intensity.
func (c Color) Samples(space ColorSpace, typ SampleType) []float64 {
	max := typ.Max()
	scale := func(v float64) float64 { return v / 255 * max }
	r, g, b, a := scale(float64(c.R)), scale(float64(c.G)), scale(float64(c.B)), scale(float64(c.A))
	switch space {
	case Gray:
		return []float64{scale(c.Gray())}
	case RGB:
		return []float64{r, g, b}
	case BGR:
		return []float64{b, g, r}
	case RGBA:
		return []float64{r, g, b, a}
	case BGRA:
		return []float64{b, g, r, a}
	}
	return nil
}

// FillColor returns a new buffer of the given shape filled with c.
func FillColor(width, height int, space ColorSpace, typ SampleType, c Color) *Buffer {
	b := New(width, height, space, typ)
	b.Fill(c.Samples(space, typ))
	return b
}
