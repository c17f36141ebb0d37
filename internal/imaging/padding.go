package imaging

import (
	"github.com/ironsheep/image-engine/internal/imgerr"
	"github.com/ironsheep/image-engine/internal/pixel"
)

// PaddingParams gives the border width on each side. Non-positive values
// leave that side unchanged.
type PaddingParams struct {
	Top    int         `json:"top"`
	Bottom int         `json:"bottom"`
	Left   int         `json:"left"`
	Right  int         `json:"right"`
	Pad    pixel.Color `json:"-"`

	// MaxPixels bounds the output size; <= 0 selects pixel.DefaultMaxPixels.
	MaxPixels int `json:"-"`
}

// Padding surrounds src with a border of p.Pad.
func Padding(src *pixel.Buffer, p PaddingParams) (*pixel.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	top, bottom := max(p.Top, 0), max(p.Bottom, 0)
	left, right := max(p.Left, 0), max(p.Right, 0)
	if top == 0 && bottom == 0 && left == 0 && right == 0 {
		return src.Clone(), nil
	}
	if max(top, bottom, left, right) > pixel.MaxDimension {
		return nil, imgerr.Processing("padding wider than %d pixels", pixel.MaxDimension)
	}

	w, h := src.Width+left+right, src.Height+top+bottom
	if err := pixel.CheckPixels(w, h, p.MaxPixels); err != nil {
		return nil, err
	}
	dst := pixel.FillColor(w, h, src.Space, src.Type, p.Pad)
	Paste(dst, src, left, top)
	return dst, nil
}

// Paste copies src onto dst with its top-left corner at (x, y), clipping to
// the bounds of dst. Both buffers must share a channel format. It returns the
// number of pixels written.
func Paste(dst, src *pixel.Buffer, x, y int) int {
	r, ok := ClipRect(Rect{X: x, Y: y, Width: src.Width, Height: src.Height}, dst.Width, dst.Height)
	if !ok {
		return 0
	}
	px := dst.PixelSize()
	sx, sy := r.X-x, r.Y-y
	for row := 0; row < r.Height; row++ {
		from := src.Row(sy + row)[sx*px : (sx+r.Width)*px]
		copy(dst.Row(r.Y + row)[r.X*px:], from)
	}
	return r.Width * r.Height
}

// ClipRect intersects r with a width x height canvas. ok is false when
// nothing remains.
func ClipRect(r Rect, width, height int) (Rect, bool) {
	x0, y0 := max(r.X, 0), max(r.Y, 0)
	x1, y1 := min(r.X+r.Width, width), min(r.Y+r.Height, height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}, false
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, true
}

// Overlaps reports whether two rectangles share at least one pixel.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}
