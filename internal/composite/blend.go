package composite

import (
	"math"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/image-engine/internal/imaging"
	"github.com/ironsheep/image-engine/internal/imgerr"
	"github.com/ironsheep/image-engine/internal/pixel"
)

// Blend mixes two images linearly: a*opacity + b*(1-opacity) on every
// channel, alpha included. Opacity is clamped to [0,1]. When the sizes
// differ both images are resized to the larger width and the larger height,
// which may hold at most maxPixels pixels (<= 0 selects
// pixel.DefaultMaxPixels).
func Blend(a, b *pixel.Buffer, opacity float64, maxPixels int) (*pixel.Buffer, error) {
	if a == nil || b == nil {
		return nil, imgerr.Input("blend needs two images")
	}
	if math.IsNaN(opacity) {
		return nil, imgerr.Input("opacity must be a number")
	}
	opacity = math.Max(0, math.Min(opacity, 1))

	pair, err := normalizeAll([]*pixel.Buffer{a, b})
	if err != nil {
		return nil, err
	}
	w := max(pair[0].Width, pair[1].Width)
	h := max(pair[0].Height, pair[1].Height)
	if err := pixel.CheckPixels(w, h, maxPixels); err != nil {
		return nil, err
	}
	for i := range pair {
		if pair[i], err = imaging.ResizeTo(pair[i], w, h); err != nil {
			return nil, err
		}
	}

	fa, fb := pair[0].Floats(), pair[1].Floats()
	row := w * pair[0].Channels()
	parallel.Line(h, func(start, end int) {
		for i := start * row; i < end*row; i++ {
			fa[i] = float32(float64(fa[i])*opacity + float64(fb[i])*(1-opacity))
		}
	})
	return pixel.FromFloats(fa, w, h, pair[0].Space, pair[0].Type), nil
}
