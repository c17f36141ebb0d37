package imaging

import (
	"math"

	"github.com/ironsheep/image-engine/internal/imgerr"
	"github.com/ironsheep/image-engine/internal/pixel"
)

// CropParams selects a rectangle of the source image.
type CropParams struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Normalized interprets the values as fractions of the image size.
	Normalized bool `json:"normalized"`
}

// Rect is an integer pixel rectangle given by its top-left corner and size.
type Rect struct {
	X, Y, Width, Height int
}

// Resolve converts p into a pixel rectangle inside a width x height image.
//
// Values are rounded half away from zero and then clamped so that the result
// always lies inside the image and is at least 1x1:
//   - X in [0, width-1], Y in [0, height-1]
//   - Width in [1, width-X], Height in [1, height-Y]
func (p CropParams) Resolve(width, height int) Rect {
	x, y, w, h := p.X, p.Y, p.Width, p.Height
	if p.Normalized {
		x *= float64(width)
		w *= float64(width)
		y *= float64(height)
		h *= float64(height)
	}

	r := Rect{
		X:      clamp(roundInt(x), 0, width-1),
		Y:      clamp(roundInt(y), 0, height-1),
		Width:  roundInt(w),
		Height: roundInt(h),
	}
	r.Width = clamp(r.Width, 1, width-r.X)
	r.Height = clamp(r.Height, 1, height-r.Y)
	return r
}

// Crop copies the selected rectangle into a new buffer of the same channel
// format. Out-of-range rectangles are clamped rather than rejected.
func Crop(src *pixel.Buffer, p CropParams) (*pixel.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	for _, v := range []float64{p.X, p.Y, p.Width, p.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, imgerr.Input("crop values must be finite")
		}
	}
	return CropRect(src, p.Resolve(src.Width, src.Height)), nil
}

// CropRect copies r out of src. r must already lie inside src.
func CropRect(src *pixel.Buffer, r Rect) *pixel.Buffer {
	if r.X == 0 && r.Y == 0 && r.Width == src.Width && r.Height == src.Height {
		return src.Clone()
	}
	dst := pixel.New(r.Width, r.Height, src.Space, src.Type)
	px := src.PixelSize()
	for y := 0; y < r.Height; y++ {
		row := src.Row(r.Y + y)
		copy(dst.Row(y), row[r.X*px:(r.X+r.Width)*px])
	}
	return dst
}

// RegionParams returns the normalized crop for a named region such as
// "top-left", "right-half" or "center" (the middle 50% of the image).
func RegionParams(region string) (CropParams, error) {
	var x, y, w, h float64
	switch region {
	case "top-left":
		x, y, w, h = 0, 0, 0.5, 0.5
	case "top-right":
		x, y, w, h = 0.5, 0, 0.5, 0.5
	case "bottom-left":
		x, y, w, h = 0, 0.5, 0.5, 0.5
	case "bottom-right":
		x, y, w, h = 0.5, 0.5, 0.5, 0.5
	case "top-half":
		x, y, w, h = 0, 0, 1, 0.5
	case "bottom-half":
		x, y, w, h = 0, 0.5, 1, 0.5
	case "left-half":
		x, y, w, h = 0, 0, 0.5, 1
	case "right-half":
		x, y, w, h = 0.5, 0, 0.5, 1
	case "center":
		x, y, w, h = 0.25, 0.25, 0.5, 0.5
	default:
		return CropParams{}, imgerr.Input("unknown region: %s", region)
	}
	return CropParams{X: x, Y: y, Width: w, Height: h, Normalized: true}, nil
}

// roundInt rounds half away from zero.
func roundInt(v float64) int {
	return int(math.Round(v))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
