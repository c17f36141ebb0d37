package imaging

import (
	"math"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/image-engine/internal/imgerr"
	"github.com/ironsheep/image-engine/internal/pixel"
)

// SizeMode says how a resize dimension is computed.
type SizeMode string

const (
	// ModeAbsolute uses the value as a pixel count.
	ModeAbsolute SizeMode = "absolute"
	// ModeMultiply scales the original dimension by the value.
	ModeMultiply SizeMode = "multiply"
	// ModeAuto derives the dimension from the other one, keeping aspect ratio.
	ModeAuto SizeMode = "auto"
)

// ParseSizeMode parses a mode name. An empty name means auto.
func ParseSizeMode(s string) (SizeMode, error) {
	switch SizeMode(s) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeAbsolute, "abs":
		return ModeAbsolute, nil
	case ModeMultiply, "scale":
		return ModeMultiply, nil
	}
	return "", imgerr.Input("unknown resize mode %q", s)
}

// ResizeParams describes the target size of a resize.
type ResizeParams struct {
	WidthMode   SizeMode `json:"widthMode"`
	WidthValue  float64  `json:"widthValue"`
	HeightMode  SizeMode `json:"heightMode"`
	HeightValue float64  `json:"heightValue"`

	// MaxPixels bounds the output size; <= 0 selects pixel.DefaultMaxPixels.
	MaxPixels int `json:"-"`
}

func (p ResizeParams) dimension(mode SizeMode, value float64, original int) (int, bool) {
	if mode == ModeAuto || mode == "" || math.IsNaN(value) {
		return 0, false
	}
	if mode == ModeMultiply {
		return roundInt(float64(original) * value), true
	}
	return roundInt(value), true
}

// Target computes the output size for a width x height source.
func (p ResizeParams) Target(width, height int) (int, int, error) {
	w, wOK := p.dimension(p.WidthMode, p.WidthValue, width)
	h, hOK := p.dimension(p.HeightMode, p.HeightValue, height)

	switch {
	case !wOK && !hOK:
		return 0, 0, imgerr.Processing("resize needs at least one of width or height")
	case !wOK:
		w = roundInt(float64(h) * float64(width) / float64(height))
	case !hOK:
		h = roundInt(float64(w) * float64(height) / float64(width))
	}

	if w <= 0 || h <= 0 {
		return 0, 0, imgerr.Processing("invalid resize target %dx%d", w, h)
	}
	return w, h, nil
}

// Resize resamples src to the size described by p.
func Resize(src *pixel.Buffer, p ResizeParams) (*pixel.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	w, h, err := p.Target(src.Width, src.Height)
	if err != nil {
		return nil, err
	}
	if err := pixel.CheckPixels(w, h, p.MaxPixels); err != nil {
		return nil, err
	}
	return ResizeTo(src, w, h)
}

// ResizeTo resamples src to exactly width x height with bilinear
// interpolation. Pixel centers are aligned, so a 2x upscale samples at
// source coordinates -0.25, 0.25, 0.75 and so on, clamped at the borders.
// Resizing to the current size returns src itself.
func ResizeTo(src *pixel.Buffer, width, height int) (*pixel.Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, imgerr.Processing("invalid resize target %dx%d", width, height)
	}
	if width == src.Width && height == src.Height {
		return src, nil
	}

	xs := linearTaps(src.Width, width)
	ys := linearTaps(src.Height, height)
	ch := src.Channels()
	in := src.Floats()
	out := make([]float32, width*height*ch)
	srcStride := src.Width * ch

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			ty := ys[y]
			row0 := in[ty.i0*srcStride:]
			row1 := in[ty.i1*srcStride:]
			dst := out[y*width*ch:]
			for x, tx := range xs {
				a, b := tx.i0*ch, tx.i1*ch
				for c := 0; c < ch; c++ {
					top := float64(row0[a+c])*(1-tx.f) + float64(row0[b+c])*tx.f
					bot := float64(row1[a+c])*(1-tx.f) + float64(row1[b+c])*tx.f
					dst[x*ch+c] = float32(top*(1-ty.f) + bot*ty.f)
				}
			}
		}
	})

	return pixel.FromFloats(out, width, height, src.Space, src.Type), nil
}

// tap is one interpolation step: blend sample i0 and i1 by weight f.
type tap struct {
	i0, i1 int
	f      float64
}

func linearTaps(srcLen, dstLen int) []tap {
	scale := float64(srcLen) / float64(dstLen)
	taps := make([]tap, dstLen)
	for i := range taps {
		s := (float64(i)+0.5)*scale - 0.5
		if s < 0 {
			s = 0
		}
		i0 := int(s)
		f := s - float64(i0)
		if i0 >= srcLen-1 {
			i0, f = srcLen-1, 0
		}
		i1 := i0 + 1
		if i1 > srcLen-1 {
			i1 = srcLen - 1
		}
		taps[i] = tap{i0: i0, i1: i1, f: f}
	}
	return taps
}
