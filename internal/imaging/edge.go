package imaging

import (
	"math"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/image-engine/internal/pixel"
)

// edgeFilter computes a Sobel gradient image.
//
// # Algorithm
//
//  1. Grayscale conversion: luminance using ITU-R BT.601 weights
//     (0.299*R + 0.587*G + 0.114*B), honoring the buffer's channel order
//
//  2. Gradient computation: Sobel operators of the requested size for the
//     X and Y derivatives, with reflected borders
//
//  3. Magnitude: |Gx| and |Gy| are each saturated to the sample range and
//     averaged at equal weight, then scaled by intensity
//
// The single-channel result is replicated back into every color channel.
// An alpha channel is carried over from the source.
func edgeFilter(src *pixel.Buffer, size int, intensity float64) *pixel.Buffer {
	w, h := src.Width, src.Height
	gray := luminance(src)

	kx, ky := sobelKernels(size)
	gx := correlate(gray, w, h, 1, []int{0}, kx)
	gy := correlate(gray, w, h, 1, []int{0}, ky)

	limit := math.Inf(1)
	if src.Type != pixel.Float32 {
		limit = src.Type.Max()
	}

	ch := src.Channels()
	colors := ch
	if src.Space.HasAlpha() {
		colors = 3
	}
	in := src.Floats()
	out := make([]float32, len(in))

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				ax := math.Min(math.Abs(float64(gx[i])), limit)
				ay := math.Min(math.Abs(float64(gy[i])), limit)
				mag := float32((0.5*ax + 0.5*ay) * intensity)
				for c := 0; c < colors; c++ {
					out[i*ch+c] = mag
				}
				if colors < ch {
					out[i*ch+3] = in[i*ch+3]
				}
			}
		}
	})
	return pixel.FromFloats(out, w, h, src.Space, src.Type)
}

// luminance returns a single-channel plane of src.
func luminance(src *pixel.Buffer) []float32 {
	if src.Space == pixel.Gray {
		return src.Floats()
	}
	r, g, b := 0, 1, 2
	if src.Space.BlueFirst() {
		r, b = 2, 0
	}
	ch := src.Channels()
	in := src.Floats()
	out := make([]float32, src.Width*src.Height)
	for i := range out {
		px := in[i*ch:]
		out[i] = float32(0.299*float64(px[r]) + 0.587*float64(px[g]) + 0.114*float64(px[b]))
	}
	return out
}
