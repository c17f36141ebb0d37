package imaging

import (
	"math"
	"strings"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/image-engine/internal/imgerr"
	"github.com/ironsheep/image-engine/internal/pixel"
)

// FilterType names a kernel filter.
type FilterType string

const (
	FilterBlur     FilterType = "blur"
	FilterSharpen  FilterType = "sharpen"
	FilterEdge     FilterType = "edge"
	FilterEmboss   FilterType = "emboss"
	FilterGaussian FilterType = "gaussian"
)

// Kernel size and intensity bounds.
const (
	MinKernelSize = 3
	MaxKernelSize = 15
	MaxIntensity  = 2.0
)

// FilterParams selects a filter and its strength.
type FilterParams struct {
	Type       FilterType `json:"filterType"`
	KernelSize int        `json:"kernelSize"`
	Intensity  float64    `json:"intensity"`
}

// NormalizeKernelSize rounds an even size up to the next odd one and clamps
// the result to [3, 15].
func NormalizeKernelSize(size int) int {
	if size%2 == 0 {
		size++
	}
	return clamp(size, MinKernelSize, MaxKernelSize)
}

// NormalizeIntensity clamps intensity to [0, 2]. NaN becomes 0.
func NormalizeIntensity(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(v, MaxIntensity))
}

// Filter applies the filter described by p. The alpha channel of 4-channel
// buffers is left untouched. Borders are handled by reflection.
func Filter(src *pixel.Buffer, p FilterParams) (*pixel.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	size := NormalizeKernelSize(p.KernelSize)
	intensity := NormalizeIntensity(p.Intensity)

	switch FilterType(strings.ToLower(string(p.Type))) {
	case FilterBlur:
		out := apply(src, boxKernel(size), 0)
		if intensity < 1 {
			return mix(src, out, intensity), nil
		}
		return out, nil
	case FilterSharpen:
		return apply(src, sharpenKernel(size, intensity), 0), nil
	case FilterEdge:
		return edgeFilter(src, size, intensity), nil
	case FilterEmboss:
		return apply(src, embossKernel(intensity), src.Type.Mid()), nil
	case FilterGaussian:
		return apply(src, gaussianKernel(size, float64(size)/6*intensity), 0), nil
	}
	return nil, imgerr.Processing("unknown filter type: %s", p.Type)
}

// apply correlates every color channel of src with k and adds bias.
func apply(src *pixel.Buffer, k *convolution.Kernel, bias float64) *pixel.Buffer {
	ch := src.Channels()
	chans := colorChannels(src.Space)
	out := correlate(src.Floats(), src.Width, src.Height, ch, chans, k)
	if bias != 0 {
		parallel.Line(src.Height, func(start, end int) {
			for i := start * src.Width; i < end*src.Width; i++ {
				for _, c := range chans {
					out[i*ch+c] += float32(bias)
				}
			}
		})
	}
	return pixel.FromFloats(out, src.Width, src.Height, src.Space, src.Type)
}

// mix returns a*(1-t) + b*t for every color channel. Alpha comes from a.
func mix(a, b *pixel.Buffer, t float64) *pixel.Buffer {
	ch := a.Channels()
	chans := colorChannels(a.Space)
	fa, fb := a.Floats(), b.Floats()
	parallel.Line(a.Height, func(start, end int) {
		for i := start * a.Width; i < end*a.Width; i++ {
			for _, c := range chans {
				j := i*ch + c
				fa[j] = float32(float64(fa[j])*(1-t) + float64(fb[j])*t)
			}
		}
	})
	return pixel.FromFloats(fa, a.Width, a.Height, a.Space, a.Type)
}

// colorChannels lists the non-alpha channel indices of a space.
func colorChannels(s pixel.ColorSpace) []int {
	switch s.Channels() {
	case 1:
		return []int{0}
	default:
		return []int{0, 1, 2}
	}
}
