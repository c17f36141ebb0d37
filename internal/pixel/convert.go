package pixel

import (
	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/image-engine/internal/imgerr"
)

// Luma weights (ITU-R BT.601) used for every color-to-gray conversion.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// pixelRule converts one pixel. in and out hold the source and target
// channels; max is the full-intensity value of the sample type.
type pixelRule func(in, out []float64, max float64)

type conversionKey struct {
	from, to ColorSpace
}

// conversions covers every ordered pair of distinct color spaces.
var conversions = map[conversionKey]pixelRule{
	{RGB, BGR}:   swapRB,
	{BGR, RGB}:   swapRB,
	{RGBA, BGRA}: swapRB,
	{BGRA, RGBA}: swapRB,

	{RGBA, RGB}: dropAlpha(false),
	{BGRA, BGR}: dropAlpha(false),
	{RGBA, BGR}: dropAlpha(true),
	{BGRA, RGB}: dropAlpha(true),

	{RGB, RGBA}: addAlpha(false),
	{BGR, BGRA}: addAlpha(false),
	{RGB, BGRA}: addAlpha(true),
	{BGR, RGBA}: addAlpha(true),

	{RGB, Gray}:  toGray(0, 1, 2),
	{RGBA, Gray}: toGray(0, 1, 2),
	{BGR, Gray}:  toGray(2, 1, 0),
	{BGRA, Gray}: toGray(2, 1, 0),

	{Gray, RGB}:  fromGray(false),
	{Gray, BGR}:  fromGray(false),
	{Gray, RGBA}: fromGray(true),
	{Gray, BGRA}: fromGray(true),
}

func swapRB(in, out []float64, _ float64) {
	out[0], out[1], out[2] = in[2], in[1], in[0]
	if len(out) == 4 {
		out[3] = in[3]
	}
}

func dropAlpha(swap bool) pixelRule {
	return func(in, out []float64, _ float64) {
		if swap {
			out[0], out[1], out[2] = in[2], in[1], in[0]
			return
		}
		out[0], out[1], out[2] = in[0], in[1], in[2]
	}
}

func addAlpha(swap bool) pixelRule {
	return func(in, out []float64, max float64) {
		if swap {
			out[0], out[1], out[2] = in[2], in[1], in[0]
		} else {
			out[0], out[1], out[2] = in[0], in[1], in[2]
		}
		out[3] = max
	}
}

func toGray(r, g, b int) pixelRule {
	return func(in, out []float64, _ float64) {
		out[0] = lumaR*in[r] + lumaG*in[g] + lumaB*in[b]
	}
}

func fromGray(alpha bool) pixelRule {
	return func(in, out []float64, max float64) {
		out[0], out[1], out[2] = in[0], in[0], in[0]
		if alpha {
			out[3] = max
		}
	}
}

// Convert returns b expressed in the target color space. When b is already in
// that space it is returned unchanged.
func Convert(b *Buffer, target ColorSpace) (*Buffer, error) {
	if b.Space == target {
		return b, nil
	}
	rule, ok := conversions[conversionKey{b.Space, target}]
	if !ok {
		return nil, imgerr.Input("no conversion from %s to %s", b.Space, target)
	}

	out := New(b.Width, b.Height, target, b.Type)
	inCh, outCh := b.Channels(), target.Channels()
	max := b.Type.Max()

	parallel.Line(b.Height, func(start, end int) {
		in := make([]float64, inCh)
		px := make([]float64, outCh)
		for y := start; y < end; y++ {
			for x := 0; x < b.Width; x++ {
				base := (y*b.Width + x) * inCh
				for c := range in {
					in[c] = b.Sample(base + c)
				}
				rule(in, px, max)
				obase := (y*b.Width + x) * outCh
				for c, v := range px {
					out.SetSample(obase+c, v)
				}
			}
		}
	})
	return out, nil
}

// ConvertType rescales b's samples to another sample type so that full
// intensity maps to full intensity.
func ConvertType(b *Buffer, target SampleType) (*Buffer, error) {
	if b.Type == target {
		return b, nil
	}
	if !target.Valid() {
		return nil, imgerr.Input("unsupported sample type %q", target)
	}
	out := New(b.Width, b.Height, b.Space, target)
	from, to := b.Type.Max(), target.Max()
	rowSamples := b.Width * b.Channels()
	parallel.Line(b.Height, func(start, end int) {
		for i := start * rowSamples; i < end*rowSamples; i++ {
			out.SetSample(i, b.Sample(i)/from*to)
		}
	})
	return out, nil
}

// Normalize converts b to the given space and sample type.
func Normalize(b *Buffer, space ColorSpace, typ SampleType) (*Buffer, error) {
	out, err := ConvertType(b, typ)
	if err != nil {
		return nil, err
	}
	return Convert(out, space)
}
