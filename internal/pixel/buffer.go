package pixel

import (
	"encoding/binary"
	"math"
	"math/bits"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/image-engine/internal/imgerr"
)

// Buffer is a contiguous, interleaved pixel matrix.
type Buffer struct {
	Data   []byte
	Width  int
	Height int
	Space  ColorSpace
	Type   SampleType
}

// MaxDimension bounds the width and height of any buffer.
const MaxDimension = 1 << 24

// DefaultMaxPixels bounds the pixel count of an operation's output when no
// other limit is configured.
const DefaultMaxPixels = 1 << 28

// ByteSize returns the data length of a width x height buffer with the given
// channel count and sample size. ok is false when a dimension is outside
// [1, MaxDimension] or the length does not fit in an int.
func ByteSize(width, height, channels, sampleSize int) (n int, ok bool) {
	if width <= 0 || height <= 0 || width > MaxDimension || height > MaxDimension {
		return 0, false
	}
	if channels <= 0 || sampleSize <= 0 {
		return 0, false
	}
	size := uint64(width)
	for _, f := range [...]int{height, channels, sampleSize} {
		hi, lo := bits.Mul64(size, uint64(f))
		if hi != 0 || lo > math.MaxInt {
			return 0, false
		}
		size = lo
	}
	return int(size), true
}

// CheckPixels reports a processing error when an operation would produce a
// width x height output larger than maxPixels. maxPixels <= 0 selects
// DefaultMaxPixels.
func CheckPixels(width, height, maxPixels int) error {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	if width <= 0 || height <= 0 {
		return imgerr.Processing("invalid output size %dx%d", width, height)
	}
	n, ok := ByteSize(width, height, 1, 1)
	if !ok || n > maxPixels {
		return imgerr.Processing("output size %dx%d exceeds the limit of %d pixels", width, height, maxPixels)
	}
	return nil
}

// New allocates a zeroed buffer.
func New(width, height int, space ColorSpace, typ SampleType) *Buffer {
	return &Buffer{
		Data:   make([]byte, width*height*space.Channels()*typ.Size()),
		Width:  width,
		Height: height,
		Space:  space,
		Type:   typ,
	}
}

// Validate checks the buffer invariants.
func (b *Buffer) Validate() error {
	if b == nil {
		return imgerr.Input("image is nil")
	}
	if b.Width <= 0 || b.Height <= 0 {
		return imgerr.Input("invalid image dimensions: %dx%d", b.Width, b.Height)
	}
	if !b.Space.Valid() {
		return imgerr.Input("unsupported color space %q", b.Space)
	}
	if !b.Type.Valid() {
		return imgerr.Input("unsupported sample type %q", b.Type)
	}
	want, ok := ByteSize(b.Width, b.Height, b.Space.Channels(), b.Type.Size())
	if !ok {
		return imgerr.Input("image dimensions %dx%d are too large", b.Width, b.Height)
	}
	if len(b.Data) != want {
		return imgerr.Input("data length %d does not match %dx%d %s %s (want %d)",
			len(b.Data), b.Width, b.Height, b.Space, b.Type, want)
	}
	return nil
}

// Channels returns the channel count of the buffer's space.
func (b *Buffer) Channels() int {
	return b.Space.Channels()
}

// PixelSize returns the number of bytes per pixel.
func (b *Buffer) PixelSize() int {
	return b.Space.Channels() * b.Type.Size()
}

// Stride returns the number of bytes per row.
func (b *Buffer) Stride() int {
	return b.Width * b.PixelSize()
}

// Samples returns the total number of samples in the buffer.
func (b *Buffer) Samples() int {
	return b.Width * b.Height * b.Space.Channels()
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	c := *b
	c.Data = make([]byte, len(b.Data))
	copy(c.Data, b.Data)
	return &c
}

// SameShape reports whether o has the same dimensions, space and type.
func (b *Buffer) SameShape(o *Buffer) bool {
	return b.Width == o.Width && b.Height == o.Height && b.Space == o.Space && b.Type == o.Type
}

// Sample returns sample i as a float.
func (b *Buffer) Sample(i int) float64 {
	switch b.Type {
	case Uint16:
		return float64(binary.LittleEndian.Uint16(b.Data[i*2:]))
	case Float32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b.Data[i*4:])))
	default:
		return float64(b.Data[i])
	}
}

// SetSample stores v at sample index i, rounding and saturating for integer
// sample types.
func (b *Buffer) SetSample(i int, v float64) {
	switch b.Type {
	case Uint16:
		binary.LittleEndian.PutUint16(b.Data[i*2:], uint16(saturate(v, 65535)))
	case Float32:
		binary.LittleEndian.PutUint32(b.Data[i*4:], math.Float32bits(float32(v)))
	default:
		b.Data[i] = uint8(saturate(v, 255))
	}
}

// At returns channel c of the pixel at (x, y).
func (b *Buffer) At(x, y, c int) float64 {
	return b.Sample((y*b.Width+x)*b.Channels() + c)
}

// Set stores channel c of the pixel at (x, y).
func (b *Buffer) Set(x, y, c int, v float64) {
	b.SetSample((y*b.Width+x)*b.Channels()+c, v)
}

// Floats expands every sample into a float32 plane with the same layout.
func (b *Buffer) Floats() []float32 {
	out := make([]float32, b.Samples())
	rowSamples := b.Width * b.Channels()
	parallel.Line(b.Height, func(start, end int) {
		for i := start * rowSamples; i < end*rowSamples; i++ {
			out[i] = float32(b.Sample(i))
		}
	})
	return out
}

// FromFloats packs a float plane into a new buffer of the given shape.
func FromFloats(vals []float32, width, height int, space ColorSpace, typ SampleType) *Buffer {
	b := New(width, height, space, typ)
	rowSamples := width * space.Channels()
	parallel.Line(height, func(start, end int) {
		for i := start * rowSamples; i < end*rowSamples; i++ {
			b.SetSample(i, float64(vals[i]))
		}
	})
	return b
}

// Fill sets every pixel to the given samples, which must be in buffer order.
func (b *Buffer) Fill(samples []float64) {
	if b.Width == 0 || b.Height == 0 {
		return
	}
	px := b.PixelSize()
	// Encode one pixel, then replicate it byte-wise.
	for c, v := range samples[:b.Channels()] {
		b.SetSample(c, v)
	}
	for filled := px; filled < len(b.Data); filled *= 2 {
		copy(b.Data[filled:], b.Data[:filled])
	}
}

// Pixel returns the raw bytes of the pixel at (x, y). The slice aliases the
// buffer.
func (b *Buffer) Pixel(x, y int) []byte {
	px := b.PixelSize()
	off := y*b.Stride() + x*px
	return b.Data[off : off+px]
}

// Row returns the raw bytes of row y. The slice aliases the buffer.
func (b *Buffer) Row(y int) []byte {
	s := b.Stride()
	return b.Data[y*s : (y+1)*s]
}

func saturate(v, max float64) float64 {
	v = math.RoundToEven(v)
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
