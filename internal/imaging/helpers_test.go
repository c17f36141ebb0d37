package imaging

import (
	"testing"

	"github.com/ironsheep/image-engine/internal/pixel"
)

// createSolid creates a buffer with every pixel set to samples.
func createSolid(width, height int, space pixel.ColorSpace, samples ...float64) *pixel.Buffer {
	b := pixel.New(width, height, space, pixel.Uint8)
	b.Fill(samples)
	return b
}

// createIndexed creates a GRAY buffer whose pixel at (x, y) is y*width + x.
func createIndexed(width, height int) *pixel.Buffer {
	b := pixel.New(width, height, pixel.Gray, pixel.Uint8)
	for i := range b.Data {
		b.Data[i] = uint8(i)
	}
	return b
}

// assertUniform fails unless every pixel of b equals samples.
func assertUniform(t *testing.T, b *pixel.Buffer, samples ...float64) {
	t.Helper()
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			for c, want := range samples {
				if got := b.At(x, y, c); got != want {
					t.Fatalf("pixel (%d,%d) channel %d: got %v, want %v", x, y, c, got, want)
				}
			}
		}
	}
}
