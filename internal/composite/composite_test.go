package composite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-engine/internal/imgerr"
	"github.com/ironsheep/image-engine/internal/pixel"
)

func solid(w, h int, space pixel.ColorSpace, samples ...float64) *pixel.Buffer {
	b := pixel.New(w, h, space, pixel.Uint8)
	b.Fill(samples)
	return b
}

func pixelAt(b *pixel.Buffer, x, y int) []byte {
	return append([]byte(nil), b.Pixel(x, y)...)
}

func TestConcat_PadBoth(t *testing.T) {
	small := solid(4, 10, pixel.Gray, 50)
	tall := solid(3, 20, pixel.Gray, 200)

	out, err := Concat([]*pixel.Buffer{small, tall}, ConcatParams{
		Direction: Right,
		Strategy:  StrategyPadBoth,
		Pad:       pixel.MustParseColor("#000000"),
	})
	require.NoError(t, err)
	assert.Equal(t, 7, out.Width)
	assert.Equal(t, 20, out.Height)

	// Five rows of padding above and below the small tile.
	assert.Equal(t, []byte{0}, pixelAt(out, 0, 4))
	assert.Equal(t, []byte{50}, pixelAt(out, 0, 5))
	assert.Equal(t, []byte{50}, pixelAt(out, 0, 14))
	assert.Equal(t, []byte{0}, pixelAt(out, 0, 15))
	assert.Equal(t, []byte{200}, pixelAt(out, 4, 0))
}

func TestPadSplit(t *testing.T) {
	tests := []struct {
		strategy      Strategy
		delta         int
		before, after int
	}{
		{StrategyPadBoth, 10, 5, 5},
		{StrategyPadBoth, 7, 3, 4},
		{StrategyPadStart, 7, 7, 0},
		{StrategyPadEnd, 7, 0, 7},
	}
	for _, tt := range tests {
		before, after := PadSplit(tt.strategy, tt.delta)
		assert.Equal(t, tt.before, before, "%s before", tt.strategy)
		assert.Equal(t, tt.after, after, "%s after", tt.strategy)
	}
}

func TestConcat_ResizeVertical(t *testing.T) {
	a := solid(10, 4, pixel.RGB, 1, 2, 3)
	b := solid(5, 3, pixel.RGB, 9, 9, 9)

	out, err := Concat([]*pixel.Buffer{a, b}, ConcatParams{Direction: Down, Strategy: StrategyResize})
	require.NoError(t, err)
	assert.Equal(t, 10, out.Width)
	assert.Equal(t, 4+6, out.Height)
	assert.Equal(t, []byte{1, 2, 3}, pixelAt(out, 0, 0))
	assert.Equal(t, []byte{9, 9, 9}, pixelAt(out, 9, 9))
}

func TestConcat_LeftReversesOrder(t *testing.T) {
	a := solid(2, 2, pixel.Gray, 10)
	b := solid(3, 2, pixel.Gray, 20)

	out, err := Concat([]*pixel.Buffer{a, b}, ConcatParams{Direction: Left, Strategy: StrategyPadEnd})
	require.NoError(t, err)
	assert.Equal(t, 5, out.Width)
	assert.Equal(t, []byte{20}, pixelAt(out, 0, 0))
	assert.Equal(t, []byte{10}, pixelAt(out, 4, 1))
}

func TestConcat_NegotiatesFormat(t *testing.T) {
	gray := solid(2, 2, pixel.Gray, 100)
	bgra := solid(2, 2, pixel.BGRA, 1, 2, 3, 4)

	out, err := Concat([]*pixel.Buffer{gray, bgra}, ConcatParams{Direction: Right, Strategy: StrategyResize})
	require.NoError(t, err)
	assert.Equal(t, pixel.BGRA, out.Space)
	assert.Equal(t, []byte{100, 100, 100, 255}, pixelAt(out, 0, 0))
	assert.Equal(t, []byte{1, 2, 3, 4}, pixelAt(out, 3, 1))
}

func TestConcat_Errors(t *testing.T) {
	img := solid(2, 2, pixel.Gray, 1)

	_, err := Concat(nil, ConcatParams{Direction: Right, Strategy: StrategyResize})
	assert.True(t, imgerr.IsInput(err), "empty input: %v", err)

	_, err = Concat([]*pixel.Buffer{img}, ConcatParams{Direction: "diagonal", Strategy: StrategyResize})
	assert.True(t, imgerr.IsInput(err), "bad direction: %v", err)

	_, err = Concat([]*pixel.Buffer{img}, ConcatParams{Direction: Up, Strategy: "stretch"})
	assert.True(t, imgerr.IsInput(err), "bad strategy: %v", err)
}

func TestBlend(t *testing.T) {
	a := solid(3, 3, pixel.RGB, 200, 100, 0)
	b := solid(3, 3, pixel.RGB, 0, 50, 250)

	tests := []struct {
		name    string
		opacity float64
		want    []byte
	}{
		{"opacity zero is second image", 0, []byte{0, 50, 250}},
		{"opacity one is first image", 1, []byte{200, 100, 0}},
		{"half", 0.5, []byte{100, 75, 125}},
		{"clamped above", 7, []byte{200, 100, 0}},
		{"clamped below", -3, []byte{0, 50, 250}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Blend(a, b, tt.opacity, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, pixelAt(out, 1, 1))
		})
	}
}

func TestBlend_DifferentSizes(t *testing.T) {
	a := solid(4, 2, pixel.Gray, 10)
	b := solid(2, 6, pixel.RGB, 30, 30, 30)

	out, err := Blend(a, b, 0.5, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, out.Width)
	assert.Equal(t, 6, out.Height)
	assert.Equal(t, pixel.RGB, out.Space)
	assert.Equal(t, []byte{20, 20, 20}, pixelAt(out, 3, 5))
}

func TestMosaic_EmptyPlacements(t *testing.T) {
	out, err := Mosaic([]*pixel.Buffer{solid(2, 2, pixel.BGR, 0, 0, 0)}, MosaicParams{
		Width:      5,
		Height:     4,
		Background: pixel.MustParseColor("#FF8000"),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, out.Width)
	assert.Equal(t, 4, out.Height)
	assert.Equal(t, pixel.BGR, out.Space)
	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			require.Equal(t, []byte{0, 128, 255}, pixelAt(out, x, y))
		}
	}
}

func TestMosaic_BackgroundPerFormat(t *testing.T) {
	bg := pixel.MustParseColor("#FF0000")

	gray, err := Mosaic([]*pixel.Buffer{solid(1, 1, pixel.Gray, 0)}, MosaicParams{Width: 2, Height: 2, Background: bg})
	require.NoError(t, err)
	assert.Equal(t, []byte{85}, pixelAt(gray, 1, 1))

	rgba, err := Mosaic([]*pixel.Buffer{solid(1, 1, pixel.RGBA, 0, 0, 0, 0)}, MosaicParams{Width: 2, Height: 2, Background: bg})
	require.NoError(t, err)
	assert.Equal(t, []byte{255, 0, 0, 255}, pixelAt(rgba, 0, 0))
}

func TestMosaic_Placements(t *testing.T) {
	imgs := []*pixel.Buffer{solid(2, 2, pixel.Gray, 10), solid(2, 2, pixel.Gray, 20)}

	out, err := Mosaic(imgs, MosaicParams{
		Width:  6,
		Height: 4,
		Placements: []Placement{
			{Index: 0, X: 0, Y: 0},
			{Index: 1, X: 1, Y: 1},   // overlaps the first
			{Index: 5, X: 3, Y: 0},   // invalid index
			{Index: 0, X: 5, Y: 3},   // clipped to one pixel
			{Index: 1, X: -10, Y: 0}, // fully off canvas
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{10}, pixelAt(out, 0, 0))
	assert.Equal(t, []byte{20}, pixelAt(out, 1, 1))
	assert.Equal(t, []byte{10}, pixelAt(out, 5, 3))
	assert.Equal(t, []byte{0}, pixelAt(out, 3, 0))
}

func TestMosaic_Normalized(t *testing.T) {
	out, err := Mosaic([]*pixel.Buffer{solid(1, 1, pixel.Gray, 99)}, MosaicParams{
		Width:      10,
		Height:     10,
		Normalized: true,
		Placements: []Placement{{Index: 0, X: 0.5, Y: 0.25}},
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{99}, pixelAt(out, 5, 3))
}

func TestMosaic_ParallelMatchesSequential(t *testing.T) {
	imgs := []*pixel.Buffer{solid(3, 3, pixel.RGB, 1, 2, 3), solid(3, 3, pixel.RGB, 4, 5, 6)}
	var placements []Placement
	for i := 0; i < 12; i++ {
		placements = append(placements, Placement{Index: i % 2, X: float64((i % 4) * 3), Y: float64((i / 4) * 3)})
	}
	params := MosaicParams{Width: 12, Height: 9, Placements: placements}

	parallel, err := Mosaic(imgs, params)
	require.NoError(t, err)

	params.ParallelThreshold = 100
	sequential, err := Mosaic(imgs, params)
	require.NoError(t, err)

	assert.Equal(t, sequential.Data, parallel.Data)
}

func TestMosaic_InvalidCanvas(t *testing.T) {
	_, err := Mosaic(nil, MosaicParams{Width: 0, Height: 10})
	assert.True(t, imgerr.IsProcessing(err), "got %v", err)

	_, err = AdvancedMosaic(nil, MosaicParams{Width: 10, Height: -1})
	assert.True(t, imgerr.IsProcessing(err), "got %v", err)
}

func TestMosaic_NoImagesDefaultsToRGB(t *testing.T) {
	out, err := Mosaic(nil, MosaicParams{Width: 2, Height: 2, Background: pixel.MustParseColor("#010203")})
	require.NoError(t, err)
	assert.Equal(t, pixel.RGB, out.Space)
	assert.Equal(t, []byte{1, 2, 3}, pixelAt(out, 1, 1))
}

func TestAdvancedMosaic_ZOrder(t *testing.T) {
	imgs := []*pixel.Buffer{solid(4, 4, pixel.Gray, 10), solid(4, 4, pixel.Gray, 20)}
	top, bottom := 1, 0

	// The higher zIndex is listed first but must end up on top.
	out, err := AdvancedMosaic(imgs, MosaicParams{
		Width:  6,
		Height: 6,
		Placements: []Placement{
			{Index: 1, X: 2, Y: 2, ZIndex: &top},
			{Index: 0, X: 0, Y: 0, ZIndex: &bottom},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{10}, pixelAt(out, 0, 0))
	assert.Equal(t, []byte{20}, pixelAt(out, 3, 3))
	assert.Equal(t, []byte{20}, pixelAt(out, 2, 2))
}

func TestAdvancedMosaic_DefaultZIsListOrder(t *testing.T) {
	imgs := []*pixel.Buffer{solid(2, 2, pixel.Gray, 10), solid(2, 2, pixel.Gray, 20)}

	out, err := AdvancedMosaic(imgs, MosaicParams{
		Width:      2,
		Height:     2,
		Placements: []Placement{{Index: 0}, {Index: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{20}, pixelAt(out, 0, 0))
}

func TestAdvancedMosaic_ResizeAndRotate(t *testing.T) {
	img := pixel.New(4, 2, pixel.Gray, pixel.Uint8)
	// Left column marked so the rotation direction is visible.
	img.Set(0, 0, 0, 255)
	img.Set(0, 1, 0, 255)

	out, err := AdvancedMosaic([]*pixel.Buffer{img}, MosaicParams{
		Width:      10,
		Height:     10,
		Background: pixel.MustParseColor("#404040"),
		Placements: []Placement{{Index: 0, X: 0, Y: 0, Width: 8, Rotation: 90}},
	})
	require.NoError(t, err)

	// Resized to 8x4 (height from aspect), then turned clockwise to 4x8:
	// the marked left column becomes the top row.
	assert.Equal(t, []byte{255}, pixelAt(out, 0, 0))
	assert.Equal(t, []byte{255}, pixelAt(out, 3, 0))
	assert.Equal(t, []byte{0}, pixelAt(out, 0, 7))
	assert.Equal(t, []byte{64}, pixelAt(out, 4, 0))
	assert.Equal(t, []byte{64}, pixelAt(out, 0, 8))
}

func TestPixelLimit(t *testing.T) {
	tiny := solid(1, 1, pixel.Gray, 5)
	tall := solid(1, 1000, pixel.Gray, 5)
	wide := solid(1000, 1, pixel.Gray, 5)

	tests := []struct {
		name string
		run  func() (*pixel.Buffer, error)
	}{
		{"concat joined size", func() (*pixel.Buffer, error) {
			return Concat([]*pixel.Buffer{tiny, tiny, tiny}, ConcatParams{Direction: Right, Strategy: StrategyResize, MaxPixels: 2})
		}},
		{"concat resized tile", func() (*pixel.Buffer, error) {
			return Concat([]*pixel.Buffer{wide, tall}, ConcatParams{Direction: Right, Strategy: StrategyResize, MaxPixels: 100000})
		}},
		{"concat padded tile", func() (*pixel.Buffer, error) {
			return Concat([]*pixel.Buffer{wide, tall}, ConcatParams{Direction: Right, Strategy: StrategyPadEnd, MaxPixels: 100000})
		}},
		{"blend common extent", func() (*pixel.Buffer, error) {
			return Blend(wide, tall, 0.5, 100000)
		}},
		{"mosaic canvas", func() (*pixel.Buffer, error) {
			return Mosaic(nil, MosaicParams{Width: 1e6, Height: 1e6})
		}},
		{"advanced mosaic resize", func() (*pixel.Buffer, error) {
			return AdvancedMosaic([]*pixel.Buffer{tiny}, MosaicParams{
				Width: 2, Height: 2, MaxPixels: 100,
				Placements: []Placement{{Index: 0, Width: 1000, Height: 1000}},
			})
		}},
		{"advanced mosaic rotation", func() (*pixel.Buffer, error) {
			return AdvancedMosaic([]*pixel.Buffer{solid(10, 10, pixel.Gray, 5)}, MosaicParams{
				Width: 10, Height: 10, MaxPixels: 100,
				Placements: []Placement{{Index: 0, Rotation: 45}},
			})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.run()
			require.Error(t, err)
			assert.Nil(t, out)
			assert.True(t, imgerr.IsProcessing(err), "got %v", err)
		})
	}
}
