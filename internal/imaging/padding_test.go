package imaging

import (
	"math"
	"testing"

	"github.com/ironsheep/image-engine/internal/imgerr"
	"github.com/ironsheep/image-engine/internal/pixel"
)

func TestPadding_RedBorder(t *testing.T) {
	img := pixel.New(4, 4, pixel.RGB, pixel.Uint8)

	result, err := Padding(img, PaddingParams{Top: 1, Bottom: 1, Left: 1, Right: 1, Pad: pixel.MustParseColor("#FF0000")})
	if err != nil {
		t.Fatalf("Padding failed: %v", err)
	}
	if result.Width != 6 || result.Height != 6 {
		t.Fatalf("dimensions: got %dx%d, want 6x6", result.Width, result.Height)
	}

	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			px := result.Pixel(x, y)
			border := x == 0 || y == 0 || x == 5 || y == 5
			if border && (px[0] != 255 || px[1] != 0 || px[2] != 0) {
				t.Errorf("border (%d,%d): got %v, want [255 0 0]", x, y, px)
			}
			if !border && (px[0] != 0 || px[1] != 0 || px[2] != 0) {
				t.Errorf("interior (%d,%d): got %v, want zeros", x, y, px)
			}
		}
	}
}

func TestPadding_BGROrder(t *testing.T) {
	img := pixel.New(1, 1, pixel.BGR, pixel.Uint8)

	result, err := Padding(img, PaddingParams{Left: 1, Pad: pixel.MustParseColor("#FF0000")})
	if err != nil {
		t.Fatalf("Padding failed: %v", err)
	}
	if result.Width != 2 || result.Height != 1 {
		t.Fatalf("dimensions: got %dx%d, want 2x1", result.Width, result.Height)
	}
	if px := result.Pixel(0, 0); px[0] != 0 || px[2] != 255 {
		t.Errorf("BGR pad: got %v, want red in the last channel", px)
	}
}

func TestPadding_NonPositiveSides(t *testing.T) {
	img := createIndexed(3, 3)

	result, err := Padding(img, PaddingParams{Top: -2, Bottom: 0, Left: 2, Right: -1, Pad: pixel.MustParseColor("#808080")})
	if err != nil {
		t.Fatalf("Padding failed: %v", err)
	}
	if result.Width != 5 || result.Height != 3 {
		t.Errorf("dimensions: got %dx%d, want 5x3", result.Width, result.Height)
	}
	if got := result.At(2, 0, 0); got != 0 {
		t.Errorf("first source pixel: got %v, want 0", got)
	}
	if got := result.At(0, 0, 0); got != 128 {
		t.Errorf("pad pixel: got %v, want 128", got)
	}
}

func TestPaste_Clips(t *testing.T) {
	dst := pixel.New(4, 4, pixel.Gray, pixel.Uint8)
	src := createSolid(3, 3, pixel.Gray, 9)

	if n := Paste(dst, src, 2, -1); n != 4 {
		t.Errorf("pixels written: got %d, want 4", n)
	}
	if dst.At(3, 1, 0) != 9 || dst.At(1, 1, 0) != 0 || dst.At(2, 2, 0) != 0 {
		t.Errorf("unexpected canvas: %v", dst.Data)
	}
	if n := Paste(dst, src, 10, 10); n != 0 {
		t.Errorf("off-canvas paste wrote %d pixels", n)
	}
}

func TestRect_Overlaps(t *testing.T) {
	a := Rect{0, 0, 2, 2}
	if !a.Overlaps(Rect{1, 1, 2, 2}) {
		t.Error("overlapping rectangles reported disjoint")
	}
	if a.Overlaps(Rect{2, 0, 2, 2}) {
		t.Error("touching rectangles reported overlapping")
	}
}

func TestPadding_PixelLimit(t *testing.T) {
	img := createSolid(2, 2, pixel.Gray, 9)

	tests := []struct {
		name    string
		p       PaddingParams
		wantErr bool
	}{
		{"at limit", PaddingParams{Left: 1, Right: 1, Top: 1, Bottom: 1, MaxPixels: 16}, false},
		{"over limit", PaddingParams{Left: 1, Right: 1, Top: 1, Bottom: 2, MaxPixels: 16}, true},
		{"default limit", PaddingParams{Left: 1e6, Top: 1e6}, true},
		{"overflowing sides", PaddingParams{Left: math.MaxInt, Right: math.MaxInt}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Padding(img, tt.p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Padding: got err=%v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !imgerr.IsProcessing(err) {
				t.Errorf("error kind: got %v, want processing", imgerr.KindOf(err))
			}
		})
	}
}
