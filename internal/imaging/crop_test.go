package imaging

import (
	"math"
	"testing"

	"github.com/ironsheep/image-engine/internal/imgerr"
	"github.com/ironsheep/image-engine/internal/pixel"
)

func TestCrop(t *testing.T) {
	img := createIndexed(10, 10)

	result, err := Crop(img, CropParams{X: 2, Y: 3, Width: 4, Height: 5})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	if result.Width != 4 || result.Height != 5 {
		t.Errorf("dimensions: got %dx%d, want 4x5", result.Width, result.Height)
	}
	if got := result.At(0, 0, 0); got != 32 {
		t.Errorf("top-left: got %v, want 32", got)
	}
	if got := result.At(3, 4, 0); got != 75 {
		t.Errorf("bottom-right: got %v, want 75", got)
	}
}

func TestCrop_Normalized(t *testing.T) {
	img := createIndexed(10, 20)

	result, err := Crop(img, CropParams{X: 0.5, Y: 0.25, Width: 0.5, Height: 0.5, Normalized: true})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	if result.Width != 5 || result.Height != 10 {
		t.Errorf("dimensions: got %dx%d, want 5x10", result.Width, result.Height)
	}
	if got := result.At(0, 0, 0); got != 55 {
		t.Errorf("top-left: got %v, want 55", got)
	}
}

func TestCrop_Clamping(t *testing.T) {
	img := createIndexed(8, 6)

	tests := []struct {
		name   string
		params CropParams
		want   Rect
	}{
		{"fully out of bounds", CropParams{X: 8, Y: 6, Width: 4, Height: 4}, Rect{7, 5, 1, 1}},
		{"negative origin", CropParams{X: -3, Y: -1, Width: 2, Height: 2}, Rect{0, 0, 2, 2}},
		{"too wide", CropParams{X: 5, Y: 0, Width: 100, Height: 2}, Rect{5, 0, 3, 2}},
		{"zero size", CropParams{X: 1, Y: 1, Width: 0, Height: 0}, Rect{1, 1, 1, 1}},
		{"rounds half away from zero", CropParams{X: 1.5, Y: 0.4, Width: 2.5, Height: 1.5}, Rect{2, 0, 3, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.params.Resolve(img.Width, img.Height); got != tt.want {
				t.Errorf("Resolve: got %+v, want %+v", got, tt.want)
			}
			result, err := Crop(img, tt.params)
			if err != nil {
				t.Fatalf("Crop should clamp, not fail: %v", err)
			}
			if result.Width < 1 || result.Height < 1 {
				t.Errorf("crop must be at least 1x1, got %dx%d", result.Width, result.Height)
			}
		})
	}
}

func TestCrop_PreservesFormat(t *testing.T) {
	img := createSolid(4, 4, pixel.BGRA, 1, 2, 3, 4)

	result, err := Crop(img, CropParams{X: 1, Y: 1, Width: 2, Height: 2})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if result.Space != pixel.BGRA {
		t.Errorf("space: got %s, want BGRA", result.Space)
	}
	assertUniform(t, result, 1, 2, 3, 4)
}

func TestCrop_NotFinite(t *testing.T) {
	img := createIndexed(4, 4)
	_, err := Crop(img, CropParams{X: math.NaN(), Width: 1, Height: 1})
	if !imgerr.IsInput(err) {
		t.Errorf("NaN crop: got %v, want input error", err)
	}
}

func TestRegionParams(t *testing.T) {
	img := createIndexed(10, 10)

	tests := []struct {
		region string
		want   Rect
	}{
		{"top-left", Rect{0, 0, 5, 5}},
		{"top-right", Rect{5, 0, 5, 5}},
		{"bottom-left", Rect{0, 5, 5, 5}},
		{"bottom-right", Rect{5, 5, 5, 5}},
		{"top-half", Rect{0, 0, 10, 5}},
		{"bottom-half", Rect{0, 5, 10, 5}},
		{"left-half", Rect{0, 0, 5, 10}},
		{"right-half", Rect{5, 0, 5, 10}},
		{"center", Rect{3, 3, 5, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.region, func(t *testing.T) {
			p, err := RegionParams(tt.region)
			if err != nil {
				t.Fatalf("RegionParams failed: %v", err)
			}
			if got := p.Resolve(img.Width, img.Height); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}

	if _, err := RegionParams("middle-ish"); err == nil {
		t.Error("RegionParams should fail for an unknown region")
	}
}
