package imaging

import (
	"testing"

	"github.com/ironsheep/image-engine/internal/imgerr"
	"github.com/ironsheep/image-engine/internal/pixel"
)

func TestNormalizeKernelSize(t *testing.T) {
	tests := []struct{ in, want int }{
		{-4, 3}, {0, 3}, {3, 3}, {4, 5}, {7, 7}, {14, 15}, {15, 15}, {16, 15}, {99, 15},
	}
	for _, tt := range tests {
		if got := NormalizeKernelSize(tt.in); got != tt.want {
			t.Errorf("NormalizeKernelSize(%d): got %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeIntensity(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{-1, 0}, {0.5, 0.5}, {2, 2}, {3.5, 2},
	}
	for _, tt := range tests {
		if got := NormalizeIntensity(tt.in); got != tt.want {
			t.Errorf("NormalizeIntensity(%v): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFilter_UniformImage(t *testing.T) {
	img := createSolid(9, 7, pixel.RGBA, 100, 150, 200, 77)

	tests := []struct {
		name   string
		params FilterParams
		want   []float64
	}{
		{"blur", FilterParams{FilterBlur, 5, 1}, []float64{100, 150, 200, 77}},
		{"partial blur", FilterParams{FilterBlur, 3, 0.3}, []float64{100, 150, 200, 77}},
		{"sharpen", FilterParams{FilterSharpen, 3, 1}, []float64{100, 150, 200, 77}},
		{"large sharpen", FilterParams{FilterSharpen, 7, 2}, []float64{100, 150, 200, 77}},
		{"gaussian", FilterParams{FilterGaussian, 9, 1}, []float64{100, 150, 200, 77}},
		{"gaussian zero sigma", FilterParams{FilterGaussian, 5, 0}, []float64{100, 150, 200, 77}},
		{"edge", FilterParams{FilterEdge, 3, 1}, []float64{0, 0, 0, 77}},
		{"emboss", FilterParams{FilterEmboss, 3, 1}, []float64{228, 255, 255, 77}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Filter(img, tt.params)
			if err != nil {
				t.Fatalf("Filter failed: %v", err)
			}
			if !result.SameShape(img) {
				t.Fatalf("shape changed: got %dx%d %s", result.Width, result.Height, result.Space)
			}
			assertUniform(t, result, tt.want...)
		})
	}
}

func TestFilter_UnknownType(t *testing.T) {
	_, err := Filter(createIndexed(3, 3), FilterParams{Type: "posterize", KernelSize: 3, Intensity: 1})
	if !imgerr.IsProcessing(err) {
		t.Errorf("got %v, want processing error", err)
	}
}

func TestFilter_EdgeStep(t *testing.T) {
	// Left half black, right half white.
	img := pixel.New(8, 4, pixel.Gray, pixel.Uint8)
	for y := 0; y < 4; y++ {
		for x := 4; x < 8; x++ {
			img.Set(x, y, 0, 255)
		}
	}

	result, err := Filter(img, FilterParams{FilterEdge, 3, 1})
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	if got := result.At(0, 1, 0); got != 0 {
		t.Errorf("flat region: got %v, want 0", got)
	}
	// |Gx| saturates at 255 across the step, |Gy| is zero.
	if got := result.At(4, 1, 0); got != 128 {
		t.Errorf("step: got %v, want 128", got)
	}
}

func TestFilter_BlurSpreads(t *testing.T) {
	img := pixel.New(5, 5, pixel.Gray, pixel.Uint8)
	img.Set(2, 2, 0, 90)

	result, err := Filter(img, FilterParams{FilterBlur, 3, 1})
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	if got := result.At(2, 2, 0); got != 10 {
		t.Errorf("center: got %v, want 10", got)
	}
	if got := result.At(1, 1, 0); got != 10 {
		t.Errorf("neighbor: got %v, want 10", got)
	}
	if got := result.At(0, 0, 0); got != 0 {
		t.Errorf("far corner: got %v, want 0", got)
	}
}

func TestSobelKernels(t *testing.T) {
	gx, gy := sobelKernels(3)
	wantX := []float64{-1, 0, 1, -2, 0, 2, -1, 0, 1}
	wantY := []float64{-1, -2, -1, 0, 0, 0, 1, 2, 1}
	for i := range wantX {
		if gx.Matrix[i] != wantX[i] || gy.Matrix[i] != wantY[i] {
			t.Fatalf("sobel 3x3: got %v / %v", gx.Matrix, gy.Matrix)
		}
	}

	gx5, _ := sobelKernels(5)
	if gx5.Width != 5 || gx5.At(0, 2) != -6 || gx5.At(4, 2) != 6 {
		t.Errorf("sobel 5x5 middle row: got %v", gx5.Matrix[10:15])
	}
}

func TestSharpenKernelSumsToOne(t *testing.T) {
	for _, size := range []int{3, 5, 9, 15} {
		k := sharpenKernel(size, 1.5)
		var sum float64
		for _, v := range k.Matrix {
			sum += v
		}
		if sum < 0.999999 || sum > 1.000001 {
			t.Errorf("size %d: kernel sums to %v", size, sum)
		}
	}
}

func TestReflect101(t *testing.T) {
	tests := []struct{ i, n, want int }{
		{-1, 5, 1}, {-2, 5, 2}, {5, 5, 3}, {6, 5, 2}, {0, 5, 0}, {-3, 1, 0}, {-4, 3, 0},
	}
	for _, tt := range tests {
		if got := reflect101(tt.i, tt.n); got != tt.want {
			t.Errorf("reflect101(%d, %d): got %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}
