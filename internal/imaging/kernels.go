package imaging

import (
	"math"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/parallel"
)

// boxKernel returns a size x size mean filter.
func boxKernel(size int) *convolution.Kernel {
	k := convolution.NewKernel(size, size)
	v := 1 / float64(size*size)
	for i := range k.Matrix {
		k.Matrix[i] = v
	}
	return k
}

// sharpenKernel returns an unsharp kernel whose weights sum to 1.
//
// Size 3 is the classic cross with -intensity on the four direct neighbors.
// Larger sizes weight the eight surrounding pixels by -intensity/(dx+dy+1)
// and leave the rest of the window at zero.
func sharpenKernel(size int, intensity float64) *convolution.Kernel {
	k := convolution.NewKernel(size, size)
	c := size / 2
	if size == 3 {
		k.Matrix[1] = -intensity
		k.Matrix[3] = -intensity
		k.Matrix[4] = 1 + 4*intensity
		k.Matrix[5] = -intensity
		k.Matrix[7] = -intensity
		return k
	}

	var neighbors float64
	for y := c - 1; y <= c+1; y++ {
		for x := c - 1; x <= c+1; x++ {
			if x == c && y == c {
				continue
			}
			dx, dy := abs(x-c), abs(y-c)
			w := -intensity / float64(dx+dy+1)
			k.Matrix[y*size+x] = w
			neighbors += w
		}
	}
	k.Matrix[c*size+c] = 1 - neighbors
	return k
}

// embossKernel returns the top-left to bottom-right relief kernel.
func embossKernel(intensity float64) *convolution.Kernel {
	k := convolution.NewKernel(3, 3)
	copy(k.Matrix, []float64{
		-2 * intensity, -intensity, 0,
		-intensity, 1, intensity,
		0, intensity, 2 * intensity,
	})
	return k
}

// gaussianKernel returns a normalized size x size Gaussian. A non-positive
// sigma is derived from the size.
func gaussianKernel(size int, sigma float64) *convolution.Kernel {
	if sigma <= 0 {
		sigma = 0.3*(float64(size-1)*0.5-1) + 0.8
	}
	row := make([]float64, size)
	c := float64(size-1) / 2
	var sum float64
	for i := range row {
		d := float64(i) - c
		row[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += row[i]
	}
	for i := range row {
		row[i] /= sum
	}
	return outer(row, row)
}

// sobelKernels returns the horizontal and vertical derivative kernels of the
// given size: a binomial smoothing row crossed with a central difference.
func sobelKernels(size int) (gx, gy *convolution.Kernel) {
	smooth := binomial(size - 1)
	deriv := convolve1D(binomial(size-3), []float64{-1, 0, 1})
	return outer(smooth, deriv), outer(deriv, smooth)
}

// binomial returns row n of Pascal's triangle.
func binomial(n int) []float64 {
	row := []float64{1}
	for i := 0; i < n; i++ {
		row = convolve1D(row, []float64{1, 1})
	}
	return row
}

func convolve1D(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, av := range a {
		for j, bv := range b {
			out[i+j] += av * bv
		}
	}
	return out
}

// outer builds a kernel whose row y is col[y] * row.
func outer(col, row []float64) *convolution.Kernel {
	k := convolution.NewKernel(len(row), len(col))
	for y, cv := range col {
		for x, rv := range row {
			k.Matrix[y*len(row)+x] = cv * rv
		}
	}
	return k
}

// reflect101 maps an out-of-range index back inside [0, n) by mirroring
// around the edge pixels without repeating them (gfedcb|abcdefgh|gfedcba).
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		} else {
			i = 2*n - 2 - i
		}
	}
	return i
}

// correlate applies k to every channel in chans of an interleaved plane with
// ch channels per pixel. Channels not listed are copied through unchanged.
func correlate(in []float32, w, h, ch int, chans []int, k *convolution.Kernel) []float32 {
	out := make([]float32, len(in))
	copy(out, in)
	kw, kh := k.MaxX(), k.MaxY()
	ax, ay := kw/2, kh/2

	// Precompute mirrored column offsets so the inner loop stays branch free.
	cols := make([][]int, w)
	for x := range cols {
		cols[x] = make([]int, kw)
		for i := range cols[x] {
			cols[x][i] = reflect101(x+i-ax, w) * ch
		}
	}

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				for _, c := range chans {
					var sum float64
					for ky := 0; ky < kh; ky++ {
						row := reflect101(y+ky-ay, h) * w * ch
						for kx, off := range cols[x] {
							sum += float64(in[row+off+c]) * k.At(kx, ky)
						}
					}
					out[(y*w+x)*ch+c] = float32(sum)
				}
			}
		}
	})
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
