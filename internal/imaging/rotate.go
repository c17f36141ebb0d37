package imaging

import (
	"math"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/image-engine/internal/imgerr"
	"github.com/ironsheep/image-engine/internal/pixel"
)

// angleEpsilon is how close to a right angle counts as exact.
const angleEpsilon = 1e-3

// RotateParams describes a rotation. Positive angles turn the image
// clockwise as displayed.
type RotateParams struct {
	Angle float64     `json:"angle"`
	Pad   pixel.Color `json:"-"`

	// MaxPixels bounds the rotated bounding box; <= 0 selects
	// pixel.DefaultMaxPixels.
	MaxPixels int `json:"-"`
}

// Rotate turns src by p.Angle degrees. Exposed corners are filled with p.Pad.
func Rotate(src *pixel.Buffer, p RotateParams) (*pixel.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if math.IsNaN(p.Angle) || math.IsInf(p.Angle, 0) {
		return nil, imgerr.Input("rotation angle must be finite")
	}
	w, h := RotatedSize(src.Width, src.Height, p.Angle)
	if err := pixel.CheckPixels(w, h, p.MaxPixels); err != nil {
		return nil, err
	}
	return RotateFill(src, p.Angle, p.Pad.Samples(src.Space, src.Type)), nil
}

// NormalizeAngle maps an angle in degrees into [0, 360).
func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// RotateFill turns src clockwise by deg degrees, filling exposed area with
// fill, which must already be in src's channel order and sample scale.
//
// Multiples of 90 degrees are exact pixel permutations; a zero rotation
// returns src itself. Any other angle resamples bilinearly into the rotated
// bounding box so that no content is cut off.
func RotateFill(src *pixel.Buffer, deg float64, fill []float64) *pixel.Buffer {
	a := NormalizeAngle(deg)
	switch {
	case near(a, 0), near(a, 360):
		return src
	case near(a, 90):
		return rotate90(src)
	case near(a, 180):
		return rotate180(src)
	case near(a, 270):
		return rotate270(src)
	}
	return rotateAffine(src, a*math.Pi/180, fill)
}

func near(a, b float64) bool {
	return math.Abs(a-b) < angleEpsilon
}

// RotatedSize returns the bounding box of a w x h image turned by deg degrees.
func RotatedSize(w, h int, deg float64) (int, int) {
	a := NormalizeAngle(deg)
	switch {
	case near(a, 0), near(a, 180), near(a, 360):
		return w, h
	case near(a, 90), near(a, 270):
		return h, w
	}
	rad := a * math.Pi / 180
	sin, cos := math.Abs(math.Sin(rad)), math.Abs(math.Cos(rad))
	nw := int(float64(h)*sin + float64(w)*cos)
	nh := int(float64(h)*cos + float64(w)*sin)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

func rotate90(src *pixel.Buffer) *pixel.Buffer {
	w, h := src.Width, src.Height
	dst := pixel.New(h, w, src.Space, src.Type)
	parallel.Line(w, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < h; x++ {
				copy(dst.Pixel(x, y), src.Pixel(y, h-1-x))
			}
		}
	})
	return dst
}

func rotate180(src *pixel.Buffer) *pixel.Buffer {
	w, h := src.Width, src.Height
	dst := pixel.New(w, h, src.Space, src.Type)
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				copy(dst.Pixel(x, y), src.Pixel(w-1-x, h-1-y))
			}
		}
	})
	return dst
}

func rotate270(src *pixel.Buffer) *pixel.Buffer {
	w, h := src.Width, src.Height
	dst := pixel.New(h, w, src.Space, src.Type)
	parallel.Line(w, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < h; x++ {
				copy(dst.Pixel(x, y), src.Pixel(w-1-y, x))
			}
		}
	})
	return dst
}

// rotateAffine maps every output pixel back into the source through the
// inverse rotation about the image centers and interpolates bilinearly.
// Neighbors outside the source contribute the fill value.
func rotateAffine(src *pixel.Buffer, rad float64, fill []float64) *pixel.Buffer {
	w, h := src.Width, src.Height
	nw, nh := RotatedSize(w, h, rad*180/math.Pi)
	ch := src.Channels()
	in := src.Floats()
	out := make([]float32, nw*nh*ch)

	sin, cos := math.Sin(rad), math.Cos(rad)
	cx, cy := float64(w-1)/2, float64(h-1)/2
	ncx, ncy := float64(nw-1)/2, float64(nh-1)/2

	sample := func(x, y, c int) float64 {
		if x < 0 || y < 0 || x >= w || y >= h {
			return fill[c]
		}
		return float64(in[(y*w+x)*ch+c])
	}

	parallel.Line(nh, func(start, end int) {
		for y := start; y < end; y++ {
			dy := float64(y) - ncy
			for x := 0; x < nw; x++ {
				dx := float64(x) - ncx
				sx := cos*dx + sin*dy + cx
				sy := -sin*dx + cos*dy + cy

				x0, y0 := int(math.Floor(sx)), int(math.Floor(sy))
				fx, fy := sx-float64(x0), sy-float64(y0)
				o := (y*nw + x) * ch
				for c := 0; c < ch; c++ {
					top := sample(x0, y0, c)*(1-fx) + sample(x0+1, y0, c)*fx
					bot := sample(x0, y0+1, c)*(1-fx) + sample(x0+1, y0+1, c)*fx
					out[o+c] = float32(top*(1-fy) + bot*fy)
				}
			}
		}
	})

	return pixel.FromFloats(out, nw, nh, src.Space, src.Type)
}
