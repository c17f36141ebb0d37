package composite

import (
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/image-engine/internal/imaging"
	"github.com/ironsheep/image-engine/internal/imgerr"
	"github.com/ironsheep/image-engine/internal/pixel"
)

// DefaultParallelThreshold is the placement count above which a mosaic may
// place images concurrently.
const DefaultParallelThreshold = 4

// Placement puts one input image on the canvas.
type Placement struct {
	// Index selects the input image. Out-of-range indices are skipped.
	Index int     `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`

	// The fields below are only used by AdvancedMosaic.

	// Rotation in degrees, clockwise.
	Rotation float64 `json:"rotation,omitempty"`
	// Width and Height resize the image before placement. Values <= 0 keep
	// the original size, or follow the aspect ratio when the other is set.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
	// ZIndex orders drawing; higher values draw later. Missing means the
	// placement's position in the list.
	ZIndex *int `json:"zIndex,omitempty"`
}

// MosaicParams describes the canvas and the placements on it.
type MosaicParams struct {
	Width      int
	Height     int
	Background pixel.Color
	Placements []Placement

	// Normalized interprets X and Y as fractions of the canvas size.
	Normalized bool

	// ParallelThreshold overrides DefaultParallelThreshold when positive.
	ParallelThreshold int

	// MaxPixels bounds the canvas and every transformed placement; <= 0
	// selects pixel.DefaultMaxPixels.
	MaxPixels int
}

func (p MosaicParams) position(pl Placement) (int, int) {
	if p.Normalized {
		return int(math.Round(pl.X * float64(p.Width))), int(math.Round(pl.Y * float64(p.Height)))
	}
	return int(math.Round(pl.X)), int(math.Round(pl.Y))
}

func (p MosaicParams) threshold() int {
	if p.ParallelThreshold > 0 {
		return p.ParallelThreshold
	}
	return DefaultParallelThreshold
}

// canvas validates the canvas size, negotiates its format over all inputs,
// converts the inputs to it and returns the background-filled canvas.
func (p MosaicParams) canvas(imgs []*pixel.Buffer) (*pixel.Buffer, []*pixel.Buffer, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, nil, imgerr.Processing("invalid canvas size %dx%d", p.Width, p.Height)
	}
	if err := pixel.CheckPixels(p.Width, p.Height, p.MaxPixels); err != nil {
		return nil, nil, err
	}
	converted, err := normalizeAll(imgs)
	if err != nil {
		return nil, nil, err
	}
	space, typ := pixel.NegotiateBuffers(imgs)
	return pixel.FillColor(p.Width, p.Height, space, typ, p.Background), converted, nil
}

type job struct {
	img  *pixel.Buffer
	x, y int
	rect imaging.Rect
}

// Mosaic places images at fixed positions on a background-filled canvas.
// Placements are clipped to the canvas; placements with an invalid index or
// no visible area are skipped. Later placements draw over earlier ones.
//
// When there are more placements than the parallel threshold and none of
// the visible rectangles overlap, placements are copied concurrently.
func Mosaic(imgs []*pixel.Buffer, p MosaicParams) (*pixel.Buffer, error) {
	canvas, converted, err := p.canvas(imgs)
	if err != nil {
		return nil, err
	}

	jobs := make([]job, 0, len(p.Placements))
	for _, pl := range p.Placements {
		if pl.Index < 0 || pl.Index >= len(converted) || converted[pl.Index] == nil {
			continue
		}
		img := converted[pl.Index]
		x, y := p.position(pl)
		r, ok := imaging.ClipRect(imaging.Rect{X: x, Y: y, Width: img.Width, Height: img.Height}, canvas.Width, canvas.Height)
		if !ok {
			continue
		}
		jobs = append(jobs, job{img: img, x: x, y: y, rect: r})
	}

	if len(jobs) > p.threshold() && disjoint(jobs) {
		var g errgroup.Group
		for _, j := range jobs {
			g.Go(func() error {
				imaging.Paste(canvas, j.img, j.x, j.y)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return canvas, nil
	}

	for _, j := range jobs {
		imaging.Paste(canvas, j.img, j.x, j.y)
	}
	return canvas, nil
}

// disjoint reports whether no two job rectangles share a pixel.
func disjoint(jobs []job) bool {
	for i := range jobs {
		for k := i + 1; k < len(jobs); k++ {
			if jobs[i].rect.Overlaps(jobs[k].rect) {
				return false
			}
		}
	}
	return true
}

// AdvancedMosaic is Mosaic with per-placement resize and rotation and an
// explicit stacking order. Placements are drawn one at a time in ascending
// ZIndex order, ties keeping list order. Rotation pads with the background.
func AdvancedMosaic(imgs []*pixel.Buffer, p MosaicParams) (*pixel.Buffer, error) {
	canvas, converted, err := p.canvas(imgs)
	if err != nil {
		return nil, err
	}
	fill := p.Background.Samples(canvas.Space, canvas.Type)

	order := make([]int, len(p.Placements))
	z := make([]int, len(p.Placements))
	for i, pl := range p.Placements {
		order[i] = i
		z[i] = i
		if pl.ZIndex != nil {
			z[i] = *pl.ZIndex
		}
	}
	sort.SliceStable(order, func(a, b int) bool { return z[order[a]] < z[order[b]] })

	for _, i := range order {
		pl := p.Placements[i]
		if pl.Index < 0 || pl.Index >= len(converted) || converted[pl.Index] == nil {
			continue
		}
		img, err := transform(converted[pl.Index], pl, fill, p.MaxPixels)
		if err != nil {
			return nil, err
		}
		x, y := p.position(pl)
		imaging.Paste(canvas, img, x, y)
	}
	return canvas, nil
}

// transform applies a placement's resize and rotation. Neither step may
// produce more than maxPixels pixels.
func transform(img *pixel.Buffer, pl Placement, fill []float64, maxPixels int) (*pixel.Buffer, error) {
	if pl.Width > 0 || pl.Height > 0 {
		w, h := pl.Width, pl.Height
		switch {
		case w <= 0:
			w = int(math.Round(float64(h) * float64(img.Width) / float64(img.Height)))
		case h <= 0:
			h = int(math.Round(float64(w) * float64(img.Height) / float64(img.Width)))
		}
		w, h = max(w, 1), max(h, 1)
		if err := pixel.CheckPixels(w, h, maxPixels); err != nil {
			return nil, err
		}
		var err error
		if img, err = imaging.ResizeTo(img, w, h); err != nil {
			return nil, err
		}
	}
	if math.Abs(pl.Rotation) > 1e-3 {
		rw, rh := imaging.RotatedSize(img.Width, img.Height, pl.Rotation)
		if err := pixel.CheckPixels(rw, rh, maxPixels); err != nil {
			return nil, err
		}
		img = imaging.RotateFill(img, pl.Rotation, fill)
	}
	return img, nil
}
