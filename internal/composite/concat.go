package composite

import (
	"fmt"
	"slices"

	"github.com/ironsheep/image-engine/internal/imaging"
	"github.com/ironsheep/image-engine/internal/imgerr"
	"github.com/ironsheep/image-engine/internal/pixel"
)

// Direction is the axis and order along which tiles are joined.
type Direction string

const (
	Right Direction = "right"
	Left  Direction = "left"
	Up    Direction = "up"
	Down  Direction = "down"
)

func (d Direction) horizontal() bool { return d == Right || d == Left }

// Strategy says how tiles of different cross-axis size are reconciled.
type Strategy string

const (
	StrategyResize   Strategy = "resize"
	StrategyPadStart Strategy = "pad-start"
	StrategyPadEnd   Strategy = "pad-end"
	StrategyPadBoth  Strategy = "pad-both"
)

// ConcatParams configures Concat.
type ConcatParams struct {
	Direction Direction   `json:"direction"`
	Strategy  Strategy    `json:"strategy"`
	Pad       pixel.Color `json:"-"`

	// MaxPixels bounds the joined image and every fitted tile; <= 0 selects
	// pixel.DefaultMaxPixels.
	MaxPixels int `json:"-"`
}

func (p ConcatParams) validate() error {
	switch p.Direction {
	case Right, Left, Up, Down:
	default:
		return imgerr.Input("invalid concat direction %q", p.Direction)
	}
	switch p.Strategy {
	case StrategyResize, StrategyPadStart, StrategyPadEnd, StrategyPadBoth:
	default:
		return imgerr.Input("invalid concat strategy %q", p.Strategy)
	}
	return nil
}

// Concat joins images side by side (right, left) or stacked (down, up).
//
// All tiles are first converted to the negotiated channel format. Tiles are
// then matched to the largest cross-axis size, either by scaling them with
// their aspect ratio kept or by padding with p.Pad. Left and up place the
// first image last.
func Concat(imgs []*pixel.Buffer, p ConcatParams) (*pixel.Buffer, error) {
	if len(imgs) == 0 {
		return nil, imgerr.Input("concat needs at least one image")
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	for i, img := range imgs {
		if err := img.Validate(); err != nil {
			return nil, imgerr.WrapInput(err, fmt.Sprintf("image %d", i))
		}
	}
	tiles, err := normalizeAll(imgs)
	if err != nil {
		return nil, err
	}

	horizontal := p.Direction.horizontal()
	cross := func(b *pixel.Buffer) int {
		if horizontal {
			return b.Height
		}
		return b.Width
	}

	baseline := 0
	for _, t := range tiles {
		baseline = max(baseline, cross(t))
	}

	for i, t := range tiles {
		if tiles[i], err = fit(t, baseline, horizontal, p); err != nil {
			return nil, err
		}
	}

	if p.Direction == Left || p.Direction == Up {
		slices.Reverse(tiles)
	}

	total := 0
	for _, t := range tiles {
		if horizontal {
			total += t.Width
		} else {
			total += t.Height
		}
	}

	w, h := baseline, total
	if horizontal {
		w, h = total, baseline
	}
	if err := pixel.CheckPixels(w, h, p.MaxPixels); err != nil {
		return nil, err
	}
	canvas := pixel.New(w, h, tiles[0].Space, tiles[0].Type)

	offset := 0
	for _, t := range tiles {
		if horizontal {
			imaging.Paste(canvas, t, offset, 0)
			offset += t.Width
		} else {
			imaging.Paste(canvas, t, 0, offset)
			offset += t.Height
		}
	}
	return canvas, nil
}

// fit brings one tile to the baseline cross-axis size.
func fit(t *pixel.Buffer, baseline int, horizontal bool, p ConcatParams) (*pixel.Buffer, error) {
	size := t.Width
	if horizontal {
		size = t.Height
	}
	delta := baseline - size
	if delta <= 0 {
		return t, nil
	}

	if p.Strategy == StrategyResize {
		scale := float64(baseline) / float64(size)
		w, h := baseline, max(1, int(float64(t.Height)*scale))
		if horizontal {
			w, h = max(1, int(float64(t.Width)*scale)), baseline
		}
		if err := pixel.CheckPixels(w, h, p.MaxPixels); err != nil {
			return nil, err
		}
		return imaging.ResizeTo(t, w, h)
	}

	before, after := PadSplit(p.Strategy, delta)
	pad := imaging.PaddingParams{Pad: p.Pad, MaxPixels: p.MaxPixels}
	if horizontal {
		pad.Top, pad.Bottom = before, after
	} else {
		pad.Left, pad.Right = before, after
	}
	return imaging.Padding(t, pad)
}

// PadSplit distributes delta pixels of padding before and after a tile.
func PadSplit(s Strategy, delta int) (before, after int) {
	switch s {
	case StrategyPadStart:
		return delta, 0
	case StrategyPadEnd:
		return 0, delta
	case StrategyPadBoth:
		before = delta / 2
		return before, delta - before
	}
	return 0, 0
}
