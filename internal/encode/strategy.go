package encode

import (
	"bytes"
	"context"
	"image/png"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/ironsheep/image-engine/internal/imgerr"
	"github.com/ironsheep/image-engine/internal/pixel"
)

// Strategy serializes a buffer in one format.
type Strategy interface {
	Encode(ctx context.Context, b *pixel.Buffer, spec OutputSpec) ([]byte, error)
}

// Output is an encoded result. Raw output carries the buffer itself.
type Output struct {
	Format Format
	Data   []byte
	Raw    *pixel.Buffer
}

// Encoder dispatches to the strategy registered for each format.
type Encoder struct {
	strategies     map[Format]Strategy
	defaultQuality int
	logger         *zap.Logger
}

// New returns an encoder with the jpg, png and webp strategies. A zero
// defaultQuality means DefaultQuality.
func New(logger *zap.Logger, defaultQuality int) *Encoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Encoder{
		defaultQuality: defaultQuality,
		strategies: map[Format]Strategy{
			JPEG: &Jpeg{logger: logger},
			PNG:  &Png{logger: logger},
			WEBP: &Webp{logger: logger},
		},
		logger: logger,
	}
}

// Encode serializes b according to spec. Raw output returns b unchanged.
func (e *Encoder) Encode(ctx context.Context, b *pixel.Buffer, spec OutputSpec) (*Output, error) {
	spec = spec.WithDefaults(e.defaultQuality)
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if spec.Format == Raw {
		return &Output{Format: Raw, Raw: b}, nil
	}

	s, ok := e.strategies[spec.Format]
	if !ok {
		return nil, imgerr.Input("no encoder for format %q", spec.Format)
	}
	data, err := s.Encode(ctx, b, spec)
	if err != nil {
		return nil, err
	}
	return &Output{Format: spec.Format, Data: data}, nil
}

// Jpeg writes baseline JPEG. Alpha is dropped and samples are 8-bit.
type Jpeg struct {
	logger *zap.Logger
}

func (w *Jpeg) Encode(_ context.Context, b *pixel.Buffer, spec OutputSpec) ([]byte, error) {
	img, err := toImage(b, false, false)
	if err != nil {
		return nil, imgerr.WrapEncoding(err, "jpg")
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(spec.Quality)); err != nil {
		w.logger.Debug("jpg encode failed", zap.Error(err))
		return nil, imgerr.WrapEncoding(err, "jpg")
	}
	w.logger.Debug("encoded jpg",
		zap.Int("width", b.Width), zap.Int("height", b.Height),
		zap.Int("quality", spec.Quality), zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// Png writes PNG, keeping alpha and 16-bit depth.
type Png struct {
	logger *zap.Logger
}

func (w *Png) Encode(_ context.Context, b *pixel.Buffer, spec OutputSpec) ([]byte, error) {
	img, err := toImage(b, true, true)
	if err != nil {
		return nil, imgerr.WrapEncoding(err, "png")
	}

	level := png.BestSpeed
	if spec.PNGOptimize {
		level = png.BestCompression
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(level)); err != nil {
		w.logger.Debug("png encode failed", zap.Error(err))
		return nil, imgerr.WrapEncoding(err, "png")
	}
	w.logger.Debug("encoded png",
		zap.Int("width", b.Width), zap.Int("height", b.Height),
		zap.Bool("optimize", spec.PNGOptimize), zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// Webp writes lossy WebP, or lossless WebP at quality 100.
type Webp struct {
	logger *zap.Logger
}

func (w *Webp) Encode(_ context.Context, b *pixel.Buffer, spec OutputSpec) ([]byte, error) {
	img, err := toImage(b, true, false)
	if err != nil {
		return nil, imgerr.WrapEncoding(err, "webp")
	}

	var buf bytes.Buffer
	opts := &webp.Options{Lossless: spec.Quality == 100, Quality: float32(spec.Quality)}
	if err := webp.Encode(&buf, img, opts); err != nil {
		w.logger.Debug("webp encode failed", zap.Error(err))
		return nil, imgerr.WrapEncoding(err, "webp")
	}
	w.logger.Debug("encoded webp",
		zap.Int("width", b.Width), zap.Int("height", b.Height),
		zap.Int("quality", spec.Quality), zap.Bool("lossless", opts.Lossless), zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}
