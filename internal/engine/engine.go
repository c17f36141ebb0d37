// Package engine runs image operations on a bounded worker pool.
//
// Every entry point ingests its inputs on the calling goroutine, so malformed
// input is reported before anything is queued. The operation and the output
// encoding then run on a worker and the outcome is delivered through a Task,
// together with the time spent in each phase.
package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/image-engine/internal/composite"
	"github.com/ironsheep/image-engine/internal/encode"
	"github.com/ironsheep/image-engine/internal/imaging"
	"github.com/ironsheep/image-engine/internal/imgerr"
	"github.com/ironsheep/image-engine/internal/ingest"
	"github.com/ironsheep/image-engine/internal/pixel"
)

// Options configures an Engine. Zero values select defaults.
type Options struct {
	Workers                 int
	QueueSize               int
	DefaultQuality          int
	MosaicParallelThreshold int
	AutoOrient              bool

	// MaxPixels bounds every decoded input and every operation's output.
	// Zero selects pixel.DefaultMaxPixels.
	MaxPixels int
}

// Engine owns the worker pool and the codecs shared by all tasks.
type Engine struct {
	pool    *Pool
	decoder *ingest.Decoder
	encoder *encode.Encoder
	opts    Options
	logger  *zap.Logger
	nextID  atomic.Uint64
}

// New starts an engine. Call Close to stop its workers.
func New(opts Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		pool:    newPool(opts.Workers, opts.QueueSize),
		decoder: ingest.NewDecoder(opts.AutoOrient, opts.MaxPixels),
		encoder: encode.New(logger.Named("encode"), opts.DefaultQuality),
		opts:    opts,
		logger:  logger,
	}
	logger.Debug("engine started",
		zap.Int("workers", e.pool.NumWorkers()),
		zap.Int("queue", cap(e.pool.workC)))
	return e
}

// Close waits for queued tasks and stops the workers.
func (e *Engine) Close() {
	e.pool.Close()
}

// Resize scales an image.
func (e *Engine) Resize(ctx context.Context, src ingest.Source, p imaging.ResizeParams, out encode.OutputSpec) (*Task, error) {
	p.MaxPixels = e.maxPixels(p.MaxPixels)
	return e.single(ctx, "resize", src, out, func(b *pixel.Buffer) (*pixel.Buffer, error) {
		return imaging.Resize(b, p)
	})
}

// Rotate turns an image, filling exposed corners with the pad color.
func (e *Engine) Rotate(ctx context.Context, src ingest.Source, p imaging.RotateParams, out encode.OutputSpec) (*Task, error) {
	p.MaxPixels = e.maxPixels(p.MaxPixels)
	return e.single(ctx, "rotate", src, out, func(b *pixel.Buffer) (*pixel.Buffer, error) {
		return imaging.Rotate(b, p)
	})
}

// Crop extracts a region, clamped to the image.
func (e *Engine) Crop(ctx context.Context, src ingest.Source, p imaging.CropParams, out encode.OutputSpec) (*Task, error) {
	return e.single(ctx, "crop", src, out, func(b *pixel.Buffer) (*pixel.Buffer, error) {
		return imaging.Crop(b, p)
	})
}

// Padding adds a colored border.
func (e *Engine) Padding(ctx context.Context, src ingest.Source, p imaging.PaddingParams, out encode.OutputSpec) (*Task, error) {
	p.MaxPixels = e.maxPixels(p.MaxPixels)
	return e.single(ctx, "padding", src, out, func(b *pixel.Buffer) (*pixel.Buffer, error) {
		return imaging.Padding(b, p)
	})
}

// Filter applies a convolution filter.
func (e *Engine) Filter(ctx context.Context, src ingest.Source, p imaging.FilterParams, out encode.OutputSpec) (*Task, error) {
	return e.single(ctx, "filter", src, out, func(b *pixel.Buffer) (*pixel.Buffer, error) {
		return imaging.Filter(b, p)
	})
}

// Concat joins images along one axis.
func (e *Engine) Concat(ctx context.Context, srcs []ingest.Source, p composite.ConcatParams, out encode.OutputSpec) (*Task, error) {
	p.MaxPixels = e.maxPixels(p.MaxPixels)
	return e.multi(ctx, "concat", srcs, out, func(bufs []*pixel.Buffer) (*pixel.Buffer, error) {
		return composite.Concat(bufs, p)
	})
}

// Blend mixes two images; opacity weights the first one.
func (e *Engine) Blend(ctx context.Context, a, b ingest.Source, opacity float64, out encode.OutputSpec) (*Task, error) {
	return e.multi(ctx, "blend", []ingest.Source{a, b}, out, func(bufs []*pixel.Buffer) (*pixel.Buffer, error) {
		return composite.Blend(bufs[0], bufs[1], opacity, e.opts.MaxPixels)
	})
}

// Mosaic places images at fixed positions on a canvas.
func (e *Engine) Mosaic(ctx context.Context, srcs []ingest.Source, p composite.MosaicParams, out encode.OutputSpec) (*Task, error) {
	if p.ParallelThreshold == 0 {
		p.ParallelThreshold = e.opts.MosaicParallelThreshold
	}
	p.MaxPixels = e.maxPixels(p.MaxPixels)
	return e.multi(ctx, "mosaic", srcs, out, func(bufs []*pixel.Buffer) (*pixel.Buffer, error) {
		return composite.Mosaic(bufs, p)
	})
}

// AdvancedMosaic places resized and rotated images on a canvas in z-order.
func (e *Engine) AdvancedMosaic(ctx context.Context, srcs []ingest.Source, p composite.MosaicParams, out encode.OutputSpec) (*Task, error) {
	p.MaxPixels = e.maxPixels(p.MaxPixels)
	return e.multi(ctx, "advanced_mosaic", srcs, out, func(bufs []*pixel.Buffer) (*pixel.Buffer, error) {
		return composite.AdvancedMosaic(bufs, p)
	})
}

// maxPixels returns the caller's limit, or the engine's when none is set.
func (e *Engine) maxPixels(limit int) int {
	if limit > 0 {
		return limit
	}
	return e.opts.MaxPixels
}

func (e *Engine) single(ctx context.Context, op string, src ingest.Source, out encode.OutputSpec, fn func(*pixel.Buffer) (*pixel.Buffer, error)) (*Task, error) {
	start := time.Now()
	buf, info, err := e.decoder.IngestInfo(src)
	if err != nil {
		return nil, err
	}
	fields := []zap.Field{
		zap.String("op", op),
		zap.Int("width", buf.Width),
		zap.Int("height", buf.Height),
		zap.String("space", string(pixel.ResolveSingle(buf))),
		zap.String("dtype", string(buf.Type)),
	}
	if info != nil {
		fields = append(fields, zap.String("format", info.Format), zap.String("depth", info.ColorDepth))
	}
	e.logger.Debug("image ingested", fields...)
	return e.submit(ctx, op, millis(time.Since(start)), out, func() (*pixel.Buffer, error) {
		return fn(buf)
	})
}

func (e *Engine) multi(ctx context.Context, op string, srcs []ingest.Source, out encode.OutputSpec, fn func([]*pixel.Buffer) (*pixel.Buffer, error)) (*Task, error) {
	start := time.Now()
	bufs, err := e.decoder.IngestAll(srcs)
	if err != nil {
		return nil, err
	}
	return e.submit(ctx, op, millis(time.Since(start)), out, func() (*pixel.Buffer, error) {
		return fn(bufs)
	})
}

// submit validates the output spec and queues the operation. The returned
// task runs the operation and then the encoder.
func (e *Engine) submit(ctx context.Context, op string, convertMs float64, out encode.OutputSpec, fn func() (*pixel.Buffer, error)) (*Task, error) {
	out = out.WithDefaults(e.opts.DefaultQuality)
	if err := out.Validate(); err != nil {
		return nil, err
	}

	t := newTask(e.nextID.Add(1), op)
	logger := e.logger.With(zap.Uint64("task", t.ID), zap.String("op", op))

	err := e.pool.Submit(ctx, func() {
		t.start()
		res, err := e.run(context.WithoutCancel(ctx), fn, out)
		if res != nil {
			res.Timing.ConvertMs = convertMs
		}
		if err != nil {
			logger.Warn("task failed", zap.Error(err), zap.String("kind", imgerr.KindOf(err).String()))
		} else {
			logger.Debug("task completed",
				zap.Float64("convertMs", res.Timing.ConvertMs),
				zap.Float64("taskMs", res.Timing.TaskMs),
				zap.Float64("encodeMs", res.Timing.EncodeMs))
		}
		t.finish(res, err)
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("task queued", zap.Float64("convertMs", convertMs))
	return t, nil
}

// run executes one task body. A panic in the operation or the encoder is
// reported as a processing error.
func (e *Engine) run(ctx context.Context, fn func() (*pixel.Buffer, error), out encode.OutputSpec) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, imgerr.Processing("operation panicked: %v", r)
		}
	}()

	start := time.Now()
	buf, err := fn()
	if err != nil {
		return nil, err
	}
	taskMs := millis(time.Since(start))

	start = time.Now()
	img, err := e.encoder.Encode(ctx, buf, out)
	if err != nil {
		return nil, err
	}
	return &Result{
		Image:  img,
		Timing: Timing{TaskMs: taskMs, EncodeMs: millis(time.Since(start))},
	}, nil
}

// WaitAll waits for a batch of tasks and returns their results in the same
// order. The first failure is returned, labeled with its index.
func WaitAll(ctx context.Context, tasks []*Task) ([]*Result, error) {
	results := make([]*Result, len(tasks))
	g, ctx := errgroup.WithContext(ctx)
	for i, t := range tasks {
		g.Go(func() error {
			res, err := t.Wait(ctx)
			if err != nil {
				return fmt.Errorf("image %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
