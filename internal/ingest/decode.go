package ingest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/image-engine/internal/imgerr"
	"github.com/ironsheep/image-engine/internal/pixel"
)

// Info describes an encoded image after decoding.
type Info struct {
	// Format is the sniffed container format, e.g. "png" or "jpeg".
	Format string `json:"format"`

	// ColorDepth is "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha is true when the decoded buffer kept an alpha channel.
	HasAlpha bool `json:"has_alpha"`
}

// Source is one image as supplied by a caller: either a raw pixel object or a
// complete encoded file.
type Source struct {
	Raw     *RawImage
	Encoded []byte
}

// Decoder turns sources into pixel buffers.
type Decoder struct {
	autoOrient bool
	maxPixels  int
}

// NewDecoder returns a decoder. When autoOrient is set, encoded images are
// rotated according to their EXIF orientation tag. Encoded images with more
// than maxPixels pixels are rejected before decoding; maxPixels <= 0 selects
// pixel.DefaultMaxPixels.
func NewDecoder(autoOrient bool, maxPixels int) *Decoder {
	if maxPixels <= 0 {
		maxPixels = pixel.DefaultMaxPixels
	}
	return &Decoder{autoOrient: autoOrient, maxPixels: maxPixels}
}

// Ingest validates or decodes src into a buffer.
func (d *Decoder) Ingest(src Source) (*pixel.Buffer, error) {
	buf, _, err := d.IngestInfo(src)
	return buf, err
}

// IngestInfo is Ingest that also describes encoded sources. The Info is nil
// for raw sources.
func (d *Decoder) IngestInfo(src Source) (*pixel.Buffer, *Info, error) {
	switch {
	case src.Raw != nil:
		buf, err := FromRaw(src.Raw)
		return buf, nil, err
	case len(src.Encoded) > 0:
		return d.Decode(src.Encoded)
	}
	return nil, nil, imgerr.Input("image is missing: expected raw data or an encoded buffer")
}

// IngestAll ingests every source, failing on the first invalid one.
func (d *Decoder) IngestAll(srcs []Source) ([]*pixel.Buffer, error) {
	out := make([]*pixel.Buffer, len(srcs))
	for i, src := range srcs {
		buf, err := d.Ingest(src)
		if err != nil {
			return nil, imgerr.WrapInput(err, fmt.Sprintf("image %d", i))
		}
		out[i] = buf
	}
	return out, nil
}

// Decode sniffs the format of data, decodes it and converts the result into a
// GRAY, RGB or RGBA buffer. 16-bit sources keep their depth.
func (d *Decoder) Decode(data []byte) (*pixel.Buffer, *Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, nil, imgerr.WrapInput(err, "unrecognized image data")
	}
	if n, ok := pixel.ByteSize(cfg.Width, cfg.Height, 1, 1); !ok || n > d.maxPixels {
		return nil, nil, imgerr.Input("%s image is %dx%d, more than %d pixels",
			format, cfg.Width, cfg.Height, d.maxPixels)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(d.autoOrient))
	if err != nil {
		return nil, nil, imgerr.WrapInput(err, "failed to decode "+format+" image")
	}

	buf := FromImage(img)
	info := &Info{
		Format:     format,
		ColorDepth: "8-bit",
		HasAlpha:   buf.Space.HasAlpha(),
	}
	if buf.Type == pixel.Uint16 {
		info.ColorDepth = "16-bit"
	}
	return buf, info, nil
}

type opaquer interface {
	Opaque() bool
}

// FromImage converts a decoded image into a buffer. Gray images stay single
// channel and opaque images drop their alpha channel.
func FromImage(img image.Image) *pixel.Buffer {
	switch src := img.(type) {
	case *image.Gray:
		return fromGray8(src)
	case *image.Gray16:
		return fromGray16(src)
	case *image.RGBA64, *image.NRGBA64:
		return fromDeep(img)
	}
	return fromNRGBA(imaging.Clone(img))
}

func fromGray8(src *image.Gray) *pixel.Buffer {
	b := src.Bounds()
	buf := pixel.New(b.Dx(), b.Dy(), pixel.Gray, pixel.Uint8)
	for y := 0; y < b.Dy(); y++ {
		off := src.PixOffset(b.Min.X, b.Min.Y+y)
		copy(buf.Row(y), src.Pix[off:off+b.Dx()])
	}
	return buf
}

func fromGray16(src *image.Gray16) *pixel.Buffer {
	b := src.Bounds()
	buf := pixel.New(b.Dx(), b.Dy(), pixel.Gray, pixel.Uint16)
	for y := 0; y < b.Dy(); y++ {
		row := buf.Row(y)
		off := src.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < b.Dx(); x++ {
			v := binary.BigEndian.Uint16(src.Pix[off+2*x:])
			binary.LittleEndian.PutUint16(row[2*x:], v)
		}
	}
	return buf
}

// fromDeep handles 16-bit color images through the non-premultiplied model.
func fromDeep(img image.Image) *pixel.Buffer {
	b := img.Bounds()
	space := pixel.RGBA
	if o, ok := img.(opaquer); ok && o.Opaque() {
		space = pixel.RGB
	}
	ch := space.Channels()
	buf := pixel.New(b.Dx(), b.Dy(), space, pixel.Uint16)
	for y := 0; y < b.Dy(); y++ {
		row := buf.Row(y)
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBA64Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
			px := row[x*ch*2:]
			binary.LittleEndian.PutUint16(px[0:], c.R)
			binary.LittleEndian.PutUint16(px[2:], c.G)
			binary.LittleEndian.PutUint16(px[4:], c.B)
			if ch == 4 {
				binary.LittleEndian.PutUint16(px[6:], c.A)
			}
		}
	}
	return buf
}

func fromNRGBA(src *image.NRGBA) *pixel.Buffer {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if !src.Opaque() {
		buf := pixel.New(w, h, pixel.RGBA, pixel.Uint8)
		for y := 0; y < h; y++ {
			copy(buf.Row(y), src.Pix[y*src.Stride:y*src.Stride+w*4])
		}
		return buf
	}
	buf := pixel.New(w, h, pixel.RGB, pixel.Uint8)
	for y := 0; y < h; y++ {
		row := buf.Row(y)
		line := src.Pix[y*src.Stride:]
		for x := 0; x < w; x++ {
			copy(row[x*3:x*3+3], line[x*4:x*4+3])
		}
	}
	return buf
}
