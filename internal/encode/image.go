package encode

import (
	"encoding/binary"
	"image"

	"github.com/ironsheep/image-engine/internal/pixel"
)

// toImage converts a buffer into a standard library image in RGB channel
// order. Alpha is kept only when keepAlpha is set and 16-bit depth only when
// deep is set; float32 samples are quantized. b itself is never modified.
func toImage(b *pixel.Buffer, keepAlpha, deep bool) (image.Image, error) {
	typ := pixel.Uint8
	if deep && b.Type != pixel.Uint8 {
		typ = pixel.Uint16
	}

	space := pixel.Gray
	if b.Space != pixel.Gray {
		space = pixel.RGB
		if keepAlpha && b.Space.HasAlpha() {
			space = pixel.RGBA
		}
	}

	// Normalize allocates whenever it changes anything, so BGR data is
	// reordered on a private copy.
	n, err := pixel.Normalize(b, space, typ)
	if err != nil {
		return nil, err
	}

	rect := image.Rect(0, 0, n.Width, n.Height)
	switch {
	case space == pixel.Gray && typ == pixel.Uint8:
		return &image.Gray{Pix: n.Data, Stride: n.Width, Rect: rect}, nil
	case space == pixel.Gray:
		img := image.NewGray16(rect)
		for i := 0; i < n.Samples(); i++ {
			binary.BigEndian.PutUint16(img.Pix[i*2:], uint16(n.Sample(i)))
		}
		return img, nil
	case typ == pixel.Uint8:
		img := image.NewNRGBA(rect)
		ch := n.Channels()
		for i := 0; i < n.Width*n.Height; i++ {
			copy(img.Pix[i*4:i*4+3], n.Data[i*ch:i*ch+3])
			if ch == 4 {
				img.Pix[i*4+3] = n.Data[i*ch+3]
			} else {
				img.Pix[i*4+3] = 0xff
			}
		}
		return img, nil
	default:
		img := image.NewNRGBA64(rect)
		ch := n.Channels()
		for i := 0; i < n.Width*n.Height; i++ {
			for c := 0; c < 3; c++ {
				binary.BigEndian.PutUint16(img.Pix[i*8+c*2:], uint16(n.Sample(i*ch+c)))
			}
			a := uint16(0xffff)
			if ch == 4 {
				a = uint16(n.Sample(i*ch + 3))
			}
			binary.BigEndian.PutUint16(img.Pix[i*8+6:], a)
		}
		return img, nil
	}
}
