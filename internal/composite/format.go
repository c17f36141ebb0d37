package composite

import (
	"github.com/ironsheep/image-engine/internal/pixel"
)

// normalizeAll converts every image to the group's negotiated space and
// sample type. Images already in that format are returned as is.
func normalizeAll(imgs []*pixel.Buffer) ([]*pixel.Buffer, error) {
	space, typ := pixel.NegotiateBuffers(imgs)
	return normalizeTo(imgs, space, typ)
}

func normalizeTo(imgs []*pixel.Buffer, space pixel.ColorSpace, typ pixel.SampleType) ([]*pixel.Buffer, error) {
	out := make([]*pixel.Buffer, len(imgs))
	for i, img := range imgs {
		if img == nil {
			continue
		}
		if err := img.Validate(); err != nil {
			return nil, err
		}
		b, err := pixel.Normalize(img, space, typ)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}
