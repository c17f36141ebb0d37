package ingest

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/ironsheep/image-engine/internal/imgerr"
	"github.com/ironsheep/image-engine/internal/pixel"
)

// Channels is the channel metadata of a raw image. On the wire it is either a
// channel count or a legacy combined descriptor such as "int8_RGB".
type Channels struct {
	Count  int
	Legacy string
}

// UnmarshalJSON accepts a number, a string or null.
func (c *Channels) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*c = Channels{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = Channels{Legacy: s}
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return imgerr.Input("channels must be an integer or a descriptor string")
	}
	*c = Channels{Count: n}
	return nil
}

// MarshalJSON writes the count, or the legacy descriptor when no count is set.
func (c Channels) MarshalJSON() ([]byte, error) {
	if c.Count == 0 && c.Legacy != "" {
		return json.Marshal(c.Legacy)
	}
	return json.Marshal(c.Count)
}

// legacyParts splits a descriptor like "int8_RGB" into its sample-type prefix
// and color-space suffix. A descriptor without '_' is a bare color space.
func (c Channels) legacyParts() (dtype, space string) {
	if c.Legacy == "" {
		return "", ""
	}
	i := strings.LastIndex(c.Legacy, "_")
	if i < 0 {
		return "", c.Legacy
	}
	return c.Legacy[:i], c.Legacy[i+1:]
}

// RawImage is an already-decoded pixel array supplied by a caller.
type RawImage struct {
	Data       []byte   `json:"data"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Channels   Channels `json:"channels"`
	ColorSpace string   `json:"colorSpace,omitempty"`
	DType      string   `json:"dtype,omitempty"`
}

// FromRaw validates a raw image and wraps its data in a pixel buffer. The data
// slice is not copied.
func FromRaw(raw *RawImage) (*pixel.Buffer, error) {
	if raw == nil {
		return nil, imgerr.Input("image is missing")
	}
	if raw.Width <= 0 || raw.Height <= 0 {
		return nil, imgerr.Input("invalid image dimensions: %dx%d", raw.Width, raw.Height)
	}

	legacyType, legacySpace := raw.Channels.legacyParts()

	dtype := raw.DType
	if dtype == "" {
		dtype = legacyType
	}
	typ, err := pixel.ParseSampleType(dtype)
	if err != nil {
		return nil, err
	}

	spaceName := raw.ColorSpace
	if spaceName == "" {
		spaceName = legacySpace
	}

	count := raw.Channels.Count
	if count == 0 {
		per, ok := pixel.ByteSize(raw.Width, raw.Height, 1, typ.Size())
		if !ok {
			return nil, imgerr.Input("image dimensions %dx%d are too large", raw.Width, raw.Height)
		}
		if len(raw.Data) == 0 || len(raw.Data)%per != 0 {
			return nil, imgerr.Input("cannot infer channel count: %d bytes is not a multiple of %dx%d %s",
				len(raw.Data), raw.Width, raw.Height, typ)
		}
		count = len(raw.Data) / per
	}

	var space pixel.ColorSpace
	if spaceName != "" {
		space, err = pixel.ParseColorSpace(spaceName)
	} else {
		space, err = pixel.SpaceForChannels(count)
	}
	if err != nil {
		return nil, err
	}
	if space.Channels() != count {
		return nil, imgerr.Input("color space %s has %d channels, image declares %d",
			space, space.Channels(), count)
	}

	buf := &pixel.Buffer{
		Data:   raw.Data,
		Width:  raw.Width,
		Height: raw.Height,
		Space:  space,
		Type:   typ,
	}
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	return buf, nil
}

// ToRaw describes a buffer in the raw wire form.
func ToRaw(b *pixel.Buffer) *RawImage {
	return &RawImage{
		Data:       b.Data,
		Width:      b.Width,
		Height:     b.Height,
		Channels:   Channels{Count: b.Channels()},
		ColorSpace: string(b.Space),
		DType:      string(b.Type),
	}
}
