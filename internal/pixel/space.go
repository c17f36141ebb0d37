package pixel

import (
	"strings"

	"github.com/ironsheep/image-engine/internal/imgerr"
)

// ColorSpace names the number and order of channels in a pixel.
type ColorSpace string

const (
	Gray ColorSpace = "GRAY"
	RGB  ColorSpace = "RGB"
	RGBA ColorSpace = "RGBA"
	BGR  ColorSpace = "BGR"
	BGRA ColorSpace = "BGRA"
)

// ColorSpaces lists every supported space in negotiation priority order.
var ColorSpaces = []ColorSpace{RGBA, BGRA, RGB, BGR, Gray}

// ParseColorSpace parses a color space name, ignoring case.
func ParseColorSpace(s string) (ColorSpace, error) {
	switch ColorSpace(strings.ToUpper(strings.TrimSpace(s))) {
	case Gray:
		return Gray, nil
	case RGB:
		return RGB, nil
	case RGBA:
		return RGBA, nil
	case BGR:
		return BGR, nil
	case BGRA:
		return BGRA, nil
	}
	return "", imgerr.Input("unsupported color space %q", s)
}

// Channels returns the canonical channel count of the space, or 0 if the space
// is not recognized.
func (s ColorSpace) Channels() int {
	switch s {
	case Gray:
		return 1
	case RGB, BGR:
		return 3
	case RGBA, BGRA:
		return 4
	}
	return 0
}

// Valid reports whether s is one of the supported spaces.
func (s ColorSpace) Valid() bool {
	return s.Channels() != 0
}

// HasAlpha reports whether the space carries an alpha channel.
func (s ColorSpace) HasAlpha() bool {
	return s == RGBA || s == BGRA
}

// BlueFirst reports whether the space stores blue before red.
func (s ColorSpace) BlueFirst() bool {
	return s == BGR || s == BGRA
}

// SpaceForChannels returns the default space for a channel count:
// 1 -> GRAY, 3 -> RGB, 4 -> RGBA.
func SpaceForChannels(n int) (ColorSpace, error) {
	switch n {
	case 1:
		return Gray, nil
	case 3:
		return RGB, nil
	case 4:
		return RGBA, nil
	}
	return "", imgerr.Input("unsupported channel count %d", n)
}

// SampleType is the storage type of a single channel sample.
type SampleType string

const (
	Uint8   SampleType = "uint8"
	Uint16  SampleType = "uint16"
	Float32 SampleType = "float32"
)

// ParseSampleType parses a sample type name. An empty string means uint8.
func ParseSampleType(s string) (SampleType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "uint8", "int8", "u8":
		return Uint8, nil
	case "uint16", "int16", "u16":
		return Uint16, nil
	case "float32", "f32":
		return Float32, nil
	}
	return "", imgerr.Input("unsupported sample type %q", s)
}

// Size returns the number of bytes per sample, or 0 for unknown types.
func (t SampleType) Size() int {
	switch t {
	case Uint8:
		return 1
	case Uint16:
		return 2
	case Float32:
		return 4
	}
	return 0
}

// Valid reports whether t is one of the supported sample types.
func (t SampleType) Valid() bool {
	return t.Size() != 0
}

// Max returns the sample value that represents full intensity.
func (t SampleType) Max() float64 {
	switch t {
	case Uint16:
		return 65535
	case Float32:
		return 1
	default:
		return 255
	}
}

// Mid returns the mid-gray level used as the neutral point of relief filters.
func (t SampleType) Mid() float64 {
	switch t {
	case Uint16:
		return 32768
	case Float32:
		return 0.5
	default:
		return 128
	}
}

// rank orders sample types by precision.
func (t SampleType) rank() int {
	switch t {
	case Uint16:
		return 1
	case Float32:
		return 2
	default:
		return 0
	}
}
