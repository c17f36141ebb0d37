package encode

import (
	"strings"

	"github.com/ironsheep/image-engine/internal/imgerr"
)

// Format is an output encoding.
type Format string

const (
	Raw  Format = "raw"
	JPEG Format = "jpg"
	PNG  Format = "png"
	WEBP Format = "webp"
)

// DefaultQuality is used when an OutputSpec leaves quality unset.
const DefaultQuality = 90

// ParseFormat parses an output format name. An empty name means raw and
// "jpeg" is accepted for jpg.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "raw":
		return Raw, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "png":
		return PNG, nil
	case "webp":
		return WEBP, nil
	}
	return "", imgerr.Input("unknown output format %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	v, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// MimeType returns the media type of encoded output, or "" for raw.
func (f Format) MimeType() string {
	switch f {
	case JPEG:
		return "image/jpeg"
	case PNG:
		return "image/png"
	case WEBP:
		return "image/webp"
	}
	return ""
}

// OutputSpec selects the output encoding of an operation.
type OutputSpec struct {
	Format      Format `json:"format"`
	Quality     int    `json:"quality"`
	PNGOptimize bool   `json:"pngOptimize"`
}

// WithDefaults fills an empty format with raw and an unset quality with
// defaultQuality, then clamps quality to [1,100].
func (s OutputSpec) WithDefaults(defaultQuality int) OutputSpec {
	if s.Format == "" {
		s.Format = Raw
	}
	if s.Quality == 0 {
		s.Quality = defaultQuality
	}
	if s.Quality == 0 {
		s.Quality = DefaultQuality
	}
	s.Quality = max(1, min(s.Quality, 100))
	return s
}

// Validate rejects unknown formats.
func (s OutputSpec) Validate() error {
	switch s.Format {
	case Raw, JPEG, PNG, WEBP:
		return nil
	}
	return imgerr.Input("unknown output format %q", s.Format)
}
