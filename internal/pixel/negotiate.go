package pixel

// ResolveSingle returns the channel format of a single image unchanged.
// Geometric operations work in the image's own format.
func ResolveSingle(b *Buffer) ColorSpace {
	return b.Space
}

// Negotiate picks one color space for a group of images using the fixed
// priority RGBA > BGRA > RGB > BGR > GRAY: alpha wins first, then the RGB
// ordering. An empty group negotiates to RGB.
func Negotiate(spaces ...ColorSpace) ColorSpace {
	if len(spaces) == 0 {
		return RGB
	}
	present := make(map[ColorSpace]bool, len(spaces))
	for _, s := range spaces {
		present[s] = true
	}
	for _, s := range ColorSpaces {
		if present[s] {
			return s
		}
	}
	return RGB
}

// NegotiateType picks the widest sample type in the group (float32 > uint16 >
// uint8). An empty group negotiates to uint8.
func NegotiateType(types ...SampleType) SampleType {
	best := Uint8
	for _, t := range types {
		if t.Valid() && t.rank() > best.rank() {
			best = t
		}
	}
	return best
}

// NegotiateBuffers returns the common space and sample type of bufs.
func NegotiateBuffers(bufs []*Buffer) (ColorSpace, SampleType) {
	spaces := make([]ColorSpace, 0, len(bufs))
	types := make([]SampleType, 0, len(bufs))
	for _, b := range bufs {
		if b == nil {
			continue
		}
		spaces = append(spaces, b.Space)
		types = append(types, b.Type)
	}
	return Negotiate(spaces...), NegotiateType(types...)
}
