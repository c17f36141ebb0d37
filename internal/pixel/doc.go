// Package pixel provides the engine's single internal image model and the
// channel-format rules that every other stage relies on.
//
// A Buffer owns interleaved samples for one image. Samples are laid out row by
// row, left to right, with the channels of a pixel adjacent to each other in the
// order named by the buffer's ColorSpace (for example B, G, R for BGR). uint16
// and float32 samples are stored little-endian.
//
// # Invariants
//
//   - len(Data) == Width * Height * Space.Channels() * Type.Size()
//   - Width and Height are at least 1
//
// Buffers are treated as immutable once handed to another stage. Every
// transform in this module allocates a new Buffer for its output; callers that
// need to modify pixels in place must Clone first.
//
// # Channel Formats
//
// Five color spaces are supported: GRAY, RGB, RGBA, BGR and BGRA. Convert moves
// a buffer between any two of them using an explicit rule table, Negotiate picks
// a common space for a group of images, and Color maps "#RRGGBB" literals
// (always authored in RGB order) into the channel order of a target buffer.
package pixel
