// Package imaging provides the single-image geometric and photometric
// operations of the engine: resize, rotate, crop, padding and kernel filters.
//
// Every operation takes a *pixel.Buffer and returns a new one in the same
// channel format and sample type. Inputs are never modified. Work is split
// across rows with bild's parallel helpers.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Rectangles are given as top-left corner plus width and height
//
// Crop accepts normalized coordinates in [0,1], which are scaled by the image
// size and rounded before use.
//
// # Rotation
//
// Positive angles rotate clockwise as the image is displayed. Multiples of 90
// degrees are exact pixel permutations. Other angles grow the canvas to the
// rotated bounding box and fill the exposed corners with a pad color.
//
// # Filters
//
// Kernel sizes are made odd and clamped to [3,15]; intensities are clamped to
// [0,2]. Borders are reflected without repeating the edge pixel, and the alpha
// channel of RGBA/BGRA buffers is carried through unfiltered.
//
// # Error Handling
//
// Invalid buffers and non-finite parameters are input errors. Unknown filter
// types and unresolvable resize targets are processing errors.
package imaging
