// Package composite implements the multi-image operations: concatenation,
// blending and the two mosaic variants. Inputs are first brought to one
// negotiated channel format and sample type.
package composite
