// Package imgerr defines the error taxonomy shared by every engine stage.
//
// Three kinds are distinguished so that callers can tell bad input apart from
// processing and encoding failures:
//   - Input: malformed geometry, undecodable bytes, missing parameters,
//     out-of-range enum values
//   - Processing: unsupported filter types, unresolvable resize targets,
//     non-positive canvas dimensions
//   - Encoding: the selected output encoder failed
//
// Errors carry a stack trace from github.com/pkg/errors.
package imgerr

import (
	"github.com/pkg/errors"
)

// Kind classifies an engine error.
type Kind int

const (
	// KindUnknown is reported for errors that did not originate in the engine.
	KindUnknown Kind = iota
	KindInput
	KindProcessing
	KindEncoding
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindProcessing:
		return "processing"
	case KindEncoding:
		return "encoding"
	default:
		return "unknown"
	}
}

// Error is an engine error tagged with its Kind.
type Error struct {
	Kind Kind
	err  error
}

func (e *Error) Error() string {
	return e.Kind.String() + " error: " + e.err.Error()
}

func (e *Error) Unwrap() error {
	return e.err
}

// Input reports malformed caller input.
func Input(format string, args ...interface{}) error {
	return &Error{Kind: KindInput, err: errors.Errorf(format, args...)}
}

// Processing reports a failure inside a transform.
func Processing(format string, args ...interface{}) error {
	return &Error{Kind: KindProcessing, err: errors.Errorf(format, args...)}
}

// Encoding reports an output serialization failure.
func Encoding(format string, args ...interface{}) error {
	return &Error{Kind: KindEncoding, err: errors.Errorf(format, args...)}
}

// WrapInput tags err as an input error. A nil err yields nil.
func WrapInput(err error, message string) error {
	return wrap(KindInput, err, message)
}

// WrapProcessing tags err as a processing error. A nil err yields nil.
func WrapProcessing(err error, message string) error {
	return wrap(KindProcessing, err, message)
}

// WrapEncoding tags err as an encoding error. A nil err yields nil.
func WrapEncoding(err error, message string) error {
	return wrap(KindEncoding, err, message)
}

func wrap(kind Kind, err error, message string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok && e.Kind == kind {
		err = e.err
	}
	return &Error{Kind: kind, err: errors.Wrap(err, message)}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsInput reports whether err is an input error.
func IsInput(err error) bool { return KindOf(err) == KindInput }

// IsProcessing reports whether err is a processing error.
func IsProcessing(err error) bool { return KindOf(err) == KindProcessing }

// IsEncoding reports whether err is an encoding error.
func IsEncoding(err error) bool { return KindOf(err) == KindEncoding }
