package jsonm

import "errors"

// Sentinel errors returned by Pack/Unpack and friends. Wrap with fmt.Errorf
// and %w when positional context (a sequence id, a dictionary index) is
// worth attaching.
var (
	// ErrMalformed is returned when an encoded value does not have the
	// shape this package's wire format requires: a top-level value that
	// is neither null nor an array, a final element that isn't a
	// sequence id, or a tagged payload with the wrong number of parts.
	ErrMalformed = errors.New("jsonm: malformed encoded value")

	// ErrOutOfSequence is returned when a message's declared sequence id
	// is neither 0 (a reset marker) nor the Unpacker's counter + 1.
	ErrOutOfSequence = errors.New("jsonm: message out of sequence")

	// ErrDictionaryMiss is returned when a backreference index has no
	// corresponding dictionary entry. This can happen after a dropped
	// message, a reset mismatch between peers, or drift from a bug.
	ErrDictionaryMiss = errors.New("jsonm: dictionary miss on backreference")

	// ErrTypeCoercion is returned when a decoded value cannot be coerced
	// into the caller's requested output type.
	ErrTypeCoercion = errors.New("jsonm: cannot coerce decoded value to requested type")
)
