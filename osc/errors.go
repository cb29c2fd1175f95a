package osc

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTypeTag is returned when no ',' follows the address.
	ErrMissingTypeTag = errors.New("missing type tag string")
	// ErrTruncatedBuffer is returned when an argument needs more bytes than remain.
	ErrTruncatedBuffer = errors.New("truncated buffer")
	// ErrUnsupportedTag is returned for type tags other than 's', 'i' and 'f'.
	ErrUnsupportedTag = errors.New("unsupported type tag")
	// ErrRegistryClosed is returned when registering on a closed Registry.
	ErrRegistryClosed = errors.New("registry closed")
)

// DecodeError describes why a datagram could not be decoded.
type DecodeError struct {
	Offset int
	Tag    TypeTag
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Tag != TypeInvalid {
		return fmt.Sprintf("osc: decode %c at offset %d: %v", rune(e.Tag), e.Offset, e.Err)
	}
	return fmt.Sprintf("osc: decode at offset %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Reason returns a short label for the error, suitable as a metric label.
func (e *DecodeError) Reason() string {
	switch {
	case errors.Is(e.Err, ErrMissingTypeTag):
		return "missing_type_tag"
	case errors.Is(e.Err, ErrTruncatedBuffer):
		return "truncated_buffer"
	case errors.Is(e.Err, ErrUnsupportedTag):
		return "unsupported_tag"
	default:
		return "other"
	}
}

// PatternError is returned when an address pattern does not translate into a
// valid matching expression.
type PatternError struct {
	Pattern string
	Expr    string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("osc: invalid address pattern %q (expression %q): %v", e.Pattern, e.Expr, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// ErrServerClosed is returned by Serve and ListenAndServe after Close.
var ErrServerClosed = errors.New("osc: server closed")
