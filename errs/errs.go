// Package errs defines the error kinds shared across the codec packages.
//
// Every kind matches a trigger named in the WK error handling design:
// container framing failures carry a byte offset, payload failures do not.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies why an operation failed.
type Kind int

const (
	// InvalidMagic means the first 8 bytes of a stream are not the WK magic.
	InvalidMagic Kind = iota
	// CorruptChunk means a chunk's length overruns the buffer or its CRC is wrong.
	CorruptChunk
	// MalformedContainer means a required chunk is missing, duplicated, or out of order.
	MalformedContainer
	// UnsupportedFeature means a recognized-but-unimplemented combination was requested.
	UnsupportedFeature
	// DecodeLimitExceeded means a bit-level decode ran past its expected bound.
	DecodeLimitExceeded
	// IoError wraps a failure from an external reader/writer.
	IoError
	// InternalInvariant means the encoder produced a bitstream that fails its own round-trip check.
	InternalInvariant
)

func (k Kind) String() string {
	switch k {
	case InvalidMagic:
		return "InvalidMagic"
	case CorruptChunk:
		return "CorruptChunk"
	case MalformedContainer:
		return "MalformedContainer"
	case UnsupportedFeature:
		return "UnsupportedFeature"
	case DecodeLimitExceeded:
		return "DecodeLimitExceeded"
	case IoError:
		return "IoError"
	case InternalInvariant:
		return "InternalInvariant"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type surfaced by every codec package.
//
// Offset is meaningful for container-level errors (CorruptChunk,
// MalformedContainer, InvalidMagic) and is -1 otherwise.
type Error struct {
	Kind    Kind
	Message string
	Offset  int64
	cause   error
}

func (e *Error) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("wk: %s at offset %d: %s", e.Kind, e.Offset, e.Message)
	}
	return fmt.Sprintf("wk: %s: %s", e.Kind, e.Message)
}

// Unwrap lets callers use errors.Is/errors.As through to the stack-traced cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// New builds a stack-traced *Error with no byte offset.
func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message, Offset: -1, cause: errors.New(message)}
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(kind Kind, format string, args ...interface{}) error {
	return New(kind, fmt.Sprintf(format, args...))
}

// At builds a stack-traced *Error carrying the byte offset at which it was detected.
func At(kind Kind, offset int64, message string) error {
	return &Error{Kind: kind, Message: message, Offset: offset, cause: errors.New(message)}
}

// Atf is At with fmt.Sprintf-style formatting.
func Atf(kind Kind, offset int64, format string, args ...interface{}) error {
	return At(kind, offset, fmt.Sprintf(format, args...))
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
