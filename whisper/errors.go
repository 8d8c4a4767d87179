package whisper

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies the family of failure behind an *Error, so callers can
// switch on it instead of matching error strings.
type Kind int

const (
	// CorruptFile means a header could not be decoded.
	CorruptFile Kind = iota + 1
	// InvalidTimeInterval means a fetch window was inverted after clamping.
	InvalidTimeInterval
	// TimestampNotCovered means an update point fell outside
	// (now-maxRetention, now].
	TimestampNotCovered
	// InvalidAggregationMethod means an unknown method was used during
	// aggregation.
	InvalidAggregationMethod
	// ArchiveBoundaryExceeded means a batch write's alignment guard
	// tripped; it signals an implementer bug or file corruption.
	ArchiveBoundaryExceeded
	// InvalidConfiguration means a bad archive list, an existing file
	// without overwrite, or a bad option.
	InvalidConfiguration
	// ValueError means a retention string was malformed.
	ValueError
	// IOError means the underlying container failed, or an operation was
	// attempted on a closed handle.
	IOError
)

func (k Kind) String() string {
	switch k {
	case CorruptFile:
		return "corrupt file"
	case InvalidTimeInterval:
		return "invalid time interval"
	case TimestampNotCovered:
		return "timestamp not covered"
	case InvalidAggregationMethod:
		return "invalid aggregation method"
	case ArchiveBoundaryExceeded:
		return "archive boundary exceeded"
	case InvalidConfiguration:
		return "invalid configuration"
	case ValueError:
		return "value error"
	case IOError:
		return "i/o error"
	default:
		return "unknown error"
	}
}

// Error is the single error family every whisper operation returns through.
// It is always non-nil when Kind is non-zero; Op names the failing
// operation ("Create", "Fetch", "Update", ...) and Cause, if present, is
// the underlying error that was wrapped.
type Error struct {
	Kind  Kind
	Op    string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("whisper: %s: %s: %v", e.Op, e.Kind, e.Cause)
	}

	return fmt.Sprintf("whisper: %s: %s", e.Op, e.Kind)
}

// Unwrap lets errors.Is/errors.As see through to the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// newErr builds an *Error, wrapping cause (if any) with errors.WithStack so
// the original call site is preserved for debugging.
func newErr(op string, kind Kind, cause error) *Error {
	if cause != nil {
		cause = errors.WithStack(cause)
	}

	return &Error{Kind: kind, Op: op, Cause: cause}
}

func errf(op string, kind Kind, format string, args ...interface{}) *Error {
	return newErr(op, kind, errors.Errorf(format, args...))
}
