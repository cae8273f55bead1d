package primegl

import (
	"errors"

	"github.com/gogpu/primegl/gfx"
	"github.com/gogpu/primegl/sieve"
)

var (
	// ErrLoadFailure marks a Loader that ended in the error state.
	// The Loader is unusable; construct a new one.
	ErrLoadFailure = errors.New("primegl: engine failed to load")

	// ErrNotReady is returned when the engine is requested while loading.
	ErrNotReady = errors.New("primegl: engine not ready")

	// ErrClosed is returned by capability calls after Engine.Close.
	ErrClosed = errors.New("primegl: engine closed")

	// ErrBoundOutOfRange is returned for sieve bounds outside
	// [2, Config.MaxBound].
	ErrBoundOutOfRange = errors.New("primegl: bound out of range")

	// ErrInvalidStateTransition is returned for lifecycle transitions other
	// than loading -> ready and loading -> error.
	ErrInvalidStateTransition = errors.New("primegl: invalid state transition")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("primegl: invalid config")
)

// ErrorKind classifies errors returned by the engine.
type ErrorKind int

// Error kinds.
const (
	KindNone ErrorKind = iota
	KindLoadFailure
	KindGraphicsUnsupported
	KindPreconditionViolation
	KindResourceExhausted
	KindUnknown
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindLoadFailure:
		return "load failure"
	case KindGraphicsUnsupported:
		return "graphics unsupported"
	case KindPreconditionViolation:
		return "precondition violation"
	case KindResourceExhausted:
		return "resource exhausted"
	default:
		return "unknown"
	}
}

// Kind returns the kind of err.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrLoadFailure):
		return KindLoadFailure
	case errors.Is(err, sieve.ErrResourceExhausted):
		return KindResourceExhausted
	case errors.Is(err, gfx.ErrUnsupported),
		errors.Is(err, gfx.ErrSurfaceNotFound):
		return KindGraphicsUnsupported
	case errors.Is(err, ErrNotReady),
		errors.Is(err, ErrClosed),
		errors.Is(err, ErrBoundOutOfRange),
		errors.Is(err, gfx.ErrNotInitialized),
		errors.Is(err, gfx.ErrAlreadyBound):
		return KindPreconditionViolation
	default:
		return KindUnknown
	}
}
