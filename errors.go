package smartcam

import (
	"github.com/cockroachdb/errors"
)

// Fatal errors.  These are returned during startup and the process can not
// usefully continue when one occurs.
var (
	// ErrLabelsUnavailable is returned when the labels file is missing or
	// can not be parsed
	ErrLabelsUnavailable = errors.New("labels unavailable")
	// ErrModelUnavailable is returned when the model file is missing or can
	// not be loaded by the engine
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrTensorAllocation is returned when an engine fails to allocate its
	// input or output tensors
	ErrTensorAllocation = errors.New("tensor allocation failed")
)

// Per frame errors.  The frame is discarded and the caller moves on to the
// next frame.
var (
	// ErrNoResult marks every error returned from a pipeline pass, a frame
	// either produces a complete result or none at all
	ErrNoResult = errors.New("no result for frame")
	// ErrResize is returned when a frame could not be resized to the input
	// tensor dimensions
	ErrResize = errors.New("frame resize failed")
	// ErrInvoke is returned when the engine failed to run inference
	ErrInvoke = errors.New("engine invocation failed")
	// ErrShapeMismatch is returned when tensors do not have the size the
	// model requires
	ErrShapeMismatch = errors.New("tensor shape mismatch")
)

// precondition panics with an assertion failure.  It is used for programmer
// errors which must never be silently turned into corrupt results.
func precondition(format string, args ...interface{}) {
	panic(errors.AssertionFailedf(format, args...))
}
