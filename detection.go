package smartcam

import (
	"github.com/cockroachdb/errors"
)

// BoxElems is the number of values describing one bounding box in the
// engine output, being top, left, bottom, right
const BoxElems = 4

// RawDetections are the four output tensors of one engine invocation.
type RawDetections struct {
	// Boxes holds BoxElems normalized values per detection row in the order
	// top, left, bottom, right
	Boxes []float32
	// Classes holds the class id of each detection row encoded as a float
	Classes []float32
	// Scores holds the confidence score in [0,1] of each detection row
	Scores []float32
	// Count is the number of valid detection rows
	Count int
}

// NewRawDetections creates RawDetections from the engine output buffers.
// The count tensor is a single float, it is truncated to an int.
func NewRawDetections(boxes, classes, scores []float32, count float32) *RawDetections {
	return &RawDetections{
		Boxes:   boxes,
		Classes: classes,
		Scores:  scores,
		Count:   int(count),
	}
}

// Validate checks the output tensors hold maxDetections rows and that Count
// is within range.  A failure means the model does not match the expected
// output layout.
func (r *RawDetections) Validate(maxDetections int) error {

	if len(r.Boxes) != BoxElems*maxDetections {
		return errors.Wrapf(ErrShapeMismatch, "boxes tensor has %d values, expected %d",
			len(r.Boxes), BoxElems*maxDetections)
	}

	if len(r.Classes) != maxDetections {
		return errors.Wrapf(ErrShapeMismatch, "classes tensor has %d values, expected %d",
			len(r.Classes), maxDetections)
	}

	if len(r.Scores) != maxDetections {
		return errors.Wrapf(ErrShapeMismatch, "scores tensor has %d values, expected %d",
			len(r.Scores), maxDetections)
	}

	if r.Count < 0 || r.Count > maxDetections {
		return errors.Wrapf(ErrShapeMismatch, "detection count %d out of range [0,%d]",
			r.Count, maxDetections)
	}

	return nil
}

// Box returns the normalized top, left, bottom, right values of detection
// row i
func (r *RawDetections) Box(i int) (top, left, bottom, right float32) {
	b := r.Boxes[i*BoxElems : i*BoxElems+BoxElems]
	return b[0], b[1], b[2], b[3]
}
