package smartcam

import (
	"context"
)

// Engine is a pretrained detector.  Invoke runs synchronously on one input
// tensor and either returns a complete RawDetections or an error, in which
// case the frame is discarded.
//
// An Engine is a singly owned resource with no internal concurrency
// guarantees, calls to Invoke must never overlap.
type Engine interface {
	// Invoke runs inference on the input tensor
	Invoke(ctx context.Context, input *InputTensor) (*RawDetections, error)
	// InputType returns the input tensor encoding the model was built for
	InputType() TensorType
	// Close releases the model and interpreter resources
	Close() error
}
