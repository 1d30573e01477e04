package smartcam

import (
	"github.com/cockroachdb/errors"
)

const (
	// MaxThreadCount is the upper bound of the engine parallelism hint
	MaxThreadCount = 10

	// DefaultConfidenceThreshold is the minimum score a detection must reach
	// to be reported
	DefaultConfidenceThreshold = 0.5

	// default model input dimensions of the MobileNet SSD detector
	DefaultInputWidth    = 300
	DefaultInputHeight   = 300
	DefaultInputChannels = 3

	// DefaultMaxDetections is the number of detection rows the MobileNet SSD
	// detector outputs
	DefaultMaxDetections = 10
)

// Config defines the model dimensions and decoding parameters of a pipeline.
// It is passed by value and never modified after construction so multiple
// independent pipelines can run side by side.
type Config struct {
	// ThreadCount is the parallelism hint given to the engine, 1 to 10
	ThreadCount int
	// ConfidenceThreshold is the minimum score a detection must have to be
	// included in the results
	ConfidenceThreshold float32
	// BatchSize is the number of frames per inference, the detector only
	// supports 1
	BatchSize int
	// InputWidth is the width in pixels of the model input tensor
	InputWidth int
	// InputHeight is the height in pixels of the model input tensor
	InputHeight int
	// InputChannels is the number of color channels of the model input tensor
	InputChannels int
	// MaxDetections is the number of detection rows the engine outputs
	MaxDetections int
}

// DefaultConfig returns the Config for the MobileNet SSD 300x300 detector
// with a single engine thread.
func DefaultConfig() Config {
	return Config{
		ThreadCount:         1,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		BatchSize:           1,
		InputWidth:          DefaultInputWidth,
		InputHeight:         DefaultInputHeight,
		InputChannels:       DefaultInputChannels,
		MaxDetections:       DefaultMaxDetections,
	}
}

// TensorLen returns the number of elements of the input tensor,
// batch x height x width x channels
func (c Config) TensorLen() int {
	return c.BatchSize * c.InputHeight * c.InputWidth * c.InputChannels
}

// Validate checks the Config values and returns an error describing every
// invalid field
func (c Config) Validate() error {

	var errs []error

	if c.ThreadCount < 1 || c.ThreadCount > MaxThreadCount {
		errs = append(errs, errors.Newf("thread count %d out of range [1,%d]",
			c.ThreadCount, MaxThreadCount))
	}

	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		errs = append(errs, errors.Newf("confidence threshold %.3f out of range [0,1]",
			c.ConfidenceThreshold))
	}

	if c.BatchSize != 1 {
		errs = append(errs, errors.Newf("batch size %d not supported, must be 1",
			c.BatchSize))
	}

	if c.InputWidth <= 0 || c.InputHeight <= 0 {
		errs = append(errs, errors.Newf("input dimensions %dx%d must be positive",
			c.InputWidth, c.InputHeight))
	}

	if c.InputChannels != 3 {
		errs = append(errs, errors.Newf("input channels %d not supported, must be 3",
			c.InputChannels))
	}

	if c.MaxDetections <= 0 {
		errs = append(errs, errors.Newf("max detections %d must be positive",
			c.MaxDetections))
	}

	return errors.Join(errs...)
}
