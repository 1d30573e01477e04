// Package onnx provides a smartcam.Engine running SSD detection models with
// ONNX Runtime
package onnx

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/swdee/go-smartcam"
	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"
)

// DefaultOutputNames are the output names of an SSD model exported from the
// TensorFlow detection post processing op
var DefaultOutputNames = []string{
	"detection_boxes", "detection_classes", "detection_scores", "num_detections",
}

// DefaultInputName is the input name of an SSD model exported from TensorFlow
const DefaultInputName = "image_tensor"

// Options for loading an ONNX model
type Options struct {
	// ModelPath is the .onnx model file
	ModelPath string
	// LibraryPath of the onnxruntime shared library, empty uses the
	// platform default
	LibraryPath string
	// InputName of the image input
	InputName string
	// OutputNames of the boxes, classes, scores and count outputs in that
	// order
	OutputNames []string
	// InputType is the encoding of the NHWC image input
	InputType smartcam.TensorType
	// Float16 is set when the model outputs are half precision
	Float16 bool
	// Threads is the number of intra op threads
	Threads int
	// Config gives the input dimensions and number of detection rows
	Config smartcam.Config
}

// output is one output tensor of the session
type output interface {
	ort.ArbitraryTensor
	float32s() ([]float32, error)
}

type float32Output struct {
	*ort.Tensor[float32]
}

func (o float32Output) float32s() ([]float32, error) {
	src := o.GetData()
	out := make([]float32, len(src))
	copy(out, src)
	return out, nil
}

type float16Output struct {
	*ort.CustomDataTensor
}

func (o float16Output) float32s() ([]float32, error) {
	return smartcam.Float16BytesToFloat32s(o.GetData())
}

// Engine runs inference with an ONNX Runtime session.  It is not safe for
// concurrent use, each pipeline owns its own Engine.
type Engine struct {
	session   *ort.AdvancedSession
	input     ort.ArbitraryTensor
	inputU8   *ort.Tensor[uint8]
	inputF32  *ort.Tensor[float32]
	outputs   []output
	inputType smartcam.TensorType
	inputLen  int
	closed    bool
	log       *zap.Logger
}

// New loads the model and creates a session bound to preallocated tensors
func New(opts Options, log *zap.Logger) (*Engine, error) {

	if log == nil {
		log = zap.NewNop()
	}

	if opts.InputName == "" {
		opts.InputName = DefaultInputName
	}

	if len(opts.OutputNames) == 0 {
		opts.OutputNames = DefaultOutputNames
	}

	if len(opts.OutputNames) != len(outputShapes(opts.Config)) {
		return nil, errors.Newf("expected %d output names, got %d",
			len(outputShapes(opts.Config)), len(opts.OutputNames))
	}

	if _, err := os.Stat(opts.ModelPath); err != nil {
		return nil, errors.WithHint(
			errors.Mark(errors.Wrapf(err, "model file %s", opts.ModelPath), smartcam.ErrModelUnavailable),
			"check the model setting points to an .onnx file",
		)
	}

	if err := acquireEnvironment(opts.LibraryPath); err != nil {
		return nil, err
	}

	e := &Engine{
		inputType: opts.InputType,
		inputLen:  opts.Config.TensorLen(),
		log:       log,
	}

	if err := e.allocate(opts); err != nil {
		_ = e.Close()
		return nil, errors.Mark(err, smartcam.ErrTensorAllocation)
	}

	sessOpts, err := ort.NewSessionOptions()

	if err != nil {
		_ = e.Close()
		return nil, errors.Mark(errors.Wrap(err, "creating session options"), smartcam.ErrTensorAllocation)
	}

	defer sessOpts.Destroy()

	if err := sessOpts.SetIntraOpNumThreads(max(1, opts.Threads)); err != nil {
		_ = e.Close()
		return nil, errors.Wrap(err, "setting intra op threads")
	}

	outs := make([]ort.ArbitraryTensor, len(e.outputs))
	for i, o := range e.outputs {
		outs[i] = o
	}

	e.session, err = ort.NewAdvancedSession(opts.ModelPath,
		[]string{opts.InputName}, opts.OutputNames,
		[]ort.ArbitraryTensor{e.input}, outs, sessOpts)

	if err != nil {
		_ = e.Close()
		return nil, errors.Mark(errors.Wrapf(err, "creating session for %s", opts.ModelPath),
			smartcam.ErrModelUnavailable)
	}

	log.Info("onnx model loaded",
		zap.String("model", opts.ModelPath),
		zap.Stringer("input_type", opts.InputType),
		zap.Bool("float16", opts.Float16),
		zap.Int("threads", max(1, opts.Threads)),
	)

	return e, nil
}

// allocate creates the input and output tensors
func (e *Engine) allocate(opts Options) error {

	cfg := opts.Config
	inShape := ort.NewShape(int64(cfg.BatchSize), int64(cfg.InputHeight),
		int64(cfg.InputWidth), int64(cfg.InputChannels))

	var err error

	switch opts.InputType {
	case smartcam.TensorUint8:
		e.inputU8, err = ort.NewEmptyTensor[uint8](inShape)
		e.input = e.inputU8
	case smartcam.TensorFloat32:
		e.inputF32, err = ort.NewEmptyTensor[float32](inShape)
		e.input = e.inputF32
	default:
		return errors.Newf("unsupported input type %s", opts.InputType)
	}

	if err != nil {
		e.input = nil
		return errors.Wrap(err, "creating input tensor")
	}

	for _, shape := range outputShapes(cfg) {

		if opts.Float16 {
			buf := make([]byte, shape.FlattenedSize()*2)
			t, err := ort.NewCustomDataTensor(shape, buf, ort.TensorElementDataTypeFloat16)

			if err != nil {
				return errors.Wrap(err, "creating float16 output tensor")
			}

			e.outputs = append(e.outputs, float16Output{t})
			continue
		}

		t, err := ort.NewEmptyTensor[float32](shape)

		if err != nil {
			return errors.Wrap(err, "creating output tensor")
		}

		e.outputs = append(e.outputs, float32Output{t})
	}

	return nil
}

// outputShapes returns the shapes of the boxes, classes, scores and count
// outputs
func outputShapes(cfg smartcam.Config) []ort.Shape {
	b := int64(cfg.BatchSize)
	n := int64(cfg.MaxDetections)
	return []ort.Shape{
		ort.NewShape(b, n, smartcam.BoxElems),
		ort.NewShape(b, n),
		ort.NewShape(b, n),
		ort.NewShape(b),
	}
}

// InputType returns the encoding of the model input tensor
func (e *Engine) InputType() smartcam.TensorType {
	return e.inputType
}

// Invoke runs the model on the input tensor
func (e *Engine) Invoke(ctx context.Context, t *smartcam.InputTensor) (*smartcam.RawDetections, error) {

	if t.Type != e.inputType || t.Len() != e.inputLen {
		return nil, errors.Wrapf(smartcam.ErrShapeMismatch,
			"input tensor is %s with %d elements, model expects %s with %d",
			t.Type, t.Len(), e.inputType, e.inputLen)
	}

	if t.Type.Quantized() {
		copy(e.inputU8.GetData(), t.UInt8s())
	} else {
		copy(e.inputF32.GetData(), t.Float32s())
	}

	if err := e.session.Run(); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "running session"), smartcam.ErrInvoke)
	}

	outs := make([][]float32, len(e.outputs))

	for i, o := range e.outputs {
		v, err := o.float32s()

		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "reading output %d", i), smartcam.ErrShapeMismatch)
		}

		outs[i] = v
	}

	if len(outs[3]) < 1 {
		return nil, errors.Wrap(smartcam.ErrShapeMismatch, "count output is empty")
	}

	return smartcam.NewRawDetections(outs[0], outs[1], outs[2], outs[3][0]), nil
}

// Close destroys the session and its tensors
func (e *Engine) Close() error {

	if e.closed {
		return nil
	}

	e.closed = true

	var errs []error

	if e.session != nil {
		errs = append(errs, e.session.Destroy())
		e.session = nil
	}

	if e.input != nil {
		errs = append(errs, e.input.Destroy())
		e.input = nil
	}

	for _, o := range e.outputs {
		errs = append(errs, o.Destroy())
	}

	e.outputs = nil

	errs = append(errs, releaseEnvironment())

	return errors.Join(errs...)
}
