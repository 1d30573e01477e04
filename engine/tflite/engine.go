// Package tflite provides a smartcam.Engine running MobileNet SSD models with
// the TensorFlow Lite C library
package tflite

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/mattn/go-tflite"
	"github.com/swdee/go-smartcam"
	"go.uber.org/zap"
)

// SSD post processing output tensor order
const (
	outBoxes   = 0
	outClasses = 1
	outScores  = 2
	outCount   = 3
	numOutputs = 4
)

// Options for loading a TFLite model
type Options struct {
	// ModelPath is the .tflite model file
	ModelPath string
	// Threads is the number of interpreter threads
	Threads int
	// EdgeTPU adds the first Coral EdgeTPU device found as a delegate, the
	// binary must be built with the edgetpu tag
	EdgeTPU bool
}

// Engine runs inference with a TFLite interpreter.  It is not safe for
// concurrent use, each pipeline owns its own Engine.
type Engine struct {
	model     *tflite.Model
	options   *tflite.InterpreterOptions
	interp    *tflite.Interpreter
	inputType smartcam.TensorType
	inputLen  int
	closer    func()
	log       *zap.Logger
}

// New loads the model and allocates its tensors
func New(opts Options, log *zap.Logger) (*Engine, error) {

	if log == nil {
		log = zap.NewNop()
	}

	if _, err := os.Stat(opts.ModelPath); err != nil {
		return nil, errors.WithHint(
			errors.Mark(errors.Wrapf(err, "model file %s", opts.ModelPath), smartcam.ErrModelUnavailable),
			"check the model setting points to a .tflite file",
		)
	}

	model := tflite.NewModelFromFile(opts.ModelPath)

	if model == nil {
		return nil, errors.Wrapf(smartcam.ErrModelUnavailable, "failed to load model %s", opts.ModelPath)
	}

	options := tflite.NewInterpreterOptions()

	if options == nil {
		model.Delete()
		return nil, errors.Wrap(smartcam.ErrTensorAllocation, "interpreter options failed to be created")
	}

	options.SetNumThread(max(1, opts.Threads))
	options.SetErrorReporter(func(msg string, _ interface{}) {
		log.Warn("tflite", zap.String("msg", msg))
	}, nil)

	e := &Engine{
		model:   model,
		options: options,
		closer:  func() {},
		log:     log,
	}

	if opts.EdgeTPU {
		closer, err := addEdgeTPU(options, log)

		if err != nil {
			e.Close()
			return nil, err
		}

		e.closer = closer
	}

	e.interp = tflite.NewInterpreter(model, options)

	if e.interp == nil {
		e.Close()
		return nil, errors.Wrap(smartcam.ErrTensorAllocation, "cannot create interpreter")
	}

	if status := e.interp.AllocateTensors(); status != tflite.OK {
		e.Close()
		return nil, errors.Wrapf(smartcam.ErrTensorAllocation, "allocate tensors: %v", status)
	}

	if err := e.inspect(); err != nil {
		e.Close()
		return nil, err
	}

	log.Info("tflite model loaded",
		zap.String("model", opts.ModelPath),
		zap.Int("threads", max(1, opts.Threads)),
		zap.Stringer("input_type", e.inputType),
		zap.Int("input_len", e.inputLen),
	)

	return e, nil
}

// inspect reads the input tensor type and size and checks the model has the
// SSD post processing outputs
func (e *Engine) inspect() error {

	if n := e.interp.GetInputTensorCount(); n != 1 {
		return errors.Wrapf(smartcam.ErrShapeMismatch, "model has %d inputs, expected 1", n)
	}

	if n := e.interp.GetOutputTensorCount(); n != numOutputs {
		return errors.Wrapf(smartcam.ErrShapeMismatch, "model has %d outputs, expected %d", n, numOutputs)
	}

	input := e.interp.GetInputTensor(0)

	typ, err := tensorType(input.Type())

	if err != nil {
		return err
	}

	e.inputType = typ
	e.inputLen = shapeLen(tensorShape(input))

	return nil
}

// InputType returns the encoding of the model input tensor
func (e *Engine) InputType() smartcam.TensorType {
	return e.inputType
}

// Invoke runs the model on the input tensor
func (e *Engine) Invoke(ctx context.Context, t *smartcam.InputTensor) (*smartcam.RawDetections, error) {

	if t.Type != e.inputType {
		return nil, errors.Wrapf(smartcam.ErrShapeMismatch, "input tensor is %s, model expects %s",
			t.Type, e.inputType)
	}

	if t.Len() != e.inputLen {
		return nil, errors.Wrapf(smartcam.ErrShapeMismatch, "input tensor has %d elements, model expects %d",
			t.Len(), e.inputLen)
	}

	input := e.interp.GetInputTensor(0)

	var status tflite.Status

	if t.Type.Quantized() {
		status = input.SetUint8s(t.UInt8s())
	} else {
		status = input.SetFloat32s(t.Float32s())
	}

	if status != tflite.OK {
		return nil, errors.Wrapf(smartcam.ErrInvoke, "copy input: %v", status)
	}

	if status := e.interp.Invoke(); status != tflite.OK {
		return nil, errors.Wrapf(smartcam.ErrInvoke, "invoke: %v", status)
	}

	outputs := make([][]float32, numOutputs)

	for i := range outputs {
		out, err := outputFloat32s(e.interp.GetOutputTensor(i))

		if err != nil {
			return nil, errors.Wrapf(err, "output %d", i)
		}

		outputs[i] = out
	}

	return rawFromOutputs(outputs)
}

// Close releases the interpreter, delegate and model
func (e *Engine) Close() error {

	if e.interp != nil {
		e.interp.Delete()
		e.interp = nil
	}

	if e.options != nil {
		e.options.Delete()
		e.options = nil
	}

	if e.closer != nil {
		e.closer()
		e.closer = nil
	}

	if e.model != nil {
		e.model.Delete()
		e.model = nil
	}

	return nil
}

// outputFloat32s copies the float output tensor out of interpreter memory
func outputFloat32s(t *tflite.Tensor) ([]float32, error) {

	if t.Type() != tflite.Float32 {
		return nil, errors.Wrapf(smartcam.ErrShapeMismatch, "output tensor %s is %v, expected float32",
			t.Name(), t.Type())
	}

	src := t.Float32s()
	out := make([]float32, len(src))
	copy(out, src)

	return out, nil
}

// tensorType maps the TFLite input type to the preprocessing encoding
func tensorType(t tflite.TensorType) (smartcam.TensorType, error) {
	switch t {
	case tflite.Float32:
		return smartcam.TensorFloat32, nil
	case tflite.UInt8:
		return smartcam.TensorUint8, nil
	default:
		return 0, errors.Wrapf(smartcam.ErrShapeMismatch, "unsupported input tensor type %v", t)
	}
}

// tensorShape returns the dimensions of the tensor
func tensorShape(t *tflite.Tensor) []int {
	shape := make([]int, 0, t.NumDims())
	for i := 0; i < t.NumDims(); i++ {
		shape = append(shape, t.Dim(i))
	}
	return shape
}

// shapeLen returns the number of elements of a tensor with the given shape
func shapeLen(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// rawFromOutputs builds RawDetections from the boxes, classes, scores and
// count outputs of the SSD post processing op
func rawFromOutputs(outputs [][]float32) (*smartcam.RawDetections, error) {

	if len(outputs) != numOutputs {
		return nil, errors.Wrapf(smartcam.ErrShapeMismatch, "got %d outputs, expected %d",
			len(outputs), numOutputs)
	}

	if len(outputs[outCount]) < 1 {
		return nil, errors.Wrap(smartcam.ErrShapeMismatch, "count output is empty")
	}

	return smartcam.NewRawDetections(
		outputs[outBoxes],
		outputs[outClasses],
		outputs[outScores],
		outputs[outCount][0],
	), nil
}
