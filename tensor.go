package smartcam

import (
	"encoding/binary"
	"fmt"
	"math"
)

// TensorType is the element encoding of the model input tensor
type TensorType int

const (
	// TensorFloat32 holds color values normalized to [0,1]
	TensorFloat32 TensorType = 0
	// TensorUint8 holds raw color bytes, used by quantized models
	TensorUint8 TensorType = 1
)

// String returns a readable name of the tensor type
func (t TensorType) String() string {
	switch t {
	case TensorFloat32:
		return "float32"
	case TensorUint8:
		return "uint8"
	default:
		return fmt.Sprintf("unknown tensor type %d", int(t))
	}
}

// Quantized returns true if the tensor holds fixed point values
func (t TensorType) Quantized() bool {
	return t == TensorUint8
}

// ElemSize returns the number of bytes used by one tensor element
func (t TensorType) ElemSize() int {
	if t == TensorUint8 {
		return 1
	}
	return 4
}

// InputTensor is the NHWC model input of batch x height x width x channels
// elements in RGB channel order.  Only one of the uint8 or float32 buffers is
// used, depending on Type.
type InputTensor struct {
	// Type is the element encoding
	Type TensorType
	// Batch is the number of images, always 1
	Batch int
	// Height in pixels
	Height int
	// Width in pixels
	Width int
	// Channels is the number of color channels, always 3
	Channels int

	uint8s   []uint8
	float32s []float32
}

// NewInputTensor allocates an InputTensor with the dimensions of the given
// Config
func NewInputTensor(cfg Config, typ TensorType) *InputTensor {

	t := &InputTensor{
		Type:     typ,
		Batch:    cfg.BatchSize,
		Height:   cfg.InputHeight,
		Width:    cfg.InputWidth,
		Channels: cfg.InputChannels,
	}

	if typ.Quantized() {
		t.uint8s = make([]uint8, cfg.TensorLen())
	} else {
		t.float32s = make([]float32, cfg.TensorLen())
	}

	return t
}

// WrapUint8s returns a quantized InputTensor using buf as its storage
func WrapUint8s(cfg Config, buf []uint8) *InputTensor {
	return &InputTensor{
		Type:     TensorUint8,
		Batch:    cfg.BatchSize,
		Height:   cfg.InputHeight,
		Width:    cfg.InputWidth,
		Channels: cfg.InputChannels,
		uint8s:   buf,
	}
}

// WrapFloat32s returns a floating point InputTensor using buf as its storage
func WrapFloat32s(cfg Config, buf []float32) *InputTensor {
	return &InputTensor{
		Type:     TensorFloat32,
		Batch:    cfg.BatchSize,
		Height:   cfg.InputHeight,
		Width:    cfg.InputWidth,
		Channels: cfg.InputChannels,
		float32s: buf,
	}
}

// Len returns the number of elements in the tensor buffer
func (t *InputTensor) Len() int {
	if t.Type.Quantized() {
		return len(t.uint8s)
	}
	return len(t.float32s)
}

// ShapeLen returns the number of elements the tensor dimensions require
func (t *InputTensor) ShapeLen() int {
	return t.Batch * t.Height * t.Width * t.Channels
}

// ByteSize returns the size in bytes of the tensor data
func (t *InputTensor) ByteSize() int {
	return t.Len() * t.Type.ElemSize()
}

// UInt8s returns the quantized tensor data, nil for float32 tensors
func (t *InputTensor) UInt8s() []uint8 {
	return t.uint8s
}

// Float32s returns the float tensor data, nil for uint8 tensors
func (t *InputTensor) Float32s() []float32 {
	return t.float32s
}

// Bytes returns the tensor data as a flat little endian byte sequence
func (t *InputTensor) Bytes() []byte {

	if t.Type.Quantized() {
		return t.uint8s
	}

	out := make([]byte, len(t.float32s)*4)

	for i, v := range t.float32s {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}

	return out
}
