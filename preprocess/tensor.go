package preprocess

import (
	"github.com/cockroachdb/errors"
	"github.com/swdee/go-smartcam"
)

// rgbChannels is the number of color channels in the input tensor
const rgbChannels = 3

// Preprocessor converts frames with the input tensor dimensions into model
// input tensors.  Tensor buffers are recycled through a pool so a steady
// stream of frames does not allocate a new buffer per frame.
type Preprocessor struct {
	cfg      smartcam.Config
	uint8s   *bufferPool[uint8]
	float32s *bufferPool[float32]
}

// NewPreprocessor returns a Preprocessor for the input tensor dimensions in
// the given Config
func NewPreprocessor(cfg smartcam.Config) *Preprocessor {
	return &Preprocessor{
		cfg:      cfg,
		uint8s:   newBufferPool[uint8](cfg.TensorLen()),
		float32s: newBufferPool[float32](cfg.TensorLen()),
	}
}

// Tensor converts the frame into an InputTensor of the given encoding.  The
// frame must already be resized to the input tensor dimensions.  Pass the
// tensor to Release once the engine has consumed it.
func (p *Preprocessor) Tensor(frame *smartcam.Frame, typ smartcam.TensorType) *smartcam.InputTensor {

	var t *smartcam.InputTensor

	if typ.Quantized() {
		t = smartcam.WrapUint8s(p.cfg, p.uint8s.Get())
	} else {
		t = smartcam.WrapFloat32s(p.cfg, p.float32s.Get())
	}

	FillTensor(frame, t)

	return t
}

// Release returns the tensor buffer to the pool, the tensor must not be used
// afterwards
func (p *Preprocessor) Release(t *smartcam.InputTensor) {

	if t == nil {
		return
	}

	if t.Type.Quantized() {
		p.uint8s.Put(t.UInt8s())
	} else {
		p.float32s.Put(t.Float32s())
	}
}

// FillTensor writes the BGRA frame into the tensor in RGB order, dropping the
// alpha channel.  Quantized tensors receive the raw bytes, float tensors the
// bytes scaled to [0,1].  The frame and tensor must have matching sizes,
// a mismatch is a programming error and panics.
func FillTensor(frame *smartcam.Frame, t *smartcam.InputTensor) {

	want := t.Batch * frame.Width * frame.Height * rgbChannels

	if frame.Width != t.Width || frame.Height != t.Height ||
		t.Channels != rgbChannels || t.Len() != want || t.ShapeLen() != want ||
		len(frame.Pix) != frame.Width*frame.Height*smartcam.BGRAChannels {
		panic(errors.AssertionFailedf(
			"frame %dx%d (%d bytes) does not match %s tensor %dx%dx%d with %d elements",
			frame.Width, frame.Height, len(frame.Pix), t.Type, t.Width, t.Height,
			t.Channels, t.Len()))
	}

	if t.Type.Quantized() {
		swizzleUint8(frame.Pix, t.UInt8s())
		return
	}

	swizzleFloat32(frame.Pix, t.Float32s())
}

// swizzleUint8 copies BGRA bytes into RGB order
func swizzleUint8(src []byte, dst []uint8) {

	pixel := 0

	for i, v := range src {
		c := i % smartcam.BGRAChannels

		if c == smartcam.BGRAAlpha {
			pixel++
			continue
		}

		dst[pixel*rgbChannels+(smartcam.BGRALastColor-c)] = v
	}
}

// swizzleFloat32 copies BGRA bytes into RGB order normalized to [0,1]
func swizzleFloat32(src []byte, dst []float32) {

	pixel := 0

	for i, v := range src {
		c := i % smartcam.BGRAChannels

		if c == smartcam.BGRAAlpha {
			pixel++
			continue
		}

		dst[pixel*rgbChannels+(smartcam.BGRALastColor-c)] = float32(v) / 255.0
	}
}
