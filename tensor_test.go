package smartcam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewInputTensor(t *testing.T) {
	cfg := DefaultConfig()

	q := NewInputTensor(cfg, TensorUint8)
	assert.Equal(t, 300*300*3, q.Len())
	assert.Equal(t, q.ShapeLen(), q.Len())
	assert.Equal(t, 300*300*3, q.ByteSize())
	assert.Nil(t, q.Float32s())

	f := NewInputTensor(cfg, TensorFloat32)
	assert.Equal(t, 300*300*3, f.Len())
	assert.Equal(t, 300*300*3*4, f.ByteSize())
	assert.Nil(t, f.UInt8s())
}

func TestInputTensorBytes(t *testing.T) {
	cfg := Config{BatchSize: 1, InputWidth: 1, InputHeight: 1, InputChannels: 3}

	q := WrapUint8s(cfg, []uint8{1, 2, 3})
	assert.Equal(t, []byte{1, 2, 3}, q.Bytes())

	f := WrapFloat32s(cfg, []float32{1, 0, 0.5})
	assert.Equal(t, []byte{
		0x00, 0x00, 0x80, 0x3f,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x3f,
	}, f.Bytes())
}

func TestTensorTypeString(t *testing.T) {
	assert.Equal(t, "uint8", TensorUint8.String())
	assert.Equal(t, "float32", TensorFloat32.String())
	assert.True(t, TensorUint8.Quantized())
	assert.False(t, TensorFloat32.Quantized())
}
