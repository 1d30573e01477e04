package onnx

import (
	"encoding/binary"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-smartcam"
	"github.com/x448/float16"
	"go.uber.org/zap/zaptest"
)

func TestOutputShapes(t *testing.T) {

	shapes := outputShapes(smartcam.DefaultConfig())

	require.Len(t, shapes, len(DefaultOutputNames))
	assert.Equal(t, int64(40), shapes[0].FlattenedSize())
	assert.Equal(t, int64(10), shapes[1].FlattenedSize())
	assert.Equal(t, int64(10), shapes[2].FlattenedSize())
	assert.Equal(t, int64(1), shapes[3].FlattenedSize())
}

func TestFloat16OutputDecode(t *testing.T) {

	buf := make([]byte, 0, 6)
	for _, v := range []float32{0.5, 1, -2} {
		buf = binary.LittleEndian.AppendUint16(buf, float16.Fromfloat32(v).Bits())
	}

	got, err := smartcam.Float16BytesToFloat32s(buf)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 1, -2}, got)
}

func TestNewMissingModel(t *testing.T) {

	_, err := New(Options{
		ModelPath: "testdata/missing.onnx",
		Config:    smartcam.DefaultConfig(),
	}, zaptest.NewLogger(t))

	require.Error(t, err)
	assert.True(t, errors.Is(err, smartcam.ErrModelUnavailable))
}

func TestNewOutputNameCount(t *testing.T) {

	_, err := New(Options{
		ModelPath:   "testdata/missing.onnx",
		OutputNames: []string{"boxes"},
		Config:      smartcam.DefaultConfig(),
	}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 4 output names")
}
