package smartcam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat16sToFloat32s(t *testing.T) {
	got := Float16sToFloat32s([]uint16{0x3c00, 0x3800, 0xc000, 0x0000})
	assert.Equal(t, []float32{1, 0.5, -2, 0}, got)
}

func TestFloat16BytesToFloat32s(t *testing.T) {
	got, err := Float16BytesToFloat32s([]byte{0x00, 0x3c, 0x00, 0x38})
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0.5}, got)

	_, err = Float16BytesToFloat32s([]byte{0x00})
	assert.Error(t, err)
}
