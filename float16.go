package smartcam

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/x448/float16"
)

var f16LookupTable [65536]float32

func init() {
	// precompute float16 lookup table for faster conversion to float32
	for i := range f16LookupTable {
		f16 := float16.Frombits(uint16(i))
		f16LookupTable[i] = f16.Float32()
	}
}

// Float16sToFloat32s converts half precision values given as raw bits into
// float32, used for engines whose output tensors are float16
func Float16sToFloat32s(bits []uint16) []float32 {

	out := make([]float32, len(bits))

	for i, b := range bits {
		out[i] = f16LookupTable[b]
	}

	return out
}

// Float16BytesToFloat32s converts a little endian float16 byte buffer into
// float32 values
func Float16BytesToFloat32s(buf []byte) ([]float32, error) {

	if len(buf)%2 != 0 {
		return nil, errors.Wrapf(ErrShapeMismatch, "float16 buffer has odd length %d", len(buf))
	}

	out := make([]float32, len(buf)/2)

	for i := range out {
		out[i] = f16LookupTable[binary.LittleEndian.Uint16(buf[i*2:])]
	}

	return out, nil
}
