package smartcam

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestRawDetectionsValidate(t *testing.T) {

	valid := func() *RawDetections {
		return NewRawDetections(make([]float32, 8), make([]float32, 2), make([]float32, 2), 2)
	}

	tests := []struct {
		name    string
		mutate  func(r *RawDetections)
		wantErr bool
	}{
		{"valid", func(r *RawDetections) {}, false},
		{"zero count", func(r *RawDetections) { r.Count = 0 }, false},
		{"count too large", func(r *RawDetections) { r.Count = 3 }, true},
		{"negative count", func(r *RawDetections) { r.Count = -1 }, true},
		{"short boxes", func(r *RawDetections) { r.Boxes = r.Boxes[:7] }, true},
		{"short classes", func(r *RawDetections) { r.Classes = r.Classes[:1] }, true},
		{"short scores", func(r *RawDetections) { r.Scores = nil }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := valid()
			tc.mutate(r)
			err := r.Validate(2)

			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}

			assert.True(t, errors.Is(err, ErrShapeMismatch))
		})
	}
}

func TestRawDetectionsBox(t *testing.T) {
	r := NewRawDetections([]float32{0, 0, 0, 0, 0.1, 0.2, 0.6, 0.8}, []float32{0, 0}, []float32{0, 0}, 2.9)

	assert.Equal(t, 2, r.Count)

	top, left, bottom, right := r.Box(1)
	assert.Equal(t, float32(0.1), top)
	assert.Equal(t, float32(0.2), left)
	assert.Equal(t, float32(0.6), bottom)
	assert.Equal(t, float32(0.8), right)
}
