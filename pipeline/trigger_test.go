package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/swdee/go-smartcam/postprocess"
)

func TestCaptureTrigger(t *testing.T) {

	trig := NewCaptureTrigger(0)
	assert.Equal(t, float32(DefaultCaptureThreshold), trig.Threshold)

	res := &Result{Detections: postprocess.DetectionSet{
		{ClassName: "person", Confidence: 0.93},
		{ClassName: "dog", Confidence: 0.4},
	}}

	det, ok := trig.Fired(res)
	assert.True(t, ok)
	assert.Equal(t, "person", det.ClassName)

	_, ok = NewCaptureTrigger(0.95).Fired(res)
	assert.False(t, ok)

	_, ok = trig.Fired(&Result{})
	assert.False(t, ok)

	_, ok = trig.Fired(nil)
	assert.False(t, ok)
}
