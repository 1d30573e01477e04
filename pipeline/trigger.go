package pipeline

import (
	"github.com/swdee/go-smartcam/postprocess"
)

// DefaultCaptureThreshold is the confidence a detection needs to trigger a
// capture
const DefaultCaptureThreshold = 0.9

// CaptureTrigger decides whether a result is confident enough to keep a
// still of the frame
type CaptureTrigger struct {
	Threshold float32
}

// NewCaptureTrigger returns a trigger using the given threshold, values
// outside (0,1] fall back to DefaultCaptureThreshold
func NewCaptureTrigger(threshold float32) CaptureTrigger {

	if threshold <= 0 || threshold > 1 {
		threshold = DefaultCaptureThreshold
	}

	return CaptureTrigger{Threshold: threshold}
}

// Fired returns the detection that reached the threshold, if any
func (c CaptureTrigger) Fired(res *Result) (postprocess.Detection, bool) {

	if res == nil {
		return postprocess.Detection{}, false
	}

	return res.Detections.Above(c.Threshold)
}
