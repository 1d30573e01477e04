package postprocess

import (
	"sort"

	"github.com/swdee/go-smartcam"
)

// SSD defines the struct for MobileNet SSD model inference post processing
type SSD struct {
	// Params are the post processing configuration parameters
	Params SSDParams
	labels Labeler
	colors ColorAssigner
}

// SSDParams defines the struct containing the SSD parameters to use for post
// processing operations
type SSDParams struct {
	// BoxThreshold is the minimum confidence score required for a detection
	// to be included in the results
	BoxThreshold float32
}

// SSDDefaultParams returns an instance of SSDParams configured with default
// values of:
// - Box Threshold: 0.5
func SSDDefaultParams() SSDParams {
	return SSDParams{
		BoxThreshold: smartcam.DefaultConfidenceThreshold,
	}
}

// NewSSD returns an instance of the SSD post processor
func NewSSD(p SSDParams, labels Labeler, colors ColorAssigner) *SSD {
	return &SSD{
		Params: p,
		labels: labels,
		colors: colors,
	}
}

// DetectObjects decodes the engine output into detections scaled to a frame
// of width x height pixels.  Detections below the box threshold are dropped
// and the remaining are sorted by descending confidence.
func (s *SSD) DetectObjects(raw *smartcam.RawDetections, width, height int) DetectionSet {

	if raw.Count == 0 {
		return DetectionSet{}
	}

	group := make(DetectionSet, 0, raw.Count)

	for i := 0; i < raw.Count; i++ {

		score := raw.Scores[i]

		if score < s.Params.BoxThreshold {
			continue
		}

		classID := int(raw.Classes[i])

		// box values are top, left, bottom, right in model space
		top, left, bottom, right := raw.Box(i)

		box := Rect{
			X:      float64(left),
			Y:      float64(top),
			Width:  float64(right) - float64(left),
			Height: float64(bottom) - float64(top),
		}

		group = append(group, Detection{
			Confidence: score,
			ClassID:    classID,
			ClassName:  s.labels.Lookup(classID),
			Box:        box.Scale(float64(width), float64(height)),
			Color:      s.colors.ColorFor(classID + 1),
		})
	}

	sortByConfidence(group)

	return group
}

// sortByConfidence orders detections by descending confidence
func sortByConfidence(dets DetectionSet) {
	sort.SliceStable(dets, func(i, j int) bool {
		return dets[i].Confidence > dets[j].Confidence
	})
}
