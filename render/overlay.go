package render

import (
	"fmt"
	"image/color"

	"github.com/swdee/go-smartcam/postprocess"
)

// DefaultEdgeOffset is the gap in view points kept between a clamped box and
// the view edge
const DefaultEdgeOffset = 2.0

// Overlay is a detection converted into view space ready for drawing
type Overlay struct {
	// Label is the text drawn above the box
	Label string
	// Box is the border rectangle in view space
	Box postprocess.Rect
	// Color of the border and label background
	Color color.RGBA
}

// View describes the surface overlays are drawn on
type View struct {
	Width  float64
	Height float64
	// EdgeOffset is the gap kept to the view edge when a box is clamped
	EdgeOffset float64
}

// NewView returns a View of the given size using DefaultEdgeOffset
func NewView(width, height int) View {
	return View{
		Width:      float64(width),
		Height:     float64(height),
		EdgeOffset: DefaultEdgeOffset,
	}
}

// Overlays converts detections made on a frameWidth x frameHeight frame into
// overlays for the view.  The x and y axes are scaled independently and boxes
// extending past the view are pulled inside it.
func Overlays(dets postprocess.DetectionSet, frameWidth, frameHeight int, view View) []Overlay {

	out := make([]Overlay, 0, len(dets))

	if frameWidth <= 0 || frameHeight <= 0 {
		return out
	}

	sx := view.Width / float64(frameWidth)
	sy := view.Height / float64(frameHeight)

	for _, det := range dets {
		out = append(out, Overlay{
			Label: LabelText(det),
			Box:   view.clamp(det.Box.Scale(sx, sy)),
			Color: det.Color,
		})
	}

	return out
}

// LabelText returns the text shown for a detection, the class name followed
// by the confidence as a whole percentage
func LabelText(det postprocess.Detection) string {
	return fmt.Sprintf("%s  (%d%%)", det.ClassName, int(det.Confidence*100))
}

// clamp pulls a box that crosses the view edges back inside
func (v View) clamp(r postprocess.Rect) postprocess.Rect {

	if r.X < 0 {
		r.X = v.EdgeOffset
	}

	if r.Y < 0 {
		r.Y = v.EdgeOffset
	}

	if r.MaxY() > v.Height {
		r.Height = v.Height - r.Y - v.EdgeOffset
	}

	if r.MaxX() > v.Width {
		r.Width = v.Width - r.X - v.EdgeOffset
	}

	return r
}
