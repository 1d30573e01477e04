package postprocess

import (
	"image"
	"image/color"
	"math"
)

// Rect is a bounding box in pixel space with its origin at the top left
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// MaxX returns the right edge of the rectangle
func (r Rect) MaxX() float64 {
	return r.X + r.Width
}

// MaxY returns the bottom edge of the rectangle
func (r Rect) MaxY() float64 {
	return r.Y + r.Height
}

// Scale returns the rectangle with the x axis fields multiplied by sx and
// the y axis fields by sy
func (r Rect) Scale(sx, sy float64) Rect {
	return Rect{
		X:      r.X * sx,
		Y:      r.Y * sy,
		Width:  r.Width * sx,
		Height: r.Height * sy,
	}
}

// Bounds returns the rectangle rounded to integer pixel coordinates
func (r Rect) Bounds() image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.MaxX())), int(math.Round(r.MaxY())),
	)
}

// Detection defines the attributes of a single object detected
type Detection struct {
	// Confidence is the score of the object detected
	Confidence float32
	// ClassID is the raw class id output by the engine
	ClassID int
	// ClassName is the label of the class
	ClassName string
	// Box is the location of the object in frame pixel space
	Box Rect
	// Color is the display color assigned to the class
	Color color.RGBA
}

// DetectionSet is a list of detections sorted by descending confidence
type DetectionSet []Detection

// Above returns the first detection with confidence of at least threshold
func (d DetectionSet) Above(threshold float32) (Detection, bool) {

	// sorted descending so only the first entry needs checking
	if len(d) > 0 && d[0].Confidence >= threshold {
		return d[0], true
	}

	return Detection{}, false
}

// Labeler resolves raw class ids to class names
type Labeler interface {
	Lookup(classID int) string
}

// ColorAssigner maps a class index to its display color
type ColorAssigner interface {
	ColorFor(classIndex int) color.RGBA
}
