package render

import (
	"image/color"

	"gocv.io/x/gocv"
)

// Alignment of a label relative to its box
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// referenceHeight is the image height DefaultFont is sized for
const referenceHeight = 480

// Insets is the space in pixels kept around label text inside its background
type Insets struct {
	Left, Right, Top, Bottom int
}

// scale multiplies every inset by k, truncating
func (in Insets) scale(k float64) Insets {
	return Insets{
		Left:   int(float64(in.Left) * k),
		Right:  int(float64(in.Right) * k),
		Top:    int(float64(in.Top) * k),
		Bottom: int(float64(in.Bottom) * k),
	}
}

// Font is the style of the labels drawn above detection boxes
type Font struct {
	Face      gocv.HersheyFont
	Scale     float64
	Color     color.RGBA
	Thickness int
	LineType  gocv.LineType
	Padding   Insets
	Alignment Alignment
}

// DefaultFont returns the label font for a 480 pixel high image
func DefaultFont() Font {
	return Font{
		Face:      gocv.FontHersheySimplex,
		Scale:     0.5,
		Color:     Black,
		Thickness: 1,
		LineType:  gocv.LineAA,
		Padding:   Insets{Left: 4, Right: 4, Top: 4, Bottom: 6},
		Alignment: AlignLeft,
	}
}

// FontForHeight returns DefaultFont scaled so labels keep the same relative
// size on an image of the given height
func FontForHeight(height int) Font {

	f := DefaultFont()

	if height <= referenceHeight {
		return f
	}

	k := float64(height) / referenceHeight
	f.Scale *= k
	f.Thickness = max(1, int(float64(f.Thickness)*k+0.5))
	f.Padding = f.Padding.scale(k)

	return f
}
