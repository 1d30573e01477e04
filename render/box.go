package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// boxLabel holds the precalculated position of a label drawn above a box
type boxLabel struct {
	rect    image.Rectangle
	clr     color.RGBA
	text    string
	textPos image.Point
}

// DetectionBoxes renders the overlay borders and their labels on the image
func DetectionBoxes(img *gocv.Mat, overlays []Overlay, font Font, lineThickness int) {

	// keep a record of all box labels for later rendering
	boxLabels := make([]boxLabel, 0, len(overlays))

	for _, ov := range overlays {

		rect := ov.Box.Bounds()
		gocv.Rectangle(img, rect, ov.Color, lineThickness)

		textSize := gocv.GetTextSize(ov.Label, font.Face, font.Scale, font.Thickness)
		bg, pos := labelPlacement(rect, textSize, font, lineThickness)

		boxLabels = append(boxLabels, boxLabel{
			rect:    bg,
			clr:     ov.Color,
			text:    ov.Label,
			textPos: pos,
		})
	}

	// labels are drawn last so borders of later boxes do not cross them
	for _, box := range boxLabels {
		gocv.Rectangle(img, box.rect, box.clr, -1)

		gocv.PutTextWithParams(img, box.text, box.textPos,
			font.Face, font.Scale, font.Color, font.Thickness,
			font.LineType, false)
	}
}

// labelPlacement returns the background rectangle and text origin of a label
// of textSize placed above the top edge of box
func labelPlacement(box image.Rectangle, textSize image.Point, font Font,
	lineThickness int) (image.Rectangle, image.Point) {

	pad := font.Padding
	var centerX int

	switch font.Alignment {
	case AlignCenter:
		centerX = (box.Min.X + box.Max.X) / 2

	case AlignRight:
		centerX = box.Max.X - (textSize.X / 2) - pad.Right + (lineThickness / 2)

	default:
		centerX = box.Min.X + (textSize.X / 2) + pad.Left - (lineThickness / 2)
	}

	pos := image.Pt(centerX-textSize.X/2, box.Min.Y-pad.Bottom)

	bg := image.Rect(centerX-textSize.X/2-pad.Left,
		box.Min.Y-textSize.Y-pad.Top-pad.Bottom,
		centerX+textSize.X/2+pad.Right, box.Min.Y)

	return bg, pos
}
