package render

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-smartcam/postprocess"
)

func TestOverlaysScaleToView(t *testing.T) {

	dets := postprocess.DetectionSet{{
		Confidence: 0.75,
		ClassName:  "dog",
		Box:        postprocess.Rect{X: 100, Y: 50, Width: 200, Height: 100},
		Color:      Yellow,
	}}

	ovs := Overlays(dets, 640, 480, NewView(320, 480))

	require.Len(t, ovs, 1)
	assert.Equal(t, "dog  (75%)", ovs[0].Label)
	assert.Equal(t, Yellow, ovs[0].Color)
	assert.Equal(t, postprocess.Rect{X: 50, Y: 50, Width: 100, Height: 100}, ovs[0].Box)
}

func TestOverlaysClampToView(t *testing.T) {

	tests := []struct {
		name string
		box  postprocess.Rect
		want postprocess.Rect
	}{
		{
			name: "inside",
			box:  postprocess.Rect{X: 10, Y: 10, Width: 20, Height: 20},
			want: postprocess.Rect{X: 10, Y: 10, Width: 20, Height: 20},
		},
		{
			name: "negative origin",
			box:  postprocess.Rect{X: -5, Y: -3, Width: 20, Height: 20},
			want: postprocess.Rect{X: 2, Y: 2, Width: 20, Height: 20},
		},
		{
			name: "past bottom right",
			box:  postprocess.Rect{X: 80, Y: 90, Width: 40, Height: 40},
			want: postprocess.Rect{X: 80, Y: 90, Width: 18, Height: 8},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dets := postprocess.DetectionSet{{Confidence: 0.5, Box: tc.box}}
			ovs := Overlays(dets, 100, 100, NewView(100, 100))
			require.Len(t, ovs, 1)
			assert.Equal(t, tc.want, ovs[0].Box)
		})
	}
}

func TestOverlaysEmpty(t *testing.T) {
	assert.Empty(t, Overlays(nil, 640, 480, NewView(640, 480)))
	assert.Empty(t, Overlays(postprocess.DetectionSet{{}}, 0, 480, NewView(640, 480)))
}

func TestLabelText(t *testing.T) {
	det := postprocess.Detection{ClassName: "person", Confidence: 0.5}
	assert.Equal(t, "person  (50%)", LabelText(det))
}

func TestLabelPlacement(t *testing.T) {

	font := DefaultFont()
	box := image.Rect(100, 100, 200, 200)
	size := image.Pt(40, 10)

	bg, pos := labelPlacement(box, size, font, 2)

	// left aligned: centerX = 100 + 20 + 4 - 1
	assert.Equal(t, image.Pt(103, 94), pos)
	assert.Equal(t, image.Rect(99, 80, 147, 100), bg)

	font.Alignment = AlignCenter
	_, pos = labelPlacement(box, size, font, 2)
	assert.Equal(t, image.Pt(130, 94), pos)
}

func TestFontForHeight(t *testing.T) {

	assert.Equal(t, DefaultFont(), FontForHeight(300))

	f := FontForHeight(960)
	assert.InDelta(t, 1.0, f.Scale, 1e-9)
	assert.Equal(t, 2, f.Thickness)
	assert.Equal(t, Insets{Left: 8, Right: 8, Top: 8, Bottom: 12}, f.Padding)
}
