package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaletteShadePercent(t *testing.T) {

	p := DefaultPalette()

	tests := []struct {
		id   int
		want int
	}{
		{0, 50},
		{9, 50},
		{10, 40},
		{19, 40},
		{50, 0},
		{59, 0},
		{60, -10},
		{100, -50},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, p.ShadePercent(tc.id), "class %d", tc.id)
	}
}

func TestPaletteUnshadedBand(t *testing.T) {

	p := DefaultPalette()

	// a shade of zero returns the base color unchanged
	for id := 50; id < 60; id++ {
		assert.Equal(t, classColors[id%10], p.ColorFor(id))
	}
}

func TestPaletteDeterministic(t *testing.T) {

	p := DefaultPalette()

	for id := 0; id < 100; id++ {
		assert.Equal(t, p.ColorFor(id), p.ColorFor(id))
		assert.Equal(t, p.Base(id), p.Base(id+p.Len()))
	}
}

func TestPaletteShadeDirection(t *testing.T) {

	p := DefaultPalette()

	// classes 31, 51 and 71 share the base color (90,200,250)
	lighter := p.ColorFor(31)
	base := p.ColorFor(51)
	darker := p.ColorFor(71)

	assert.Equal(t, color.RGBA{R: 90, G: 200, B: 250, A: 255}, base)
	assert.Equal(t, color.RGBA{R: 141, G: 251, B: 255, A: 255}, lighter)
	assert.Equal(t, color.RGBA{R: 39, G: 149, B: 199, A: 255}, darker)
}

func TestShadeClamps(t *testing.T) {

	red := color.RGBA{R: 255, A: 255}

	assert.Equal(t, color.RGBA{R: 255, G: 128, B: 128, A: 255}, Shade(red, 50))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, Shade(red, 100))
	assert.Equal(t, color.RGBA{R: 0, G: 0, B: 0, A: 255}, Shade(red, -100))
}

func TestShadeMonotonic(t *testing.T) {

	c := color.RGBA{R: 90, G: 200, B: 250, A: 255}
	prev := Shade(c, -100)

	for pct := -90; pct <= 100; pct += 10 {
		next := Shade(c, pct)
		assert.GreaterOrEqual(t, next.R, prev.R)
		assert.GreaterOrEqual(t, next.G, prev.G)
		assert.GreaterOrEqual(t, next.B, prev.B)
		prev = next
	}
}

func TestNewPalette(t *testing.T) {

	colors := []color.RGBA{Black, White}
	p := NewPalette(colors, 4)
	colors[0] = Yellow

	require.Equal(t, 2, p.Len())
	assert.Equal(t, Black, p.Base(0))
	assert.Equal(t, White, p.Base(3))
	assert.Equal(t, Black, p.Base(-2))
	// (4/2 - 5/2) * 4 = 0
	assert.Equal(t, 0, p.ShadePercent(5))

	assert.Panics(t, func() { NewPalette(nil, 10) })
}

func TestHex(t *testing.T) {
	assert.Equal(t, "#5ac8fa", Hex(color.RGBA{R: 90, G: 200, B: 250, A: 255}))
	assert.Equal(t, "#ff0000", Hex(color.RGBA{R: 255}))
}
