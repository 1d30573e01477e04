package render

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	// classColors is the base palette objects are painted with, every class
	// gets a shade of one of these
	classColors = []color.RGBA{
		{R: 255, G: 0, B: 0, A: 255},     // #FF0000 red
		{R: 90, G: 200, B: 250, A: 255},  // #5AC8FA
		{R: 0, G: 255, B: 0, A: 255},     // #00FF00 green
		{R: 255, G: 128, B: 0, A: 255},   // #FF8000 orange
		{R: 0, G: 0, B: 255, A: 255},     // #0000FF blue
		{R: 128, G: 0, B: 128, A: 255},   // #800080 purple
		{R: 255, G: 0, B: 255, A: 255},   // #FF00FF magenta
		{R: 255, G: 255, B: 0, A: 255},   // #FFFF00 yellow
		{R: 0, G: 255, B: 255, A: 255},   // #00FFFF cyan
		{R: 153, G: 102, B: 51, A: 255},  // #996633 brown
	}

	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, B: 50, A: 255}
)

// DefaultStride is the shade step used by the default palette
const DefaultStride = 10

// Palette assigns display colors to class indexes.  Classes cycle through the
// base colors and each pass through the palette gets a different shade.
type Palette struct {
	colors []color.RGBA
	stride int
}

// DefaultPalette returns the ten color palette with a stride of 10
func DefaultPalette() *Palette {
	return NewPalette(classColors, DefaultStride)
}

// NewPalette returns a palette of the given base colors.  It panics if no
// colors are given.
func NewPalette(colors []color.RGBA, stride int) *Palette {

	if len(colors) == 0 {
		panic("render: palette needs at least one color")
	}

	cp := make([]color.RGBA, len(colors))
	copy(cp, colors)

	return &Palette{colors: cp, stride: stride}
}

// Len returns the number of base colors
func (p *Palette) Len() int {
	return len(p.colors)
}

// Colors returns a copy of the base colors
func (p *Palette) Colors() []color.RGBA {
	cp := make([]color.RGBA, len(p.colors))
	copy(cp, p.colors)
	return cp
}

// Base returns the unshaded palette color for the class index
func (p *Palette) Base(classIndex int) color.RGBA {
	return p.colors[mod(classIndex, len(p.colors))]
}

// ShadePercent returns the percentage the base color of classIndex is
// lightened by, negative values darken
func (p *Palette) ShadePercent(classIndex int) int {
	// integer division truncates toward zero
	return (p.stride/2 - classIndex/len(p.colors)) * p.stride
}

// ColorFor returns the display color for the class index
func (p *Palette) ColorFor(classIndex int) color.RGBA {
	return Shade(p.Base(classIndex), p.ShadePercent(classIndex))
}

// Shade adds pct percent of full intensity to every channel of c, clamped to
// the valid range.  The alpha channel is left as is.
func Shade(c color.RGBA, pct int) color.RGBA {

	if pct == 0 {
		return c
	}

	base, _ := colorful.MakeColor(opaque(c))
	delta := float64(pct) / 100

	shaded := colorful.Color{
		R: base.R + delta,
		G: base.G + delta,
		B: base.B + delta,
	}.Clamped()

	r, g, b := shaded.RGB255()

	return color.RGBA{R: r, G: g, B: b, A: c.A}
}

// Hex returns the color in #rrggbb form
func Hex(c color.RGBA) string {
	cf, _ := colorful.MakeColor(opaque(c))
	return cf.Hex()
}

// opaque drops the alpha channel so colorful does not treat the color as
// premultiplied
func opaque(c color.RGBA) color.RGBA {
	c.A = 255
	return c
}

// mod returns the non negative remainder of a / b
func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
