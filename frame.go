package smartcam

import (
	"image"

	"github.com/cockroachdb/errors"
	"github.com/disintegration/imaging"
)

// BGRA pixel layout of camera frames.  Colors are stored in reverse order to
// the RGB order the detector expects, followed by an alpha/padding byte.
const (
	// BGRAChannels is the number of bytes per pixel
	BGRAChannels = 4
	// BGRAAlpha is the byte offset of the ignored alpha/padding channel
	BGRAAlpha = 3
	// BGRALastColor is the byte offset of the last color channel (red)
	BGRALastColor = 2
)

// Frame is a camera image of packed BGRA pixels in row major order with no
// stride padding.  A Frame is not modified after it has been created.
type Frame struct {
	// Width of the frame in pixels
	Width int
	// Height of the frame in pixels
	Height int
	// Pix holds Width*Height*4 bytes of B, G, R, A values
	Pix []byte
}

// NewFrame wraps the given BGRA pixel data as a Frame.  The pixel data is not
// copied.
func NewFrame(width, height int, pix []byte) (*Frame, error) {

	if width <= 0 || height <= 0 {
		return nil, errors.Newf("invalid frame dimensions %dx%d", width, height)
	}

	if want := width * height * BGRAChannels; len(pix) != want {
		return nil, errors.Newf("frame %dx%d requires %d bytes, got %d",
			width, height, want, len(pix))
	}

	return &Frame{
		Width:  width,
		Height: height,
		Pix:    pix,
	}, nil
}

// FrameFromImage converts any decoded image into a BGRA Frame.  Alpha is
// discarded and set opaque.
func FrameFromImage(img image.Image) (*Frame, error) {

	b := img.Bounds()

	if b.Empty() {
		return nil, errors.New("image is empty")
	}

	// normalise to NRGBA with origin at 0,0
	nrgba := imaging.Clone(img)
	pix := make([]byte, b.Dx()*b.Dy()*BGRAChannels)

	for y := 0; y < b.Dy(); y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+b.Dx()*4]
		dst := pix[y*b.Dx()*BGRAChannels:]

		for x := 0; x < b.Dx(); x++ {
			dst[x*4+0] = src[x*4+2]
			dst[x*4+1] = src[x*4+1]
			dst[x*4+2] = src[x*4+0]
			dst[x*4+3] = 0xff
		}
	}

	return NewFrame(b.Dx(), b.Dy(), pix)
}

// Bounds returns the frame rectangle
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}
