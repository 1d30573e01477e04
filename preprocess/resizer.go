package preprocess

import (
	"image"

	"github.com/cockroachdb/errors"
	"github.com/swdee/go-smartcam"
	"golang.org/x/image/draw"
)

// ResizeMode defines how a frame is fitted to the input tensor dimensions
type ResizeMode int

const (
	// ResizeStretch scales the whole frame to the destination size, the x and
	// y axes are scaled independently
	ResizeStretch ResizeMode = 0
	// ResizeCenterCrop crops the biggest square in the center of the frame
	// and scales it to the destination size
	ResizeCenterCrop ResizeMode = 1
)

// String returns the name of the resize mode
func (m ResizeMode) String() string {
	switch m {
	case ResizeStretch:
		return "stretch"
	case ResizeCenterCrop:
		return "center-crop"
	default:
		return "unknown"
	}
}

// ParseResizeMode returns the ResizeMode for the given name
func ParseResizeMode(name string) (ResizeMode, error) {
	switch name {
	case "", "stretch":
		return ResizeStretch, nil
	case "center-crop", "crop":
		return ResizeCenterCrop, nil
	default:
		return ResizeStretch, errors.Newf("unknown resize mode %q, use stretch or center-crop", name)
	}
}

// Resizer defines the struct used for scaling camera frames to the
// dimensions of the input tensor
type Resizer struct {
	// destWidth is the width to scale to
	destWidth int
	// destHeight is the height to scale to
	destHeight int
	// mode of fitting the source frame
	mode ResizeMode
	// interp is the interpolation used when scaling
	interp draw.Interpolator
}

// NewResizer returns a resizer used for scaling a frame to the needed
// dimensions for input tensor size
func NewResizer(destWidth, destHeight int, mode ResizeMode) *Resizer {
	return &Resizer{
		destWidth:  destWidth,
		destHeight: destHeight,
		mode:       mode,
		interp:     draw.ApproxBiLinear,
	}
}

// SetInterpolator overrides the default approximate bilinear interpolation
func (r *Resizer) SetInterpolator(interp draw.Interpolator) {
	r.interp = interp
}

// Mode returns the resize mode
func (r *Resizer) Mode() ResizeMode {
	return r.mode
}

// SourceRect returns the region of a srcWidth x srcHeight frame that gets
// scaled into the destination
func (r *Resizer) SourceRect(srcWidth, srcHeight int) image.Rectangle {

	if r.mode != ResizeCenterCrop {
		return image.Rect(0, 0, srcWidth, srcHeight)
	}

	side := min(srcWidth, srcHeight)
	x0 := (srcWidth - side) / 2
	y0 := (srcHeight - side) / 2

	return image.Rect(x0, y0, x0+side, y0+side)
}

// Resize scales the source frame to the destination dimensions.  A frame that
// already has the destination size is returned as is.
func (r *Resizer) Resize(src *smartcam.Frame) (*smartcam.Frame, error) {

	if src == nil || src.Width <= 0 || src.Height <= 0 {
		return nil, errors.Wrap(smartcam.ErrResize, "empty frame")
	}

	if len(src.Pix) != src.Width*src.Height*smartcam.BGRAChannels {
		return nil, errors.Wrapf(smartcam.ErrResize, "frame %dx%d has %d bytes",
			src.Width, src.Height, len(src.Pix))
	}

	if src.Width == r.destWidth && src.Height == r.destHeight {
		return src, nil
	}

	// the scaler treats channels independently so BGRA data can be carried
	// in an RGBA image without reordering
	srcImg := &image.RGBA{
		Pix:    src.Pix,
		Stride: src.Width * smartcam.BGRAChannels,
		Rect:   src.Bounds(),
	}

	dst := image.NewRGBA(image.Rect(0, 0, r.destWidth, r.destHeight))

	r.interp.Scale(dst, dst.Bounds(), srcImg, r.SourceRect(src.Width, src.Height),
		draw.Src, nil)

	out, err := smartcam.NewFrame(r.destWidth, r.destHeight, dst.Pix)

	if err != nil {
		return nil, errors.Mark(err, smartcam.ErrResize)
	}

	return out, nil
}
