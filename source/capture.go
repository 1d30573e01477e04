// Package source reads camera or video frames with GoCV and hands them to a
// pipeline worker
package source

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/swdee/go-smartcam"
	"gocv.io/x/gocv"
	"go.uber.org/zap"
)

// SubmitFunc receives captured frames, it returns false when the frame was
// dropped
type SubmitFunc func(frame *smartcam.Frame) bool

// Options for a Capture
type Options struct {
	// Loop restarts a video file from the first frame when it ends
	Loop bool
}

// Capture reads frames from a camera device or video file
type Capture struct {
	uri       string
	opts      Options
	video     *gocv.VideoCapture
	log       *zap.Logger
	captured  atomic.Uint64
	submitted atomic.Uint64
}

// Open opens the capture source.  A uri made only of digits is treated as a
// camera device id, anything else as a file or stream url.
func Open(uri string, opts Options, log *zap.Logger) (*Capture, error) {

	if log == nil {
		log = zap.NewNop()
	}

	var device interface{} = uri

	if id, err := strconv.Atoi(uri); err == nil {
		device = id
	}

	video, err := gocv.OpenVideoCapture(device)

	if err != nil {
		return nil, errors.Wrapf(err, "opening capture source %s", uri)
	}

	if !video.IsOpened() {
		_ = video.Close()
		return nil, errors.Newf("capture source %s could not be opened", uri)
	}

	log.Info("capture opened",
		zap.String("uri", uri),
		zap.Float64("width", video.Get(gocv.VideoCaptureFrameWidth)),
		zap.Float64("height", video.Get(gocv.VideoCaptureFrameHeight)),
		zap.Float64("fps", video.Get(gocv.VideoCaptureFPS)),
	)

	return &Capture{
		uri:   uri,
		opts:  opts,
		video: video,
		log:   log,
	}, nil
}

// Run reads frames until the context is cancelled or the source ends.  Every
// frame is handed to submit, which decides whether it is processed or
// dropped.
func (c *Capture) Run(ctx context.Context, submit SubmitFunc) error {

	img := gocv.NewMat()
	defer img.Close()

	for {
		if ctx.Err() != nil {
			return nil
		}

		// read the next frame from the video
		ok := c.video.Read(&img)

		if !ok && c.opts.Loop {
			c.video.Set(gocv.VideoCapturePosFrames, 0)
			ok = c.video.Read(&img)
			c.log.Debug("capture looped", zap.String("uri", c.uri))
		}

		if !ok {
			c.log.Info("capture ended", zap.String("uri", c.uri),
				zap.Uint64("captured", c.Captured()),
				zap.Uint64("submitted", c.Submitted()))

			return nil
		}

		// Check if the frame is empty
		if img.Empty() {
			continue
		}

		f, err := FrameFromMat(img)

		if err != nil {
			c.log.Warn("skipping frame", zap.Error(err))
			continue
		}

		c.captured.Add(1)

		if submit(f) {
			c.submitted.Add(1)
		}
	}
}

// Captured returns the number of frames read
func (c *Capture) Captured() uint64 {
	return c.captured.Load()
}

// Submitted returns the number of frames accepted by the submit func
func (c *Capture) Submitted() uint64 {
	return c.submitted.Load()
}

// Close releases the capture device
func (c *Capture) Close() error {
	return c.video.Close()
}

// FrameFromMat converts an 8 bit BGR, BGRA or grayscale Mat into a Frame
func FrameFromMat(img gocv.Mat) (*smartcam.Frame, error) {

	bgra := gocv.NewMat()
	defer bgra.Close()

	switch img.Type() {
	case gocv.MatTypeCV8UC4:
		img.CopyTo(&bgra)
	case gocv.MatTypeCV8UC3:
		gocv.CvtColor(img, &bgra, gocv.ColorBGRToBGRA)
	case gocv.MatTypeCV8UC1:
		gocv.CvtColor(img, &bgra, gocv.ColorGrayToBGRA)
	default:
		return nil, errors.Newf("unsupported mat type %v", img.Type())
	}

	return smartcam.NewFrame(bgra.Cols(), bgra.Rows(), bgra.ToBytes())
}
