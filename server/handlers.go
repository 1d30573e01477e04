package server

import (
	"context"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/swdee/go-smartcam"
	"github.com/swdee/go-smartcam/pipeline"
	"github.com/swdee/go-smartcam/postprocess"
	"github.com/swdee/go-smartcam/render"
	"go.uber.org/zap"
)

// formField is the multipart field holding the image
const formField = "image"

// errPoolWait marks a request that gave up waiting for a free pipeline
var errPoolWait = errors.New("no pipeline available")

// BoxJSON is a bounding box in image pixels
type BoxJSON struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DetectionJSON is a single detection in a response
type DetectionJSON struct {
	ClassID    int     `json:"class_id"`
	ClassName  string  `json:"class_name"`
	Confidence float32 `json:"confidence"`
	Box        BoxJSON `json:"box"`
	Color      string  `json:"color"`
}

// DetectResponse is the body returned by POST /v1/detect
type DetectResponse struct {
	RequestID       string          `json:"request_id"`
	FrameID         int64           `json:"frame_id"`
	Width           int             `json:"width"`
	Height          int             `json:"height"`
	InferenceTimeMs float64         `json:"inference_time_ms"`
	Capture         bool            `json:"capture"`
	Detections      []DetectionJSON `json:"detections"`
}

// ErrorResponse is returned for failed requests
type ErrorResponse struct {
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"pipelines": s.pool.Size(),
	})
}

func (s *Server) statistics(c *gin.Context) {
	c.JSON(http.StatusOK, s.stats.Summary())
}

// detect runs detection on an uploaded image.  The image is either the raw
// request body or the "image" field of a multipart form.
func (s *Server) detect(c *gin.Context) {

	body, closeBody, err := s.imageReader(c)

	if err != nil {
		s.fail(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	defer closeBody()

	img, err := imaging.Decode(body, imaging.AutoOrientation(true))

	if err != nil {
		s.fail(c, http.StatusBadRequest, "invalid_image", errors.Wrap(err, "decoding image"))
		return
	}

	frame, err := smartcam.FrameFromImage(img)

	if err != nil {
		s.fail(c, http.StatusBadRequest, "invalid_image", err)
		return
	}

	res, err := s.process(c.Request.Context(), frame)

	if errors.Is(err, errPoolWait) {
		s.fail(c, http.StatusServiceUnavailable, "unavailable", err)
		return
	}

	if err != nil {
		s.fail(c, http.StatusUnprocessableEntity, "no_result", err)
		return
	}

	_, capture := s.trigger.Fired(res)

	c.JSON(http.StatusOK, DetectResponse{
		RequestID:       c.GetString(requestIDKey),
		FrameID:         res.FrameID,
		Width:           res.Width,
		Height:          res.Height,
		InferenceTimeMs: res.InferenceTimeMillis(),
		Capture:         capture,
		Detections:      detectionsJSON(res.Detections),
	})
}

// process runs the frame on a pipeline borrowed from the pool.  The pipeline
// goes back to the pool even when Process panics.
func (s *Server) process(ctx context.Context, frame *smartcam.Frame) (*pipeline.Result, error) {

	pl, err := s.pool.Get(ctx)

	if err != nil {
		return nil, errors.Mark(err, errPoolWait)
	}

	defer s.pool.Return(pl)

	return pl.Process(ctx, frame)
}

// imageReader returns the uploaded image data
func (s *Server) imageReader(c *gin.Context) (io.Reader, func(), error) {

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxUploadBytes)

	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return c.Request.Body, func() {}, nil
	}

	fh, err := c.FormFile(formField)

	if err != nil {
		return nil, nil, errors.Wrapf(err, "reading form field %q", formField)
	}

	f, err := fh.Open()

	if err != nil {
		return nil, nil, errors.Wrap(err, "opening uploaded file")
	}

	return f, func() { _ = f.Close() }, nil
}

// fail writes an error response
func (s *Server) fail(c *gin.Context, status int, code string, err error) {

	_ = c.Error(err)

	s.log.Debug("request failed",
		zap.String(requestIDKey, c.GetString(requestIDKey)),
		zap.String("code", code),
		zap.Error(err),
	)

	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.GetString(requestIDKey),
		Code:      code,
		Message:   err.Error(),
	})
}

// detectionsJSON converts detections to their response form
func detectionsJSON(dets postprocess.DetectionSet) []DetectionJSON {

	out := make([]DetectionJSON, 0, len(dets))

	for _, d := range dets {
		out = append(out, DetectionJSON{
			ClassID:    d.ClassID,
			ClassName:  d.ClassName,
			Confidence: d.Confidence,
			Box: BoxJSON{
				X:      d.Box.X,
				Y:      d.Box.Y,
				Width:  d.Box.Width,
				Height: d.Box.Height,
			},
			Color: render.Hex(d.Color),
		})
	}

	return out
}
