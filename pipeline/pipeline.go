package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/swdee/go-smartcam"
	"github.com/swdee/go-smartcam/internal/logging"
	"github.com/swdee/go-smartcam/postprocess"
	"github.com/swdee/go-smartcam/preprocess"
	"go.uber.org/zap"
)

// Result is the outcome of one successful pipeline pass
type Result struct {
	// FrameID is the sequence number the pipeline assigned to the frame
	FrameID int64
	// Width and Height of the frame the detections are scaled to
	Width  int
	Height int
	// InferenceTime is the wall clock time of the engine invocation
	InferenceTime time.Duration
	// Detections found in the frame sorted by descending confidence
	Detections postprocess.DetectionSet
}

// InferenceTimeMillis returns the engine invocation time in milliseconds
func (r *Result) InferenceTimeMillis() float64 {
	return float64(r.InferenceTime) / float64(time.Millisecond)
}

// Processor runs a single frame through detection
type Processor interface {
	Process(ctx context.Context, frame *smartcam.Frame) (*Result, error)
}

// Option configures a Pipeline
type Option func(*options)

type options struct {
	log        *zap.Logger
	resizeMode preprocess.ResizeMode
	stats      *LatencyStats
}

// WithLogger sets the logger per frame failures are reported to
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithResizeMode sets how frames are fitted to the input tensor
func WithResizeMode(mode preprocess.ResizeMode) Option {
	return func(o *options) {
		o.resizeMode = mode
	}
}

// WithStats records every inference time in the given LatencyStats
func WithStats(stats *LatencyStats) Option {
	return func(o *options) {
		o.stats = stats
	}
}

// Pipeline takes a camera frame through resizing, tensor conversion, engine
// invocation and result decoding.  Calls to Process are serialised so the
// engine and its tensor buffers only ever serve one frame at a time.
type Pipeline struct {
	cfg     smartcam.Config
	engine  smartcam.Engine
	resizer *preprocess.Resizer
	pre     *preprocess.Preprocessor
	decoder *postprocess.SSD
	ids     *IDGenerator
	stats   *LatencyStats
	log     *zap.Logger
	mu      sync.Mutex
}

// New returns a Pipeline using the given engine.  The pipeline takes
// ownership of the engine and closes it in Close.
func New(cfg smartcam.Config, engine smartcam.Engine, labels postprocess.Labeler,
	colors postprocess.ColorAssigner, opts ...Option) (*Pipeline, error) {

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid pipeline config")
	}

	if engine == nil || labels == nil || colors == nil {
		return nil, errors.New("pipeline needs an engine, labels and colors")
	}

	o := options{
		log:        zap.NewNop(),
		resizeMode: preprocess.ResizeStretch,
	}

	for _, opt := range opts {
		opt(&o)
	}

	if o.log == nil {
		o.log = zap.NewNop()
	}

	params := postprocess.SSDDefaultParams()
	params.BoxThreshold = cfg.ConfidenceThreshold

	return &Pipeline{
		cfg:     cfg,
		engine:  engine,
		resizer: preprocess.NewResizer(cfg.InputWidth, cfg.InputHeight, o.resizeMode),
		pre:     preprocess.NewPreprocessor(cfg),
		decoder: postprocess.NewSSD(params, labels, colors),
		ids:     NewIDGenerator(),
		stats:   o.stats,
		log:     o.log,
	}, nil
}

// Config returns the configuration the pipeline was built with
func (p *Pipeline) Config() smartcam.Config {
	return p.cfg
}

// Process runs the frame through the pipeline.  Every returned error is
// marked with smartcam.ErrNoResult, a failed frame never produces a partial
// result.
func (p *Pipeline) Process(ctx context.Context, frame *smartcam.Frame) (*Result, error) {

	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.ids.Next()

	res, err := p.process(ctx, id, frame)

	if err != nil {
		err = errors.Mark(errors.Wrapf(err, "frame %d", id), smartcam.ErrNoResult)
		p.log.Debug("frame discarded", zap.Int64(logging.FieldFrameID, id), zap.Error(err))
		return nil, err
	}

	return res, nil
}

func (p *Pipeline) process(ctx context.Context, id int64, frame *smartcam.Frame) (*Result, error) {

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resized, err := p.resizer.Resize(frame)

	if err != nil {
		return nil, err
	}

	tensor := p.pre.Tensor(resized, p.engine.InputType())
	defer p.pre.Release(tensor)

	start := time.Now()
	raw, err := p.engine.Invoke(ctx, tensor)
	elapsed := time.Since(start)

	if err != nil {
		return nil, errors.Mark(err, smartcam.ErrInvoke)
	}

	if raw == nil {
		return nil, errors.Wrap(smartcam.ErrInvoke, "engine returned no detections")
	}

	if err := raw.Validate(p.cfg.MaxDetections); err != nil {
		return nil, err
	}

	if p.stats != nil {
		p.stats.Observe(elapsed)
	}

	// boxes are normalised to the region that was scaled into the tensor
	src := p.resizer.SourceRect(frame.Width, frame.Height)
	dets := p.decoder.DetectObjects(raw, src.Dx(), src.Dy())

	if src.Min.X != 0 || src.Min.Y != 0 {
		for i := range dets {
			dets[i].Box.X += float64(src.Min.X)
			dets[i].Box.Y += float64(src.Min.Y)
		}
	}

	p.log.Debug("frame processed",
		zap.Int64(logging.FieldFrameID, id),
		zap.Float64(logging.FieldDurationMS, float64(elapsed)/float64(time.Millisecond)),
		zap.Int("detections", len(dets)),
	)

	return &Result{
		FrameID:       id,
		Width:         frame.Width,
		Height:        frame.Height,
		InferenceTime: elapsed,
		Detections:    dets,
	}, nil
}

// Close releases the engine
func (p *Pipeline) Close() error {

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.engine.Close()
}
