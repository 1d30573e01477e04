package commands

import (
	"github.com/cockroachdb/errors"
	"github.com/swdee/go-smartcam"
	"github.com/swdee/go-smartcam/engine/onnx"
	"github.com/swdee/go-smartcam/engine/tflite"
	"github.com/swdee/go-smartcam/internal/logging"
	"github.com/swdee/go-smartcam/internal/settings"
	"github.com/swdee/go-smartcam/pipeline"
	"go.uber.org/zap"
)

// newEngine loads the configured inference engine
func newEngine(s *settings.Settings, log *zap.Logger) (smartcam.Engine, error) {

	log = logging.Component(log, "engine")

	switch s.Engine {
	case settings.EngineTFLite:
		eng, err := tflite.New(tflite.Options{
			ModelPath: s.Model,
			Threads:   s.Threads,
			EdgeTPU:   s.EdgeTPU,
		}, log)

		if err != nil {
			return nil, err
		}

		return eng, nil

	case settings.EngineONNX:
		typ, err := s.ONNXInputType()

		if err != nil {
			return nil, err
		}

		eng, err := onnx.New(onnx.Options{
			ModelPath:   s.Model,
			LibraryPath: s.ONNX.Library,
			InputName:   s.ONNX.InputName,
			OutputNames: s.ONNX.OutputNames,
			InputType:   typ,
			Float16:     s.ONNX.Float16,
			Threads:     s.Threads,
			Config:      s.PipelineConfig(),
		}, log)

		if err != nil {
			return nil, err
		}

		return eng, nil

	default:
		return nil, errors.Newf("unknown engine %q", s.Engine)
	}
}

// newPipeline builds a pipeline with its own engine
func newPipeline(s *settings.Settings, labels *smartcam.Labels, stats *pipeline.LatencyStats,
	log *zap.Logger) (*pipeline.Pipeline, error) {

	mode, err := s.ResizeMode()

	if err != nil {
		return nil, err
	}

	eng, err := newEngine(s, log)

	if err != nil {
		return nil, err
	}

	pl, err := pipeline.New(s.PipelineConfig(), eng, labels, s.Palette(),
		pipeline.WithLogger(logging.Component(log, "pipeline")),
		pipeline.WithResizeMode(mode),
		pipeline.WithStats(stats),
	)

	if err != nil {
		_ = eng.Close()
		return nil, err
	}

	return pl, nil
}
