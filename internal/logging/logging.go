// Package logging builds the zap loggers used by the smartcam commands
package logging

import (
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names used across packages
const (
	FieldFrameID    = "frame_id"
	FieldDurationMS = "duration_ms"
	FieldRequestID  = "request_id"
	FieldComponent  = "component"
)

// Options for building a logger
type Options struct {
	// JSON selects structured JSON output, otherwise a console encoder is used
	JSON bool
	// Level is the minimum level logged, eg: "debug", "info", "warn"
	Level string
}

// New returns a logger for the options
func New(opts Options) (*zap.Logger, error) {

	level := zapcore.InfoLevel

	if opts.Level != "" {
		l, err := zapcore.ParseLevel(opts.Level)

		if err != nil {
			return nil, errors.WithHint(errors.Wrapf(err, "log level %q", opts.Level),
				"use one of debug, info, warn or error")
		}

		level = l
	}

	if opts.JSON {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(level)

		log, err := config.Build()

		if err != nil {
			return nil, errors.Wrap(err, "building json logger")
		}

		return log, nil
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		level,
	)

	return zap.New(core), nil
}

// Component returns a child logger tagged with the component name
func Component(log *zap.Logger, name string) *zap.Logger {
	return log.With(zap.String(FieldComponent, name))
}
