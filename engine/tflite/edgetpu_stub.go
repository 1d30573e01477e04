//go:build !edgetpu

package tflite

import (
	"github.com/cockroachdb/errors"
	"github.com/mattn/go-tflite"
	"github.com/swdee/go-smartcam"
	"go.uber.org/zap"
)

// addEdgeTPU is unavailable without the edgetpu build tag
func addEdgeTPU(_ *tflite.InterpreterOptions, _ *zap.Logger) (func(), error) {
	return nil, errors.WithHint(
		errors.Wrap(smartcam.ErrModelUnavailable, "EdgeTPU support not compiled in"),
		"rebuild with -tags edgetpu",
	)
}
