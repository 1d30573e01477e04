//go:build edgetpu

package tflite

import (
	"github.com/cockroachdb/errors"
	"github.com/mattn/go-tflite"
	"github.com/mattn/go-tflite/delegates/edgetpu"
	"github.com/swdee/go-smartcam"
	"go.uber.org/zap"
)

// addEdgeTPU attaches the first EdgeTPU device to the interpreter options and
// returns a func releasing the delegate
func addEdgeTPU(options *tflite.InterpreterOptions, log *zap.Logger) (func(), error) {

	devices, err := edgetpu.DeviceList()

	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "listing EdgeTPU devices"), smartcam.ErrModelUnavailable)
	}

	if len(devices) == 0 {
		return nil, errors.WithHint(
			errors.Wrap(smartcam.ErrModelUnavailable, "no EdgeTPU devices found"),
			"connect a Coral device or set edgetpu to false",
		)
	}

	delegate := edgetpu.New(devices[0])

	if delegate == nil {
		return nil, errors.Wrap(smartcam.ErrModelUnavailable, "failed to create EdgeTPU delegate")
	}

	options.AddDelegate(delegate)

	log.Info("using EdgeTPU", zap.String("device", devices[0].Path))

	return delegate.Delete, nil
}
