package onnx

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/swdee/go-smartcam"
	ort "github.com/yalue/onnxruntime_go"
)

var env struct {
	sync.Mutex
	refs int
}

// acquireEnvironment initialises the ONNX Runtime environment on first use.
// The shared library path is only applied by the first caller.
func acquireEnvironment(libPath string) error {

	env.Lock()
	defer env.Unlock()

	if env.refs == 0 && !ort.IsInitialized() {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}

		if err := ort.InitializeEnvironment(); err != nil {
			return errors.WithHint(
				errors.Mark(errors.Wrap(err, "initialising onnxruntime"), smartcam.ErrModelUnavailable),
				"set onnx.library to the onnxruntime shared library",
			)
		}
	}

	env.refs++

	return nil
}

// releaseEnvironment destroys the environment once the last engine closed
func releaseEnvironment() error {

	env.Lock()
	defer env.Unlock()

	if env.refs == 0 {
		return nil
	}

	env.refs--

	if env.refs == 0 && ort.IsInitialized() {
		return errors.Wrap(ort.DestroyEnvironment(), "destroying onnxruntime environment")
	}

	return nil
}
