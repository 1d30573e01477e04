package pipeline

import (
	"context"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/swdee/go-smartcam"
	"github.com/swdee/go-smartcam/render"
)

// fakeEngine returns canned detections and records the tensors it is given
type fakeEngine struct {
	typ     smartcam.TensorType
	raw     *smartcam.RawDetections
	err     error
	block   chan struct{}
	calls   atomic.Int32
	active  atomic.Int32
	overlap atomic.Bool
	closed  atomic.Bool
	last    []float32
}

func (f *fakeEngine) Invoke(ctx context.Context, t *smartcam.InputTensor) (*smartcam.RawDetections, error) {

	if f.active.Add(1) > 1 {
		f.overlap.Store(true)
	}
	defer f.active.Add(-1)

	f.calls.Add(1)

	if f.block != nil {
		<-f.block
	}

	if t.Type == smartcam.TensorFloat32 {
		f.last = append(f.last[:0], t.Float32s()...)
	}

	if f.err != nil {
		return nil, f.err
	}

	return f.raw, nil
}

func (f *fakeEngine) InputType() smartcam.TensorType {
	return f.typ
}

func (f *fakeEngine) Close() error {
	f.closed.Store(true)
	return nil
}

var errEngineFault = errors.New("engine fault")

func testConfig() smartcam.Config {
	cfg := smartcam.DefaultConfig()
	cfg.InputWidth = 4
	cfg.InputHeight = 4
	cfg.MaxDetections = 2
	return cfg
}

func testLabels() *smartcam.Labels {
	return smartcam.NewLabels([]string{"???", "person", "bicycle", "car"})
}

// twoDetections holds a car at 0.6 and a person at 0.9
func twoDetections() *smartcam.RawDetections {
	return smartcam.NewRawDetections(
		[]float32{
			0.1, 0.2, 0.6, 0.8,
			0, 0, 0.5, 0.5,
		},
		[]float32{2, 0},
		[]float32{0.6, 0.9},
		2,
	)
}

func newTestPipeline(eng *fakeEngine, opts ...Option) (*Pipeline, error) {
	return New(testConfig(), eng, testLabels(), render.DefaultPalette(), opts...)
}

func solidFrame(w, h int, b, g, r byte) *smartcam.Frame {

	pix := make([]byte, w*h*smartcam.BGRAChannels)

	for i := 0; i < len(pix); i += smartcam.BGRAChannels {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = b, g, r, 255
	}

	f, err := smartcam.NewFrame(w, h, pix)

	if err != nil {
		panic(err)
	}

	return f
}
