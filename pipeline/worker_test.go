package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestWorkerDropsFramesWhileBusy(t *testing.T) {

	eng := &fakeEngine{raw: twoDetections(), block: make(chan struct{})}
	p, err := newTestPipeline(eng)
	require.NoError(t, err)

	w := NewWorker(p, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- w.Run(ctx)
	}()

	frame := solidFrame(4, 4, 0, 0, 0)

	// wait for the worker to be ready to receive
	require.Eventually(t, func() bool { return w.Submit(frame) },
		time.Second, time.Millisecond)

	// the engine is blocked so the worker is busy
	require.Eventually(t, func() bool { return eng.calls.Load() == 1 },
		time.Second, time.Millisecond)

	dropped := w.Dropped()
	assert.False(t, w.Submit(frame))
	assert.False(t, w.Submit(frame))
	assert.Equal(t, dropped+2, w.Dropped())

	close(eng.block)

	select {
	case res := <-w.Results():
		require.NotNil(t, res)
		assert.Len(t, res.Detections, 2)
	case <-time.After(time.Second):
		t.Fatal("no result published")
	}

	cancel()
	require.NoError(t, <-done)

	// results channel is closed once Run returns
	_, ok := <-w.Results()
	assert.False(t, ok)
}

func TestWorkerKeepsLatestResult(t *testing.T) {

	eng := &fakeEngine{raw: twoDetections()}
	p, err := newTestPipeline(eng)
	require.NoError(t, err)

	w := NewWorker(p, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = w.Run(ctx)
	}()

	frame := solidFrame(4, 4, 0, 0, 0)

	for i := 0; i < 3; i++ {
		require.Eventually(t, func() bool { return w.Submit(frame) },
			time.Second, time.Millisecond)
	}

	require.Eventually(t, func() bool { return eng.calls.Load() == 3 },
		time.Second, time.Millisecond)

	// the first two results were replaced by the third
	require.Eventually(t, func() bool {
		select {
		case res := <-w.Results():
			return res.FrameID == 3
		default:
			return false
		}
	}, time.Second, time.Millisecond)
}

func TestWorkerSkipsFailedFrames(t *testing.T) {

	eng := &fakeEngine{err: errEngineFault}
	p, err := newTestPipeline(eng)
	require.NoError(t, err)

	w := NewWorker(p, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = w.Run(ctx)
	}()

	frame := solidFrame(4, 4, 0, 0, 0)

	for i := 0; i < 2; i++ {
		require.Eventually(t, func() bool { return w.Submit(frame) },
			time.Second, time.Millisecond)
	}

	require.Eventually(t, func() bool { return w.Failed() == 2 },
		time.Second, time.Millisecond)

	select {
	case <-w.Results():
		t.Fatal("failed frame published a result")
	default:
	}
}
