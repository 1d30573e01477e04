package pipeline

import (
	"context"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/swdee/go-smartcam"
	"go.uber.org/zap"
)

// Worker feeds frames from a capture source to a Processor one at a time.
// Frames submitted while the processor is busy are dropped, and only the
// latest result is kept for the presentation side.
type Worker struct {
	proc    Processor
	frames  chan *smartcam.Frame
	results chan *Result
	dropped atomic.Uint64
	failed  atomic.Uint64
	log     *zap.Logger
}

// NewWorker returns a Worker for the processor
func NewWorker(proc Processor, log *zap.Logger) *Worker {

	if log == nil {
		log = zap.NewNop()
	}

	return &Worker{
		proc:    proc,
		frames:  make(chan *smartcam.Frame),
		results: make(chan *Result, 1),
		log:     log,
	}
}

// Submit hands the frame to the worker.  It never blocks, false is returned
// and the frame dropped when the worker is not waiting for a frame.
func (w *Worker) Submit(frame *smartcam.Frame) bool {
	select {
	case w.frames <- frame:
		return true
	default:
		w.dropped.Add(1)
		return false
	}
}

// Results returns the channel results are published on.  It holds at most
// one result and an unread result is replaced by a newer one.  The channel
// is closed when Run returns.
func (w *Worker) Results() <-chan *Result {
	return w.results
}

// Dropped returns the number of frames dropped because the worker was busy
func (w *Worker) Dropped() uint64 {
	return w.dropped.Load()
}

// Failed returns the number of frames that produced no result
func (w *Worker) Failed() uint64 {
	return w.failed.Load()
}

// Run processes submitted frames until the context is cancelled.  Frame
// failures are logged and skipped.
func (w *Worker) Run(ctx context.Context) error {

	defer close(w.results)

	for {
		select {
		case <-ctx.Done():
			return nil

		case frame := <-w.frames:
			// a frame in progress runs to completion
			res, err := w.proc.Process(context.WithoutCancel(ctx), frame)

			if err != nil {
				if !errors.Is(err, smartcam.ErrNoResult) {
					return err
				}

				w.failed.Add(1)
				w.log.Warn("no result for frame", zap.Error(err))
				continue
			}

			w.publish(res)
		}
	}
}

// publish replaces any unread result with res
func (w *Worker) publish(res *Result) {
	for {
		select {
		case w.results <- res:
			return
		default:
		}

		select {
		case <-w.results:
		default:
		}
	}
}
