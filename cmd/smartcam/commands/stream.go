package commands

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/swdee/go-smartcam"
	"github.com/swdee/go-smartcam/internal/logging"
	"github.com/swdee/go-smartcam/pipeline"
	"github.com/swdee/go-smartcam/source"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var loopVideo bool

var streamCmd = &cobra.Command{
	Use:   "stream SOURCE",
	Short: "Run detection on a camera device or video file",
	Long: `Run detection on frames from a camera device id (eg: 0), a video file or a
stream url.  Frames arriving while the previous frame is still being processed
are dropped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {

		if len(conf.CPUCores) > 0 {
			mask := smartcam.CPUCoreMask(conf.CPUCores)

			if err := smartcam.SetCPUAffinity(mask); err != nil {
				return errors.WithHint(err, "check the cpu_cores setting")
			}

			log.Info("cpu affinity set", zap.Ints("cores", conf.CPUCores))
		}

		labels, err := smartcam.LoadLabels(conf.Labels)

		if err != nil {
			return err
		}

		stats := pipeline.NewLatencyStats(conf.StatsWindow)

		pl, err := newPipeline(conf, labels, stats, log)

		if err != nil {
			return err
		}

		defer pl.Close()

		capture, err := source.Open(args[0], source.Options{Loop: loopVideo},
			logging.Component(log, "source"))

		if err != nil {
			return err
		}

		defer capture.Close()

		worker := pipeline.NewWorker(pl, logging.Component(log, "worker"))
		trigger := pipeline.NewCaptureTrigger(conf.CaptureThreshold)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			return worker.Run(gctx)
		})

		g.Go(func() error {
			// stop the worker once the source ends
			defer cancel()
			return capture.Run(gctx, worker.Submit)
		})

		g.Go(func() error {
			for res := range worker.Results() {
				report(res, trigger)
			}
			return nil
		})

		err = g.Wait()

		sum := stats.Summary()
		log.Info("stream finished",
			zap.Uint64("captured", capture.Captured()),
			zap.Uint64("processed", sum.Total),
			zap.Uint64("dropped", worker.Dropped()),
			zap.Uint64("failed", worker.Failed()),
			zap.Float64("mean_ms", sum.Mean),
			zap.Float64("p95_ms", sum.P95),
		)

		return err
	},
}

func init() {
	streamCmd.Flags().BoolVar(&loopVideo, "loop", false, "restart a video file when it ends")
}

// report logs a result and whether it triggered a capture
func report(res *pipeline.Result, trigger pipeline.CaptureTrigger) {

	fields := []zap.Field{
		zap.Int64(logging.FieldFrameID, res.FrameID),
		zap.Float64(logging.FieldDurationMS, res.InferenceTimeMillis()),
		zap.Int("detections", len(res.Detections)),
	}

	if len(res.Detections) > 0 {
		top := res.Detections[0]
		fields = append(fields,
			zap.String("top_class", top.ClassName),
			zap.Float32("top_confidence", top.Confidence))
	}

	log.Debug("frame result", fields...)

	if det, ok := trigger.Fired(res); ok {
		log.Info("capture triggered",
			zap.Int64(logging.FieldFrameID, res.FrameID),
			zap.String("class", det.ClassName),
			zap.Float32("confidence", det.Confidence))
	}
}
