package commands

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	"github.com/swdee/go-smartcam"
	"github.com/swdee/go-smartcam/pipeline"
	"github.com/swdee/go-smartcam/render"
	"gocv.io/x/gocv"
	"go.uber.org/zap"
)

var annotateFile string

var detectCmd = &cobra.Command{
	Use:   "detect IMAGE",
	Short: "Detect objects in an image file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {

		labels, err := smartcam.LoadLabels(conf.Labels)

		if err != nil {
			return err
		}

		img, err := imaging.Open(args[0], imaging.AutoOrientation(true))

		if err != nil {
			return errors.Wrapf(err, "opening image %s", args[0])
		}

		frame, err := smartcam.FrameFromImage(img)

		if err != nil {
			return err
		}

		pl, err := newPipeline(conf, labels, pipeline.NewLatencyStats(conf.StatsWindow), log)

		if err != nil {
			return err
		}

		defer pl.Close()

		res, err := pl.Process(cmd.Context(), frame)

		if err != nil {
			return err
		}

		_, capture := pipeline.NewCaptureTrigger(conf.CaptureThreshold).Fired(res)

		log.Info("detection complete",
			zap.String("image", args[0]),
			zap.Int("detections", len(res.Detections)),
			zap.Float64("inference_ms", res.InferenceTimeMillis()),
			zap.Bool("capture", capture),
		)

		if annotateFile != "" {
			if err := annotate(args[0], annotateFile, res); err != nil {
				return err
			}
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		return enc.Encode(toResultJSON(res))
	},
}

func init() {
	detectCmd.Flags().StringVar(&annotateFile, "annotate", "",
		"write a copy of the image with detection boxes drawn to this file")
}

// annotate draws the detections on the source image and saves it to out
func annotate(src, out string, res *pipeline.Result) error {

	img := gocv.IMRead(src, gocv.IMReadColor)

	if img.Empty() {
		return errors.Newf("error reading image from %s", src)
	}

	defer img.Close()

	view := render.NewView(img.Cols(), img.Rows())
	overlays := render.Overlays(res.Detections, res.Width, res.Height, view)

	render.DetectionBoxes(&img, overlays, render.FontForHeight(img.Rows()), 2)

	if ok := gocv.IMWrite(out, img); !ok {
		return errors.Newf("error writing annotated image %s", out)
	}

	return nil
}

type detectionJSON struct {
	ClassID    int     `json:"class_id"`
	ClassName  string  `json:"class_name"`
	Confidence float32 `json:"confidence"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Color      string  `json:"color"`
}

type resultJSON struct {
	InferenceTimeMs float64           `json:"inference_time_ms"`
	Detections      []detectionJSON `json:"detections"`
}

func toResultJSON(res *pipeline.Result) resultJSON {

	out := resultJSON{
		InferenceTimeMs: res.InferenceTimeMillis(),
		Detections:      make([]detectionJSON, 0, len(res.Detections)),
	}

	for _, d := range res.Detections {
		out.Detections = append(out.Detections, detectionJSON{
			ClassID:    d.ClassID,
			ClassName:  d.ClassName,
			Confidence: d.Confidence,
			X:          d.Box.X,
			Y:          d.Box.Y,
			Width:      d.Box.Width,
			Height:     d.Box.Height,
			Color:      render.Hex(d.Color),
		})
	}

	return out
}
