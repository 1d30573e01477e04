// Package commands implements the smartcam command line
package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/swdee/go-smartcam/internal/logging"
	"github.com/swdee/go-smartcam/internal/settings"
	"go.uber.org/zap"
)

var (
	cfgFile string
	v       = settings.NewViper()

	// set by the root PersistentPreRunE
	conf *settings.Settings
	log  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "smartcam",
	Short: "Object detection for camera frames",
	Long: `smartcam runs a MobileNet SSD object detector over camera frames, video
files and uploaded images.

Examples:
  smartcam detect photo.jpg --annotate out.jpg
  smartcam stream 0
  smartcam serve --addr :8080
  smartcam labels`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {

		s, err := settings.Load(v, cfgFile)

		if err != nil {
			return err
		}

		l, err := logging.New(logging.Options{JSON: s.Log.JSON, Level: s.Log.Level})

		if err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}

		conf, log = s, l

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	flags.String("engine", "", "inference engine: tflite or onnx")
	flags.String("model", "", "path to the model file")
	flags.String("labels", "", "path to the labels file")
	flags.Int("threads", 0, "engine threads (1-10)")
	flags.Float32("threshold", 0, "minimum detection confidence")
	flags.String("resize", "", "frame fitting: stretch or center-crop")
	flags.Bool("edgetpu", false, "use a Coral EdgeTPU delegate")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.Bool("log-json", false, "log in JSON")

	bindFlags(rootCmd, map[string]string{
		"engine":               "engine",
		"model":                "model",
		"labels":               "labels",
		"threads":              "threads",
		"confidence_threshold": "threshold",
		"resize":               "resize",
		"edgetpu":              "edgetpu",
		"log.level":            "log-level",
		"log.json":             "log-json",
	}, true)

	rootCmd.AddCommand(detectCmd, streamCmd, serveCmd, labelsCmd)
}

// bindFlags binds viper keys to the named flags of cmd
func bindFlags(cmd *cobra.Command, keys map[string]string, persistent bool) {

	flags := cmd.Flags()
	if persistent {
		flags = cmd.PersistentFlags()
	}

	for key, name := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// Execute runs the root command until it completes or the process receives
// an interrupt
func Execute() error {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}
