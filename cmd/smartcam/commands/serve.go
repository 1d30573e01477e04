package commands

import (
	"github.com/spf13/cobra"
	"github.com/swdee/go-smartcam"
	"github.com/swdee/go-smartcam/internal/logging"
	"github.com/swdee/go-smartcam/pipeline"
	"github.com/swdee/go-smartcam/server"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve detection over HTTP",
	Long: `Serve detection over HTTP.

Routes:
  POST /v1/detect   image body or multipart "image" field, returns detections
  GET  /v1/stats    inference latency statistics
  GET  /healthz     liveness`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {

		labels, err := smartcam.LoadLabels(conf.Labels)

		if err != nil {
			return err
		}

		stats := pipeline.NewLatencyStats(conf.StatsWindow)

		pool, err := pipeline.NewPool(conf.Server.PoolSize, func(i int) (*pipeline.Pipeline, error) {
			return newPipeline(conf, labels, stats, log.With(zap.Int("pipeline", i)))
		})

		if err != nil {
			return err
		}

		defer pool.Close()

		srv := server.New(pool, stats, server.Options{
			Addr:             conf.Server.Addr,
			StaticDir:        conf.Server.StaticDir,
			CaptureThreshold: conf.CaptureThreshold,
		}, logging.Component(log, "server"))

		return srv.Run(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "address to listen on")
	serveCmd.Flags().String("static-dir", "", "directory served at /")
	serveCmd.Flags().Int("pool-size", 0, "number of pipelines serving requests")

	bindFlags(serveCmd, map[string]string{
		"server.addr":       "addr",
		"server.static_dir": "static-dir",
		"server.pool_size":  "pool-size",
	}, false)
}
