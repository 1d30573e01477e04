// Package server exposes detection pipelines over HTTP
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	"github.com/swdee/go-smartcam/pipeline"
	"go.uber.org/zap"
)

// DefaultMaxUploadBytes limits the size of an uploaded image
const DefaultMaxUploadBytes = 16 << 20

// Options for the HTTP server
type Options struct {
	// Addr to listen on, eg: ":8080"
	Addr string
	// StaticDir is served at / when set
	StaticDir string
	// MaxUploadBytes is the largest accepted image body
	MaxUploadBytes int64
	// CaptureThreshold is the confidence a detection needs to flag the
	// result for capture
	CaptureThreshold float32
}

// Server handles detection requests using a pool of pipelines
type Server struct {
	pool    *pipeline.Pool
	stats   *pipeline.LatencyStats
	trigger pipeline.CaptureTrigger
	opts    Options
	log     *zap.Logger
	router  *gin.Engine
}

// New returns a Server.  The stats, normally shared with the pipelines of the
// pool, are reported on /v1/stats and may be nil.
func New(pool *pipeline.Pool, stats *pipeline.LatencyStats, opts Options, log *zap.Logger) *Server {

	if log == nil {
		log = zap.NewNop()
	}

	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}

	if stats == nil {
		stats = pipeline.NewLatencyStats(0)
	}

	s := &Server{
		pool:    pool,
		stats:   stats,
		trigger: pipeline.NewCaptureTrigger(opts.CaptureThreshold),
		opts:    opts,
		log:     log,
	}

	s.router = s.routes()

	return s
}

// routes builds the gin router
func (s *Server) routes() *gin.Engine {

	r := gin.New()
	r.Use(requestID(), accessLog(s.log), gin.Recovery())

	if s.opts.StaticDir != "" {
		r.Use(static.Serve("/", static.LocalFile(s.opts.StaticDir, true)))
	}

	r.GET("/healthz", s.health)

	v1 := r.Group("/v1")
	v1.POST("/detect", s.detect)
	v1.GET("/stats", s.statistics)

	return r
}

// Handler returns the http.Handler serving all routes
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP until the context is cancelled
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		s.log.Info("http server listening", zap.String("addr", s.opts.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server")

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "http server shutdown")
		}

		return nil
	}
}
