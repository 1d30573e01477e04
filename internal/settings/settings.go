// Package settings loads the smartcam application settings with viper from
// defaults, an optional config file, SMARTCAM_ environment variables and
// command line flags
package settings

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"github.com/swdee/go-smartcam"
	"github.com/swdee/go-smartcam/pipeline"
	"github.com/swdee/go-smartcam/preprocess"
	"github.com/swdee/go-smartcam/render"
)

// EnvPrefix is prepended to environment variable names
const EnvPrefix = "SMARTCAM"

// Engine names
const (
	EngineTFLite = "tflite"
	EngineONNX   = "onnx"
)

// Settings is the full application configuration
type Settings struct {
	Engine              string         `mapstructure:"engine"`
	Model               string         `mapstructure:"model"`
	Labels              string         `mapstructure:"labels"`
	Threads             int            `mapstructure:"threads"`
	ConfidenceThreshold float32        `mapstructure:"confidence_threshold"`
	CaptureThreshold    float32        `mapstructure:"capture_threshold"`
	MaxDetections       int            `mapstructure:"max_detections"`
	Input               InputSettings  `mapstructure:"input"`
	Resize              string         `mapstructure:"resize"`
	EdgeTPU             bool           `mapstructure:"edgetpu"`
	ONNX                ONNXSettings   `mapstructure:"onnx"`
	Server              ServerSettings `mapstructure:"server"`
	Log                 LogSettings    `mapstructure:"log"`
	CPUCores            []int          `mapstructure:"cpu_cores"`
	StatsWindow         int            `mapstructure:"stats_window"`
	ColorStride         int            `mapstructure:"color_stride"`
}

// InputSettings are the model input tensor dimensions
type InputSettings struct {
	Width    int `mapstructure:"width"`
	Height   int `mapstructure:"height"`
	Channels int `mapstructure:"channels"`
}

// ONNXSettings configure the ONNX Runtime engine
type ONNXSettings struct {
	Library     string   `mapstructure:"library"`
	InputName   string   `mapstructure:"input_name"`
	OutputNames []string `mapstructure:"output_names"`
	InputType   string   `mapstructure:"input_type"`
	Float16     bool     `mapstructure:"float16"`
}

// ServerSettings configure the HTTP server
type ServerSettings struct {
	Addr      string `mapstructure:"addr"`
	StaticDir string `mapstructure:"static_dir"`
	PoolSize  int    `mapstructure:"pool_size"`
}

// LogSettings configure logging
type LogSettings struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
}

// SetDefaults configures default values for all settings
func SetDefaults(v *viper.Viper) {
	v.SetDefault("engine", EngineTFLite)
	v.SetDefault("model", "models/detect.tflite")
	v.SetDefault("labels", "models/labelmap.txt")
	v.SetDefault("threads", 1)
	v.SetDefault("confidence_threshold", smartcam.DefaultConfidenceThreshold)
	v.SetDefault("capture_threshold", pipeline.DefaultCaptureThreshold)
	v.SetDefault("max_detections", smartcam.DefaultMaxDetections)

	v.SetDefault("input.width", smartcam.DefaultInputWidth)
	v.SetDefault("input.height", smartcam.DefaultInputHeight)
	v.SetDefault("input.channels", smartcam.DefaultInputChannels)
	v.SetDefault("resize", preprocess.ResizeStretch.String())
	v.SetDefault("edgetpu", false)

	v.SetDefault("onnx.library", "")
	v.SetDefault("onnx.input_name", "image_tensor")
	v.SetDefault("onnx.output_names", []string{
		"detection_boxes", "detection_classes", "detection_scores", "num_detections",
	})
	v.SetDefault("onnx.input_type", smartcam.TensorUint8.String())
	v.SetDefault("onnx.float16", false)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.static_dir", "")
	v.SetDefault("server.pool_size", 1)

	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")

	v.SetDefault("cpu_cores", []int{})
	v.SetDefault("stats_window", pipeline.DefaultStatsWindow)
	v.SetDefault("color_stride", render.DefaultStride)
}

// NewViper returns a viper instance with defaults and environment binding
func NewViper() *viper.Viper {

	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	return v
}

// Load reads the optional config file into v and returns the settings
func Load(v *viper.Viper, configFile string) (*Settings, error) {

	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configFile)
		}
	}

	var s Settings

	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

// Validate checks the settings that are not covered by smartcam.Config
func (s *Settings) Validate() error {

	var errs []error

	if s.Engine != EngineTFLite && s.Engine != EngineONNX {
		errs = append(errs, errors.WithHint(errors.Newf("unknown engine %q", s.Engine),
			"set engine to tflite or onnx"))
	}

	if _, err := s.ResizeMode(); err != nil {
		errs = append(errs, err)
	}

	if s.Engine == EngineONNX {
		if _, err := s.ONNXInputType(); err != nil {
			errs = append(errs, err)
		}
	}

	if s.Server.PoolSize < 1 {
		errs = append(errs, errors.Newf("server.pool_size must be at least 1, got %d", s.Server.PoolSize))
	}

	if s.ColorStride < 0 {
		errs = append(errs, errors.Newf("color_stride must not be negative, got %d", s.ColorStride))
	}

	for _, core := range s.CPUCores {
		if core < 0 || core >= 64 {
			errs = append(errs, errors.Newf("cpu core %d out of range", core))
		}
	}

	errs = append(errs, s.PipelineConfig().Validate())

	return errors.Join(errs...)
}

// PipelineConfig returns the per pipeline configuration
func (s *Settings) PipelineConfig() smartcam.Config {

	cfg := smartcam.DefaultConfig()
	cfg.ThreadCount = s.Threads
	cfg.ConfidenceThreshold = s.ConfidenceThreshold
	cfg.InputWidth = s.Input.Width
	cfg.InputHeight = s.Input.Height
	cfg.InputChannels = s.Input.Channels
	cfg.MaxDetections = s.MaxDetections

	return cfg
}

// ResizeMode returns the parsed resize mode
func (s *Settings) ResizeMode() (preprocess.ResizeMode, error) {
	return preprocess.ParseResizeMode(s.Resize)
}

// ONNXInputType returns the parsed ONNX input tensor type
func (s *Settings) ONNXInputType() (smartcam.TensorType, error) {
	switch strings.ToLower(s.ONNX.InputType) {
	case "uint8", "":
		return smartcam.TensorUint8, nil
	case "float32":
		return smartcam.TensorFloat32, nil
	default:
		return 0, errors.Newf("unknown onnx.input_type %q, use uint8 or float32", s.ONNX.InputType)
	}
}

// Palette returns the color palette for the configured stride
func (s *Settings) Palette() *render.Palette {

	if s.ColorStride == render.DefaultStride {
		return render.DefaultPalette()
	}

	return render.NewPalette(render.DefaultPalette().Colors(), s.ColorStride)
}
