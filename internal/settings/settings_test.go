package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-smartcam"
	"github.com/swdee/go-smartcam/preprocess"
	"github.com/swdee/go-smartcam/render"
)

func TestLoadDefaults(t *testing.T) {

	s, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, EngineTFLite, s.Engine)
	assert.Equal(t, smartcam.DefaultConfig(), s.PipelineConfig())
	assert.Equal(t, float32(0.9), s.CaptureThreshold)
	assert.Equal(t, ":8080", s.Server.Addr)
	assert.Equal(t, 1, s.Server.PoolSize)
	assert.Len(t, s.ONNX.OutputNames, 4)

	mode, err := s.ResizeMode()
	require.NoError(t, err)
	assert.Equal(t, preprocess.ResizeStretch, mode)

	assert.Equal(t, render.DefaultPalette(), s.Palette())
}

func TestLoadConfigFile(t *testing.T) {

	file := filepath.Join(t.TempDir(), "smartcam.yaml")

	require.NoError(t, os.WriteFile(file, []byte(`
engine: onnx
threads: 4
confidence_threshold: 0.6
resize: center-crop
cpu_cores: [4, 5, 6, 7]
input:
  width: 320
  height: 320
onnx:
  input_type: float32
  float16: true
log:
  level: debug
`), 0o600))

	s, err := Load(NewViper(), file)
	require.NoError(t, err)

	cfg := s.PipelineConfig()
	assert.Equal(t, 4, cfg.ThreadCount)
	assert.InDelta(t, 0.6, cfg.ConfidenceThreshold, 1e-6)
	assert.Equal(t, 320, cfg.InputWidth)
	assert.Equal(t, 3, cfg.InputChannels)
	assert.Equal(t, []int{4, 5, 6, 7}, s.CPUCores)
	assert.True(t, s.ONNX.Float16)
	assert.Equal(t, "debug", s.Log.Level)

	typ, err := s.ONNXInputType()
	require.NoError(t, err)
	assert.Equal(t, smartcam.TensorFloat32, typ)

	mode, err := s.ResizeMode()
	require.NoError(t, err)
	assert.Equal(t, preprocess.ResizeCenterCrop, mode)
}

func TestLoadEnvironment(t *testing.T) {

	t.Setenv("SMARTCAM_THREADS", "3")
	t.Setenv("SMARTCAM_SERVER_ADDR", ":9000")

	s, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, 3, s.Threads)
	assert.Equal(t, ":9000", s.Server.Addr)
}

func TestLoadInvalid(t *testing.T) {

	t.Setenv("SMARTCAM_ENGINE", "coreml")
	t.Setenv("SMARTCAM_THREADS", "11")
	t.Setenv("SMARTCAM_RESIZE", "squash")

	_, err := Load(NewViper(), "")
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "coreml")
	assert.Contains(t, msg, "squash")
	assert.Contains(t, msg, "thread")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPaletteStride(t *testing.T) {

	s := &Settings{ColorStride: 4}
	p := s.Palette()

	assert.Equal(t, 10, p.Len())
	assert.Equal(t, (4/2-12/10)*4, p.ShadePercent(12))
}
