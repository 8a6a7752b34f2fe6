package config

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "gocv", cfg.DetectorBackend)
	assert.InDelta(t, 0.2, cfg.ConfidenceThreshold, 1e-9)
	assert.Equal(t, 2, cfg.StrokeWidth)
	assert.Equal(t, 95, cfg.JPEGQuality)
	assert.Equal(t, int64(50<<20), cfg.MaxUploadBytes())
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("DETECTOR_BACKEND", "ZMQ")
	t.Setenv("CONFIDENCE_THRESHOLD", "0.35")
	t.Setenv("TTS_ENABLED", "false")
	t.Setenv("STROKE_WIDTH", "not-a-number")

	cfg := Load()

	assert.Equal(t, 9001, cfg.Port)
	assert.Equal(t, "zmq", cfg.DetectorBackend)
	assert.InDelta(t, 0.35, cfg.ConfidenceThreshold, 1e-9)
	assert.False(t, cfg.TTSEnabled)
	assert.Equal(t, 2, cfg.StrokeWidth, "unparsable values fall back to the default")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"threshold above one", func(c *Config) { c.ConfidenceThreshold = 1.5 }},
		{"zero stroke", func(c *Config) { c.StrokeWidth = 0 }},
		{"jpeg quality", func(c *Config) { c.JPEGQuality = 0 }},
		{"backend", func(c *Config) { c.DetectorBackend = "tflite" }},
		{"box colour", func(c *Config) { c.BoxColor = "green" }},
		{"input size", func(c *Config) { c.ModelInputSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#00ff00")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{G: 255, A: 255}, c)

	_, err = ParseColor("#zzzzzz")
	assert.Error(t, err)
}
