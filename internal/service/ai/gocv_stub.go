//go:build !gocv
// +build !gocv

package ai

import (
	"context"
	"errors"

	"objdetect/internal/logger"
	"objdetect/internal/model"
)

var errNoGoCV = errors.New("gocv build tag is not enabled")

// GoCVOptions configures the OpenCV DNN backend.
type GoCVOptions struct {
	ModelPath    string
	ConfigPath   string
	InputSize    int
	NMSThreshold float32
	ScoreFloor   float32
}

// GoCVBackend is a placeholder for builds without OpenCV.
type GoCVBackend struct{}

// NewGoCVBackend always fails when built without the gocv tag.
func NewGoCVBackend(opts GoCVOptions, labels Labels, logger *logger.Logger) (*GoCVBackend, error) {
	_ = opts
	_ = labels
	_ = logger
	return nil, errNoGoCV
}

func (b *GoCVBackend) Name() string { return "gocv" }

func (b *GoCVBackend) Infer(ctx context.Context, buf *model.PixelBuffer) ([]model.Detection, error) {
	_ = ctx
	_ = buf
	return nil, errNoGoCV
}

func (b *GoCVBackend) Close() error { return nil }
