// Package ai wraps object-detection models behind a single call contract:
// a PixelBuffer goes in, candidate detections come out.
package ai

import (
	"context"
	"errors"

	"objdetect/internal/logger"
	"objdetect/internal/model"
)

// Backend is an object-detection model. Implementations are loaded once at
// process start and must be safe for concurrent Infer calls.
type Backend interface {
	// Name identifies the backend in logs and errors.
	Name() string
	// Infer runs the model on buf. It must not modify buf.
	Infer(ctx context.Context, buf *model.PixelBuffer) ([]model.Detection, error)
	// Close releases the model.
	Close() error
}

// DetectorService is the stable entry point the pipeline calls. It applies
// no thresholding: every detection a backend reports is a candidate.
type DetectorService struct {
	backend Backend
	logger  *logger.Logger
}

// NewDetectorService wraps backend.
func NewDetectorService(backend Backend, logger *logger.Logger) *DetectorService {
	return &DetectorService{backend: backend, logger: logger}
}

// Detect runs the backend on buf. Backend failures are returned as
// *model.DetectionBackendError.
func (s *DetectorService) Detect(ctx context.Context, buf *model.PixelBuffer) ([]model.Detection, error) {
	if buf.Empty() {
		return nil, &model.DetectionBackendError{Backend: s.backend.Name(), Err: errors.New("empty pixel buffer")}
	}

	detections, err := s.backend.Infer(ctx, buf)
	if err != nil {
		var backendErr *model.DetectionBackendError
		if errors.As(err, &backendErr) {
			return nil, err
		}
		return nil, &model.DetectionBackendError{Backend: s.backend.Name(), Err: err}
	}

	s.logger.Info("Backend %s returned %d candidate(s) for %dx%d image", s.backend.Name(), len(detections), buf.Width, buf.Height)
	return detections, nil
}

// Close releases the backend.
func (s *DetectorService) Close() error {
	return s.backend.Close()
}

// Unavailable is a Backend standing in for a model that failed to load.
// Every call reports the load error.
type Unavailable struct {
	Backend string
	Err     error
}

func (u *Unavailable) Name() string { return u.Backend }

func (u *Unavailable) Infer(context.Context, *model.PixelBuffer) ([]model.Detection, error) {
	return nil, &model.DetectionBackendError{Backend: u.Backend, Err: u.Err}
}

func (u *Unavailable) Close() error { return nil }
