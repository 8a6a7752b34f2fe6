// Package service composes the detection stages into the request pipeline.
package service

import (
	"context"
	"time"

	"objdetect/internal/dto"
	"objdetect/internal/logger"
	"objdetect/internal/model"
	"objdetect/internal/service/vision"
)

// ObjectDetector produces candidate detections for a decoded image.
type ObjectDetector interface {
	Detect(ctx context.Context, buf *model.PixelBuffer) ([]model.Detection, error)
}

// Announcer speaks a summary of detection counts in the background. order
// lists class names as they were first detected.
type Announcer interface {
	Announce(counts model.DetectionCounts, order []string, enabled bool)
}

// ResultPublisher pushes detection events to live subscribers.
type ResultPublisher interface {
	Publish(event dto.DetectionEvent)
}

// PipelineOptions tunes the post-detection stages.
type PipelineOptions struct {
	ConfidenceThreshold float64
	Style               vision.Style
	JPEGQuality         int
}

// Pipeline runs decode, detect, aggregate, annotate and encode for one
// upload. Side effects fire only after the annotated image is encoded.
type Pipeline struct {
	detector  ObjectDetector
	annotator *vision.Annotator
	encoder   *vision.Encoder
	threshold float64
	announcer Announcer
	publisher ResultPublisher
	logger    *logger.Logger
	now       func() time.Time
}

// NewPipeline wires the stages. announcer and publisher may be nil.
func NewPipeline(detector ObjectDetector, announcer Announcer, publisher ResultPublisher, opts PipelineOptions, logger *logger.Logger) *Pipeline {
	return &Pipeline{
		detector:  detector,
		annotator: vision.NewAnnotator(opts.Style),
		encoder:   vision.NewEncoder(opts.JPEGQuality),
		threshold: opts.ConfidenceThreshold,
		announcer: announcer,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Detect processes imageBytes and returns the annotated JPEG with per-class
// counts. Errors are *model.InvalidImageError, model.ErrEmptyInput,
// *model.DetectionBackendError or *model.EncodeError.
func (p *Pipeline) Detect(ctx context.Context, imageBytes []byte, speak bool) (*dto.DetectionResult, error) {
	buf, err := vision.Decode(imageBytes)
	if err != nil {
		return nil, err
	}

	candidates, err := p.detector.Detect(ctx, buf)
	if err != nil {
		return nil, err
	}

	counts, kept := vision.Aggregate(candidates, p.threshold)
	annotated := p.annotator.Annotate(buf, kept)

	encoded, err := p.encoder.Encode(annotated)
	if err != nil {
		return nil, err
	}

	result := &dto.DetectionResult{
		Image:      encoded,
		Counts:     counts,
		Detections: kept,
		Width:      buf.Width,
		Height:     buf.Height,
	}
	p.logger.Info("Detected %d object(s) in %dx%d image: %v", counts.Total(), buf.Width, buf.Height, map[string]int(counts))

	if p.announcer != nil {
		p.announcer.Announce(counts, model.ClassOrder(kept), speak)
	}
	if p.publisher != nil {
		p.publisher.Publish(dto.NewDetectionEvent(result, p.now()))
	}
	return result, nil
}
