package dto

import (
	"encoding/json"
	"time"

	"objdetect/internal/model"
)

// DetectionResult is what the pipeline hands back for one request.
type DetectionResult struct {
	Image      []byte                `json:"-"`
	Counts     model.DetectionCounts `json:"counts"`
	Detections []model.Detection     `json:"detections"`
	Width      int                   `json:"width"`
	Height     int                   `json:"height"`
}

// CountsHeader renders the counts as the JSON object carried in the
// X-Detected-Objects response header.
func (r *DetectionResult) CountsHeader() (string, error) {
	counts := r.Counts
	if counts == nil {
		counts = model.DetectionCounts{}
	}
	data, err := json.Marshal(counts)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DetectionEvent is broadcast to websocket subscribers after each
// successful detection.
type DetectionEvent struct {
	Type       string                `json:"type"`
	Timestamp  time.Time             `json:"timestamp"`
	Counts     model.DetectionCounts `json:"counts"`
	Total      int                   `json:"total"`
	Detections []model.Detection     `json:"detections"`
	Width      int                   `json:"width"`
	Height     int                   `json:"height"`
}

// NewDetectionEvent builds the broadcast payload for r.
func NewDetectionEvent(r *DetectionResult, at time.Time) DetectionEvent {
	return DetectionEvent{
		Type:       "detection",
		Timestamp:  at.UTC(),
		Counts:     r.Counts,
		Total:      r.Counts.Total(),
		Detections: r.Detections,
		Width:      r.Width,
		Height:     r.Height,
	}
}
