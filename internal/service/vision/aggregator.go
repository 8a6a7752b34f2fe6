package vision

import "objdetect/internal/model"

// DefaultConfidenceThreshold is the minimum score a detection needs to be
// counted and drawn.
const DefaultConfidenceThreshold = 0.20

// Aggregate keeps the detections whose confidence is at least threshold and
// counts them per class. The kept slice preserves input order so the
// annotator draws in the same order the counts were built. Zero survivors
// yields an empty, non-nil mapping.
func Aggregate(detections []model.Detection, threshold float64) (model.DetectionCounts, []model.Detection) {
	counts := make(model.DetectionCounts)
	kept := make([]model.Detection, 0, len(detections))

	for _, det := range detections {
		if det.Confidence < threshold {
			continue
		}
		counts[det.ClassName]++
		kept = append(kept, det)
	}

	return counts, kept
}
