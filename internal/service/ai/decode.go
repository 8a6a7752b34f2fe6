package ai

import (
	"fmt"
	"image"
	"math"

	"objdetect/internal/model"
)

// candidate is a raw box from a network output, before non-maximum suppression.
type candidate struct {
	classID int
	score   float32
	rect    image.Rectangle
}

// frame maps network coordinates back onto the source image.
type frame struct {
	width, height int
	scaleX        float64
	scaleY        float64
}

func (f frame) rect(x1, y1, x2, y2 float64) image.Rectangle {
	r := image.Rect(
		int(math.Round(x1*f.scaleX)),
		int(math.Round(y1*f.scaleY)),
		int(math.Round(x2*f.scaleX)),
		int(math.Round(y2*f.scaleY)),
	)
	return r.Intersect(image.Rect(0, 0, f.width, f.height))
}

// parseYOLO reads a YOLOv8 style head: shape [1, 4+classes, anchors] with
// rows cx, cy, w, h followed by one score per class. When transposed is set
// the layout is [1, anchors, 4+classes].
func parseYOLO(data []float32, rows, anchors int, transposed bool, f frame, floor float32) ([]candidate, error) {
	if rows <= 4 || anchors <= 0 {
		return nil, fmt.Errorf("unexpected YOLO output shape %dx%d", rows, anchors)
	}
	if len(data) < rows*anchors {
		return nil, fmt.Errorf("YOLO output has %d values, want %d", len(data), rows*anchors)
	}

	at := func(row, anchor int) float32 {
		if transposed {
			return data[anchor*rows+row]
		}
		return data[row*anchors+anchor]
	}

	var out []candidate
	for a := 0; a < anchors; a++ {
		best, bestScore := -1, float32(0)
		for c := 4; c < rows; c++ {
			if s := at(c, a); s > bestScore {
				best, bestScore = c-4, s
			}
		}
		if best < 0 || bestScore < floor {
			continue
		}

		cx, cy := float64(at(0, a)), float64(at(1, a))
		w, h := float64(at(2, a)), float64(at(3, a))
		r := f.rect(cx-w/2, cy-h/2, cx+w/2, cy+h/2)
		if r.Empty() {
			continue
		}
		out = append(out, candidate{classID: best, score: bestScore, rect: r})
	}
	return out, nil
}

// parseSSD reads a DetectionOutput layer: rows of
// [batch, class, confidence, x1, y1, x2, y2] with normalized coordinates.
func parseSSD(data []float32, f frame, floor float32) []candidate {
	var out []candidate
	for i := 0; i+7 <= len(data); i += 7 {
		score := data[i+2]
		if score < floor {
			continue
		}
		r := f.rect(float64(data[i+3]), float64(data[i+4]), float64(data[i+5]), float64(data[i+6]))
		if r.Empty() {
			continue
		}
		out = append(out, candidate{classID: int(data[i+1]), score: score, rect: r})
	}
	return out
}

// toDetections names the kept candidates. keep holds indices into cands.
func toDetections(cands []candidate, keep []int, labels Labels) []model.Detection {
	detections := make([]model.Detection, 0, len(keep))
	for _, idx := range keep {
		if idx < 0 || idx >= len(cands) {
			continue
		}
		c := cands[idx]
		detections = append(detections, model.Detection{
			ClassID:    c.classID,
			ClassName:  labels.Name(c.classID),
			Confidence: float64(c.score),
			Box:        model.Box{X1: c.rect.Min.X, Y1: c.rect.Min.Y, X2: c.rect.Max.X, Y2: c.rect.Max.Y},
		})
	}
	return detections
}
