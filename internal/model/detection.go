package model

import (
	"fmt"
	"image"
	"sort"
)

// UnknownClass is reported for class ids the model has no label for.
const UnknownClass = "Unknown"

// Box is a bounding box in pixel coordinates with X1 < X2 and Y1 < Y2.
type Box struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect returns the box as an image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// Valid reports whether the box has a positive area.
func (b Box) Valid() bool {
	return b.X1 < b.X2 && b.Y1 < b.Y2
}

// Detection is one candidate object reported by a detection backend.
type Detection struct {
	ClassID    int     `json:"class_id"`
	ClassName  string  `json:"class_name"`
	Confidence float64 `json:"confidence"`
	Box        Box     `json:"box"`
}

// Label returns the text drawn next to the detection's box.
func (d Detection) Label() string {
	return fmt.Sprintf("%s: %.2f", d.ClassName, d.Confidence)
}

// DetectionCounts maps a class name to the number of detections kept for it.
type DetectionCounts map[string]int

// Total returns the number of detections across all classes.
func (c DetectionCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Names returns the class names in lexical order.
func (c DetectionCounts) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClassOrder returns the distinct class names of dets in the order they
// first appear.
func ClassOrder(dets []Detection) []string {
	seen := make(map[string]bool, len(dets))
	order := make([]string, 0, len(dets))
	for _, d := range dets {
		if seen[d.ClassName] {
			continue
		}
		seen[d.ClassName] = true
		order = append(order, d.ClassName)
	}
	return order
}
