package ai

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"objdetect/internal/model"
)

// cocoLabels are the 80 COCO class names in YOLO training order.
var cocoLabels = []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck", "boat",
	"traffic light", "fire hydrant", "stop sign", "parking meter", "bench", "bird", "cat",
	"dog", "horse", "sheep", "cow", "elephant", "bear", "zebra", "giraffe", "backpack",
	"umbrella", "handbag", "tie", "suitcase", "frisbee", "skis", "snowboard", "sports ball",
	"kite", "baseball bat", "baseball glove", "skateboard", "surfboard", "tennis racket",
	"bottle", "wine glass", "cup", "fork", "knife", "spoon", "bowl", "banana", "apple",
	"sandwich", "orange", "broccoli", "carrot", "hot dog", "pizza", "donut", "cake", "chair",
	"couch", "potted plant", "bed", "dining table", "toilet", "tv", "laptop", "mouse",
	"remote", "keyboard", "cell phone", "microwave", "oven", "toaster", "sink",
	"refrigerator", "book", "clock", "vase", "scissors", "teddy bear", "hair drier",
	"toothbrush",
}

// Labels maps model class ids to names.
type Labels []string

// COCOLabels returns the default COCO-80 label set.
func COCOLabels() Labels {
	return append(Labels(nil), cocoLabels...)
}

// LoadLabels reads one class name per line. Blank lines keep their index so
// files with gaps (SSD label maps) line up with the model's ids.
func LoadLabels(path string) (Labels, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open class names: %w", err)
	}
	defer file.Close()

	var labels Labels
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		labels = append(labels, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read class names: %w", err)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("class names file %s is empty", path)
	}
	return labels, nil
}

// Name maps a class id to its label, or model.UnknownClass.
func (l Labels) Name(classID int) string {
	if classID < 0 || classID >= len(l) || l[classID] == "" {
		return model.UnknownClass
	}
	return l[classID]
}
