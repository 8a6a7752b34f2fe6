//go:build gocv
// +build gocv

package ai

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gocv.io/x/gocv"

	"objdetect/internal/logger"
	"objdetect/internal/model"
)

// GoCVOptions configures the OpenCV DNN backend.
type GoCVOptions struct {
	ModelPath    string
	ConfigPath   string // optional; SSD/Caffe style networks need it
	InputSize    int
	NMSThreshold float32
	ScoreFloor   float32
}

// GoCVBackend runs a network through OpenCV's dnn module. ONNX models are
// read as YOLOv8 heads; models loaded with a config file are read as SSD
// DetectionOutput layers.
type GoCVBackend struct {
	net    gocv.Net
	opts   GoCVOptions
	labels Labels
	ssd    bool
	logger *logger.Logger
	mu     sync.Mutex
}

// NewGoCVBackend loads the network and sets backend/target preferences.
func NewGoCVBackend(opts GoCVOptions, labels Labels, logger *logger.Logger) (*GoCVBackend, error) {
	if _, err := os.Stat(opts.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", opts.ModelPath)
	}
	if opts.ConfigPath != "" {
		if _, err := os.Stat(opts.ConfigPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", opts.ConfigPath)
		}
	}

	var net gocv.Net
	if strings.EqualFold(filepath.Ext(opts.ModelPath), ".onnx") {
		net = gocv.ReadNetFromONNX(opts.ModelPath)
	} else {
		net = gocv.ReadNet(opts.ModelPath, opts.ConfigPath)
	}
	if net.Empty() {
		return nil, fmt.Errorf("failed to load network from %s", opts.ModelPath)
	}

	errBackend := net.SetPreferableBackend(gocv.NetBackendDefault)
	errTarget := net.SetPreferableTarget(gocv.NetTargetCPU)
	if errBackend != nil || errTarget != nil {
		net.Close()
		return nil, fmt.Errorf("failed to set preferable backend or target")
	}

	if opts.InputSize <= 0 {
		opts.InputSize = 640
	}
	b := &GoCVBackend{
		net:    net,
		opts:   opts,
		labels: labels,
		ssd:    opts.ConfigPath != "",
		logger: logger,
	}
	logger.Info("Detection network initialized from %s", opts.ModelPath)
	return b, nil
}

func (b *GoCVBackend) Name() string { return "gocv" }

// Infer runs the network on buf. Forward calls are serialized; a gocv.Net
// holds per-call state.
func (b *GoCVBackend) Infer(ctx context.Context, buf *model.PixelBuffer) ([]model.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat, err := gocv.NewMatFromBytes(buf.Height, buf.Width, gocv.MatTypeCV8UC3, buf.Pix)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap pixels: %v", err)
	}
	defer mat.Close()

	f := frame{width: buf.Width, height: buf.Height}
	var blob gocv.Mat
	if b.ssd {
		// Mean-subtracted 300x300 input with normalized outputs.
		blob = gocv.BlobFromImage(mat, 1.0/127.5, image.Pt(300, 300), gocv.NewScalar(127.5, 127.5, 127.5, 0), true, false)
		f.scaleX, f.scaleY = float64(buf.Width), float64(buf.Height)
	} else {
		size := b.opts.InputSize
		blob = gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(size, size), gocv.NewScalar(0, 0, 0, 0), true, false)
		f.scaleX = float64(buf.Width) / float64(size)
		f.scaleY = float64(buf.Height) / float64(size)
	}
	defer blob.Close()

	b.mu.Lock()
	b.net.SetInput(blob, "")
	output := b.net.Forward("")
	b.mu.Unlock()
	defer output.Close()

	if output.Empty() {
		return nil, fmt.Errorf("network produced no output")
	}

	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("failed to read network output: %v", err)
	}

	var cands []candidate
	dims := output.Size()
	if b.ssd || dims[len(dims)-1] == 7 {
		cands = parseSSD(data, f, b.opts.ScoreFloor)
	} else {
		if len(dims) != 3 {
			return nil, fmt.Errorf("unexpected output dims %v", dims)
		}
		rows, anchors, transposed := dims[1], dims[2], false
		if rows > anchors {
			rows, anchors, transposed = anchors, rows, true
		}
		cands, err = parseYOLO(data, rows, anchors, transposed, f, b.opts.ScoreFloor)
		if err != nil {
			return nil, err
		}
	}
	if len(cands) == 0 {
		return []model.Detection{}, nil
	}

	rects := make([]image.Rectangle, len(cands))
	scores := make([]float32, len(cands))
	for i, c := range cands {
		rects[i] = c.rect
		scores[i] = c.score
	}
	keep := gocv.NMSBoxes(rects, scores, b.opts.ScoreFloor, b.opts.NMSThreshold)

	return toDetections(cands, keep, b.labels), nil
}

// Close releases the network.
func (b *GoCVBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.net.Close()
}
