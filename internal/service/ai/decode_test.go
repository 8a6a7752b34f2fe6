package ai

import (
	"image"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"objdetect/internal/model"
)

// yoloOutput lays out anchors as [4+classes][anchors].
func yoloOutput(classes int, anchors [][]float32) []float32 {
	rows := 4 + classes
	data := make([]float32, rows*len(anchors))
	for a, values := range anchors {
		for r, v := range values {
			data[r*len(anchors)+a] = v
		}
	}
	return data
}

func TestParseYOLO(t *testing.T) {
	data := yoloOutput(3, [][]float32{
		{320, 320, 64, 128, 0.1, 0.8, 0.05}, // class 1, scaled by 2
		{100, 100, 20, 20, 0.01, 0.02, 0.03},
	})
	f := frame{width: 1280, height: 1280, scaleX: 2, scaleY: 2}

	cands, err := parseYOLO(data, 7, 2, false, f, 0.05)
	require.NoError(t, err)
	require.Len(t, cands, 1)

	assert.Equal(t, 1, cands[0].classID)
	assert.InDelta(t, 0.8, cands[0].score, 1e-6)
	assert.Equal(t, image.Rect(576, 512, 704, 768), cands[0].rect)
}

func TestParseYOLO_Transposed(t *testing.T) {
	data := []float32{
		50, 50, 20, 20, 0.9, 0.1,
		10, 10, 4, 4, 0.2, 0.6,
	}
	f := frame{width: 100, height: 100, scaleX: 1, scaleY: 1}

	cands, err := parseYOLO(data, 6, 2, true, f, 0.05)
	require.NoError(t, err)
	require.Len(t, cands, 2)
	assert.Equal(t, 0, cands[0].classID)
	assert.Equal(t, image.Rect(40, 40, 60, 60), cands[0].rect)
	assert.Equal(t, 1, cands[1].classID)
}

func TestParseYOLO_ClipsToImage(t *testing.T) {
	data := yoloOutput(1, [][]float32{{5, 5, 20, 20, 0.9}})
	f := frame{width: 50, height: 50, scaleX: 1, scaleY: 1}

	cands, err := parseYOLO(data, 5, 1, false, f, 0.05)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, image.Rect(0, 0, 15, 15), cands[0].rect)
}

func TestParseYOLO_BadShape(t *testing.T) {
	_, err := parseYOLO([]float32{1, 2, 3}, 4, 1, false, frame{}, 0)
	assert.Error(t, err)

	_, err = parseYOLO([]float32{1, 2, 3}, 6, 2, false, frame{}, 0)
	assert.Error(t, err)
}

func TestParseSSD(t *testing.T) {
	data := []float32{
		0, 3, 0.9, 0.1, 0.2, 0.5, 0.6,
		0, 1, 0.01, 0.1, 0.1, 0.2, 0.2,
	}
	f := frame{width: 200, height: 100, scaleX: 200, scaleY: 100}

	cands := parseSSD(data, f, 0.05)
	require.Len(t, cands, 1)
	assert.Equal(t, 3, cands[0].classID)
	assert.Equal(t, image.Rect(20, 20, 100, 60), cands[0].rect)
}

func TestToDetections(t *testing.T) {
	cands := []candidate{
		{classID: 2, score: 0.7, rect: image.Rect(1, 2, 3, 4)},
		{classID: 500, score: 0.4, rect: image.Rect(5, 6, 7, 8)},
	}

	got := toDetections(cands, []int{1, 0, 9}, COCOLabels())

	require.Len(t, got, 2)
	assert.Equal(t, model.UnknownClass, got[0].ClassName)
	assert.Equal(t, "car", got[1].ClassName)
	assert.Equal(t, model.Box{X1: 1, Y1: 2, X2: 3, Y2: 4}, got[1].Box)
	assert.InDelta(t, 0.7, got[1].Confidence, 1e-6)
}

func TestDecodeReply(t *testing.T) {
	msg, err := cbor.Marshal(inferReply{Detections: []wireDetection{
		{ClassID: 0, Confidence: 0.9, Box: [4]int{1, 2, 30, 40}},
		{ClassID: 7, ClassName: "lorry", Confidence: 0.3, Box: [4]int{0, 0, 5, 5}},
	}})
	require.NoError(t, err)

	got, err := decodeReply(msg, COCOLabels())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "person", got[0].ClassName)
	assert.Equal(t, model.Box{X1: 1, Y1: 2, X2: 30, Y2: 40}, got[0].Box)
	assert.Equal(t, "lorry", got[1].ClassName, "worker supplied names win")
}

func TestDecodeReply_SkipsMalformedDetections(t *testing.T) {
	msg, err := cbor.Marshal(inferReply{Detections: []wireDetection{
		{ClassID: 2, Confidence: 0.8, Box: [4]int{40, 10, 20, 30}},
		{ClassID: 2, Confidence: 0.8, Box: [4]int{5, 5, 5, 20}},
		{ClassID: 2, Confidence: 1.5, Box: [4]int{0, 0, 10, 10}},
		{ClassID: 2, Confidence: -0.1, Box: [4]int{0, 0, 10, 10}},
		{ClassID: 2, Confidence: 1, Box: [4]int{0, 0, 10, 10}},
	}})
	require.NoError(t, err)

	got, err := decodeReply(msg, COCOLabels())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "car", got[0].ClassName)
	assert.Equal(t, 1.0, got[0].Confidence)
	assert.Equal(t, model.Box{X1: 0, Y1: 0, X2: 10, Y2: 10}, got[0].Box)
}

func TestDecodeReply_WorkerError(t *testing.T) {
	msg, err := cbor.Marshal(inferReply{Error: "CUDA out of memory"})
	require.NoError(t, err)

	_, err = decodeReply(msg, COCOLabels())
	assert.EqualError(t, err, "CUDA out of memory")
}

func TestDecodeReply_Garbage(t *testing.T) {
	_, err := decodeReply([]byte{0xff, 0x00, 0x13}, COCOLabels())
	assert.Error(t, err)
}

func TestInferRequest_WireFormat(t *testing.T) {
	buf := model.NewPixelBuffer(2, 1)
	buf.Pix[0] = 9

	msg, err := cbor.Marshal(inferRequest{Width: buf.Width, Height: buf.Height, Pix: buf.Pix})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, cbor.Unmarshal(msg, &decoded))
	assert.EqualValues(t, 2, decoded["width"])
	assert.EqualValues(t, 1, decoded["height"])
	assert.Equal(t, buf.Pix, decoded["pix"])
}
