package vision

import (
	"bytes"
	"errors"

	"github.com/disintegration/imaging"

	"objdetect/internal/model"
)

// DefaultJPEGQuality matches the OpenCV imencode default.
const DefaultJPEGQuality = 95

// Encoder serializes annotated buffers to JPEG.
type Encoder struct {
	quality int
}

// NewEncoder returns an Encoder with the given JPEG quality (1-100).
func NewEncoder(quality int) *Encoder {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &Encoder{quality: quality}
}

// Encode returns buf as JPEG bytes.
func (e *Encoder) Encode(buf *model.PixelBuffer) ([]byte, error) {
	if buf.Empty() {
		return nil, &model.EncodeError{Err: errors.New("image is empty")}
	}

	var out bytes.Buffer
	if err := imaging.Encode(&out, buf.ToNRGBA(), imaging.JPEG, imaging.JPEGQuality(e.quality)); err != nil {
		return nil, &model.EncodeError{Err: err}
	}
	return out.Bytes(), nil
}
