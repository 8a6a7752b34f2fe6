// Package vision holds the request-scoped image stages of the detection
// pipeline: decoding uploads, folding detections into counts, drawing the
// overlay and encoding the result.
package vision

import (
	"bytes"
	"errors"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"objdetect/internal/model"
)

// Decode turns uploaded bytes into a BGR PixelBuffer. Every colour model
// (gray, palette, alpha, CMYK, 16-bit) is normalised to 8-bit RGB first.
// Dimensions are preserved and EXIF orientation is not applied.
func Decode(data []byte) (*model.PixelBuffer, error) {
	if len(data) == 0 {
		return nil, model.ErrEmptyInput
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &model.InvalidImageError{Err: err}
	}
	if img.Bounds().Empty() {
		return nil, &model.InvalidImageError{Err: errors.New("image has no pixels")}
	}

	return model.FromNRGBA(imaging.Clone(img)), nil
}
