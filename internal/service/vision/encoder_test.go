package vision

import (
	"bytes"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"objdetect/internal/model"
)

func TestEncoder_ProducesJPEG(t *testing.T) {
	buf := grayBuffer(64, 48)

	data, err := NewEncoder(DefaultJPEGQuality).Encode(buf)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte{0xFF, 0xD8}), "JPEG SOI marker")

	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}

func TestEncoder_EmptyBuffer(t *testing.T) {
	_, err := NewEncoder(DefaultJPEGQuality).Encode(&model.PixelBuffer{})

	var encodeErr *model.EncodeError
	assert.ErrorAs(t, err, &encodeErr)
}

func TestNewEncoder_InvalidQualityFallsBack(t *testing.T) {
	assert.Equal(t, DefaultJPEGQuality, NewEncoder(0).quality)
	assert.Equal(t, DefaultJPEGQuality, NewEncoder(101).quality)
	assert.Equal(t, 70, NewEncoder(70).quality)
}
