package vision

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"objdetect/internal/model"
)

func TestDecode_EmptyInput(t *testing.T) {
	_, err := Decode(nil)
	require.ErrorIs(t, err, model.ErrEmptyInput)

	_, err = Decode([]byte{})
	require.ErrorIs(t, err, model.ErrEmptyInput)
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode([]byte("definitely not an image"))

	var invalid *model.InvalidImageError
	require.ErrorAs(t, err, &invalid)
	assert.NotEmpty(t, invalid.Err.Error())
}

func TestDecode_TruncatedPNG(t *testing.T) {
	data := encodePNG(t, quadrants(16, 16))
	_, err := Decode(data[:len(data)/2])

	var invalid *model.InvalidImageError
	assert.ErrorAs(t, err, &invalid)
}

func TestDecode_PNGStoresBGR(t *testing.T) {
	buf, err := Decode(encodePNG(t, quadrants(20, 10)))
	require.NoError(t, err)

	require.Equal(t, 20, buf.Width)
	require.Equal(t, 10, buf.Height)
	require.Len(t, buf.Pix, 20*10*model.Channels)

	// top-left is red: B=0, G=0, R=255
	i := buf.PixOffset(0, 0)
	assert.Equal(t, []uint8{0, 0, 255}, buf.Pix[i:i+3])
	// bottom-left is blue
	i = buf.PixOffset(0, 9)
	assert.Equal(t, []uint8{255, 0, 0}, buf.Pix[i:i+3])
}

func TestDecode_GrayscaleBecomesThreeChannels(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 7, 5))
	gray.SetGray(3, 2, color.Gray{Y: 77})

	buf, err := Decode(encodePNG(t, gray))
	require.NoError(t, err)

	assert.Equal(t, 7, buf.Width)
	assert.Equal(t, 5, buf.Height)
	i := buf.PixOffset(3, 2)
	assert.Equal(t, []uint8{77, 77, 77}, buf.Pix[i:i+3])
}

func TestDecode_AlphaIsDropped(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 128})

	buf, err := Decode(encodePNG(t, img))
	require.NoError(t, err)

	i := buf.PixOffset(1, 1)
	assert.Equal(t, []uint8{30, 20, 10}, buf.Pix[i:i+3])
}

func TestDecode_PalettedGIF(t *testing.T) {
	buf, err := Decode(encodeGIF(t, quadrants(12, 8)))
	require.NoError(t, err)

	assert.Equal(t, 12, buf.Width)
	assert.Equal(t, 8, buf.Height)
	assert.Len(t, buf.Pix, 12*8*3)
}

func TestDecode_JPEGRoundTripPreservesDimensions(t *testing.T) {
	buf, err := Decode(encodeJPEG(t, quadrants(33, 17)))
	require.NoError(t, err)

	encoded, err := NewEncoder(DefaultJPEGQuality).Encode(buf)
	require.NoError(t, err)

	again, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, buf.Width, again.Width)
	assert.Equal(t, buf.Height, again.Height)
	assert.Equal(t, len(buf.Pix), len(again.Pix))
}
