package model

import (
	"image"
	"image/color"
)

// Channels is the number of samples stored per pixel.
const Channels = 3

// PixelBuffer is a decoded image held as 8-bit samples in BGR order,
// row-major, with a stride of Width*Channels. The layout matches an
// OpenCV CV_8UC3 Mat so backends can wrap Pix without converting.
//
// PixelBuffer implements draw.Image, so the standard image/draw and
// x/image/font helpers can paint onto it directly.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewPixelBuffer allocates a black buffer of the given size.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*Channels),
	}
}

// Empty reports whether the buffer has no pixels.
func (b *PixelBuffer) Empty() bool {
	return b == nil || b.Width <= 0 || b.Height <= 0 || len(b.Pix) < b.Width*b.Height*Channels
}

// Stride returns the number of bytes per row.
func (b *PixelBuffer) Stride() int {
	return b.Width * Channels
}

// Clone returns a deep copy that shares no memory with b.
func (b *PixelBuffer) Clone() *PixelBuffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &PixelBuffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// PixOffset returns the index of the blue sample of pixel (x, y).
func (b *PixelBuffer) PixOffset(x, y int) int {
	return y*b.Stride() + x*Channels
}

// Bounds implements image.Image.
func (b *PixelBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// ColorModel implements image.Image.
func (b *PixelBuffer) ColorModel() color.Model {
	return color.RGBAModel
}

// At implements image.Image. Pixels outside the buffer are transparent.
func (b *PixelBuffer) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(b.Bounds())) {
		return color.RGBA{}
	}
	i := b.PixOffset(x, y)
	return color.RGBA{R: b.Pix[i+2], G: b.Pix[i+1], B: b.Pix[i], A: 0xff}
}

// Set implements draw.Image. The alpha component of c is ignored.
func (b *PixelBuffer) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(b.Bounds())) {
		return
	}
	r, g, bl, _ := c.RGBA()
	i := b.PixOffset(x, y)
	b.Pix[i] = uint8(bl >> 8)
	b.Pix[i+1] = uint8(g >> 8)
	b.Pix[i+2] = uint8(r >> 8)
}

// SetBGR writes a pixel without going through color.Color.
func (b *PixelBuffer) SetBGR(x, y int, blue, green, red uint8) {
	i := b.PixOffset(x, y)
	b.Pix[i] = blue
	b.Pix[i+1] = green
	b.Pix[i+2] = red
}

// ToNRGBA converts the buffer into an opaque *image.NRGBA for encoders.
func (b *PixelBuffer) ToNRGBA() *image.NRGBA {
	dst := image.NewNRGBA(b.Bounds())
	for y := 0; y < b.Height; y++ {
		src := b.Pix[y*b.Stride() : (y+1)*b.Stride()]
		row := dst.Pix[y*dst.Stride : y*dst.Stride+b.Width*4]
		for x := 0; x < b.Width; x++ {
			row[x*4] = src[x*3+2]
			row[x*4+1] = src[x*3+1]
			row[x*4+2] = src[x*3]
			row[x*4+3] = 0xff
		}
	}
	return dst
}

// FromNRGBA packs an NRGBA image into a PixelBuffer, dropping alpha.
func FromNRGBA(img *image.NRGBA) *PixelBuffer {
	bounds := img.Bounds()
	buf := NewPixelBuffer(bounds.Dx(), bounds.Dy())
	for y := 0; y < buf.Height; y++ {
		off := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		row := img.Pix[off : off+buf.Width*4]
		dst := buf.Pix[y*buf.Stride() : (y+1)*buf.Stride()]
		for x := 0; x < buf.Width; x++ {
			dst[x*3] = row[x*4+2]
			dst[x*3+1] = row[x*4+1]
			dst[x*3+2] = row[x*4]
		}
	}
	return buf
}
