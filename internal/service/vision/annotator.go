package vision

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"objdetect/internal/model"
)

const (
	// labelPadding is the vertical space added to the text height for the
	// label background.
	labelPadding = 10
	// baselineOffset is the distance between the box top edge and the label
	// baseline.
	baselineOffset = 5
)

// Style controls how detections are drawn.
type Style struct {
	BoxColor    color.RGBA
	TextColor   color.RGBA
	StrokeWidth int
	Face        font.Face
}

// DefaultStyle draws green boxes two pixels wide with black label text.
func DefaultStyle() Style {
	return Style{
		BoxColor:    color.RGBA{G: 255, A: 255},
		TextColor:   color.RGBA{A: 255},
		StrokeWidth: 2,
		Face:        basicfont.Face7x13,
	}
}

// Annotator burns boxes and labels into a copy of an image. It holds no
// per-request state and is safe for concurrent use.
type Annotator struct {
	style Style
}

// NewAnnotator returns an Annotator using style. Zero fields fall back to
// DefaultStyle values.
func NewAnnotator(style Style) *Annotator {
	def := DefaultStyle()
	if style.StrokeWidth <= 0 {
		style.StrokeWidth = def.StrokeWidth
	}
	if style.Face == nil {
		style.Face = def.Face
	}
	return &Annotator{style: style}
}

// Annotate returns a new buffer with every detection drawn on it, in slice
// order. src is never modified.
func (a *Annotator) Annotate(src *model.PixelBuffer, detections []model.Detection) *model.PixelBuffer {
	dst := src.Clone()
	for _, det := range detections {
		a.drawDetection(dst, det)
	}
	return dst
}

func (a *Annotator) drawDetection(dst *model.PixelBuffer, det model.Detection) {
	box := det.Box.Rect()
	strokeRect(dst, box, a.style.StrokeWidth, a.style.BoxColor)

	label := det.Label()
	textWidth := font.MeasureString(a.style.Face, label).Ceil()
	textHeight := a.style.Face.Metrics().Ascent.Ceil()

	// Keep the label inside the image when the box touches the top edge.
	top := box.Min.Y - textHeight - labelPadding
	shift := 0
	if top < 0 {
		shift = -top
	}

	background := image.Rect(box.Min.X, top+shift, box.Min.X+textWidth, box.Min.Y+shift)
	fillRect(dst, background, a.style.BoxColor)

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(a.style.TextColor),
		Face: a.style.Face,
		Dot:  fixed.P(box.Min.X, box.Min.Y-baselineOffset+shift),
	}
	d.DrawString(label)
}

// strokeRect draws the outline of r with the given width centred on its edges.
func strokeRect(dst *model.PixelBuffer, r image.Rectangle, width int, c color.RGBA) {
	half := width / 2
	outer := image.Rect(r.Min.X-half, r.Min.Y-half, r.Max.X-half+width, r.Max.Y-half+width)
	inner := outer.Inset(width)

	fillRect(dst, image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, inner.Min.Y), c)
	fillRect(dst, image.Rect(outer.Min.X, inner.Max.Y, outer.Max.X, outer.Max.Y), c)
	fillRect(dst, image.Rect(outer.Min.X, inner.Min.Y, inner.Min.X, inner.Max.Y), c)
	fillRect(dst, image.Rect(inner.Max.X, inner.Min.Y, outer.Max.X, inner.Max.Y), c)
}

// fillRect paints r clipped to the buffer bounds.
func fillRect(dst *model.PixelBuffer, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dst.SetBGR(x, y, c.B, c.G, c.R)
		}
	}
}
