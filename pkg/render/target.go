package render

import (
	"image"
	"image/color"
)

// Target is a rectangular pixel buffer the rasterizer writes into, addressed
// by flat index y*width + x. The rasterizer only calls SetIndex with indices
// it has already clipped to [0, width*height).
type Target interface {
	Size() (width, height int)
	SetIndex(i int, c Color)
}

// ImageTarget adapts an *image.RGBA so offscreen images can be rendered to
// directly.
type ImageTarget struct {
	Img *image.RGBA
}

// NewImageTarget wraps img.
func NewImageTarget(img *image.RGBA) *ImageTarget {
	return &ImageTarget{Img: img}
}

func (t *ImageTarget) Size() (int, int) {
	b := t.Img.Bounds()
	return b.Dx(), b.Dy()
}

func (t *ImageTarget) SetIndex(i int, c Color) {
	b := t.Img.Bounds()
	w := b.Dx()
	t.Img.SetRGBA(b.Min.X+i%w, b.Min.Y+i/w, c)
}

// Color is the pixel format of every buffer and texture.
type Color = color.RGBA

var (
	ColorBlack  = Color{R: 0, G: 0, B: 0, A: 255}
	ColorWhite  = Color{R: 255, G: 255, B: 255, A: 255}
	ColorRed    = Color{R: 255, G: 0, B: 0, A: 255}
	ColorGreen  = Color{R: 0, G: 255, B: 0, A: 255}
	ColorBlue   = Color{R: 0, G: 0, B: 255, A: 255}
	ColorYellow = Color{R: 255, G: 255, B: 0, A: 255}
	ColorCyan   = Color{R: 0, G: 255, B: 255, A: 255}
	ColorGray   = Color{R: 128, G: 128, B: 128, A: 255}
)

// ColorBackdrop is the default clear color.
var ColorBackdrop = Color{R: 20, G: 20, B: 20, A: 255}

// MaskColor marks transparent texels. Sprites and masked blits skip pixels of
// exactly this value.
var MaskColor = Color{R: 255, G: 0, B: 255, A: 255}

// RGB creates an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}
