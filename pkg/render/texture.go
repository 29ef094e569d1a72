package render

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Texture is a decoded image sampled by the rasterizer. Row 0 is the top of
// the image. Textures are never mutated while bound, so one texture can be
// shared by any number of draw calls.
type Texture struct {
	Width  int
	Height int
	Pixels []Color // row-major
}

// NewTexture creates a texture filled with transparent black.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// LoadTexture decodes a PNG, JPEG, BMP or TGA file.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, format, err := DecodeImage(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	tex := TextureFromImage(img)
	Logger().Info("texture loaded", "path", path, "format", format, "width", tex.Width, "height", tex.Height)
	return tex, nil
}

var (
	pngSignature  = []byte("\x89PNG\r\n\x1a\n")
	jpegSignature = []byte{0xff, 0xd8}
	bmpSignature  = []byte("BM")
)

// DecodeImage decodes a PNG, JPEG or BMP image by its signature. Anything
// else is decoded as TGA, which has no signature. image.Decode is not used
// because the tga package registers an empty magic string that matches
// every input.
func DecodeImage(r io.Reader) (image.Image, string, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(pngSignature))

	var (
		img    image.Image
		format string
		err    error
	)
	switch {
	case bytes.HasPrefix(head, pngSignature):
		format = "png"
		img, err = png.Decode(br)
	case bytes.HasPrefix(head, jpegSignature):
		format = "jpeg"
		img, err = jpeg.Decode(br)
	case bytes.HasPrefix(head, bmpSignature):
		format = "bmp"
		img, err = bmp.Decode(br)
	default:
		format = "tga"
		img, err = tga.Decode(br)
	}
	if err != nil {
		return nil, format, err
	}
	return img, format, nil
}

// TextureFromImage converts img to a texture. Fully transparent pixels become
// MaskColor so they are skipped by sprites and masked blits.
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)

	tex := NewTexture(b.Dx(), b.Dy())
	for i := range tex.Pixels {
		p := nrgba.Pix[i*4 : i*4+4]
		if p[3] == 0 {
			tex.Pixels[i] = MaskColor
			continue
		}
		tex.Pixels[i] = Color{R: p[0], G: p[1], B: p[2], A: 255}
	}
	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// SetPixel sets a texel. Out of range coordinates are ignored.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns a texel, or MaskColor out of range.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return MaskColor
	}
	return t.Pixels[y*t.Width+x]
}

// Sample returns the nearest texel to (u, v). Coordinates are clamped to
// [0, 1] and mapped with round(u*(w-1)), so the corners hit the corner
// texels exactly.
func (t *Texture) Sample(u, v float64) Color {
	if t.Width == 0 || t.Height == 0 {
		return MaskColor
	}
	// min and max propagate NaN
	if math.IsNaN(u) {
		u = 0
	}
	if math.IsNaN(v) {
		v = 0
	}
	u = max(0, min(1, u))
	v = max(0, min(1, v))

	x := int(math.Round(u * float64(t.Width-1)))
	y := int(math.Round(v * float64(t.Height-1)))
	return t.Pixels[y*t.Width+x]
}

// Scaled returns a nearest-neighbour resample of the texture.
func (t *Texture) Scaled(width, height int) *Texture {
	if width <= 0 || height <= 0 {
		return NewTexture(0, 0)
	}
	src := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))
	for i, c := range t.Pixels {
		copy(src.Pix[i*4:i*4+4], []uint8{c.R, c.G, c.B, c.A})
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	out := NewTexture(width, height)
	for i := range out.Pixels {
		p := dst.Pix[i*4 : i*4+4]
		out.Pixels[i] = Color{R: p[0], G: p[1], B: p[2], A: p[3]}
	}
	return out
}
