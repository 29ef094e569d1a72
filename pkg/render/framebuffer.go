// Package render is a CPU software rasterizer. It clips, projects and
// rasterizes triangles, lines and billboard sprites into any Target, using a
// float32 depth buffer and nearest-sample textures.
package render

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// Framebuffer is a CPU-owned color buffer. The terminal presenter shows two
// rows per cell using half blocks, so Height is usually twice the row count.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []Color // row-major
}

// NewFramebuffer creates a framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

func (fb *Framebuffer) Size() (int, int) { return fb.Width, fb.Height }

func (fb *Framebuffer) SetIndex(i int, c Color) { fb.Pixels[i] = c }

// Resize reallocates the pixel storage if the dimensions changed.
func (fb *Framebuffer) Resize(width, height int) {
	if width == fb.Width && height == fb.Height {
		return
	}
	fb.Width, fb.Height = width, height
	fb.Pixels = make([]Color, width*height)
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c Color) {
	n := len(fb.Pixels)
	if n == 0 {
		return
	}
	fb.Pixels[0] = c
	for i := 1; i < n; i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
}

// SetPixel sets (x, y). Out of range coordinates are ignored.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y), or transparent black out of range.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return Color{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawRect fills a rectangle, clipped to the buffer.
func (fb *Framebuffer) DrawRect(x, y, w, h int, c Color) {
	r := image.Rect(x, y, x+w, y+h).Intersect(fb.bounds())
	for py := r.Min.Y; py < r.Max.Y; py++ {
		row := fb.Pixels[py*fb.Width+r.Min.X : py*fb.Width+r.Max.X]
		for i := range row {
			row[i] = c
		}
	}
}

// Blit copies the src region of tex to (dx, dy). With masked set, texels
// equal to MaskColor are skipped. The destination is clipped to the buffer
// before any pixel is read.
func (fb *Framebuffer) Blit(tex *Texture, src image.Rectangle, dx, dy int, masked bool) {
	src = src.Intersect(image.Rect(0, 0, tex.Width, tex.Height))
	dst := src.Add(image.Pt(dx, dy).Sub(src.Min))
	clipped := dst.Intersect(fb.bounds())
	if clipped.Empty() {
		return
	}
	// shift the source by however much the destination lost on the top left
	sx := src.Min.X + clipped.Min.X - dst.Min.X
	sy := src.Min.Y + clipped.Min.Y - dst.Min.Y

	for y := 0; y < clipped.Dy(); y++ {
		srow := tex.Pixels[(sy+y)*tex.Width+sx:]
		drow := fb.Pixels[(clipped.Min.Y+y)*fb.Width+clipped.Min.X:]
		for x := 0; x < clipped.Dx(); x++ {
			if masked && srow[x] == MaskColor {
				continue
			}
			drow[x] = srow[x]
		}
	}
}

func (fb *Framebuffer) bounds() image.Rectangle {
	return image.Rect(0, 0, fb.Width, fb.Height)
}

// ToImage copies the framebuffer into a new image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(fb.bounds())
	for i, c := range fb.Pixels {
		img.Pix[i*4+0] = c.R
		img.Pix[i*4+1] = c.G
		img.Pix[i*4+2] = c.B
		img.Pix[i*4+3] = c.A
	}
	return img
}

// Scaled returns the framebuffer resized by an integer factor with nearest
// neighbour sampling, which keeps pixels crisp.
func (fb *Framebuffer) Scaled(factor int) *image.RGBA {
	src := fb.ToImage()
	if factor <= 1 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, fb.Width*factor, fb.Height*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// SavePNG writes img as a PNG file.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode png %s: %w", path, err)
	}
	return nil
}

// SaveWebP writes img as a lossless WebP file.
func SaveWebP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("encode webp %s: %w", path, err)
	}
	return nil
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	return SavePNG(path, fb.ToImage())
}
