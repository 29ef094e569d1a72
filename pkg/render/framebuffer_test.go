package render

import (
	"image"
	"os"
	"path/filepath"
	"testing"
)

func TestFramebufferBlit(t *testing.T) {
	tex := NewCheckerTexture(4, 4, 2, ColorRed, ColorGreen)
	tex.SetPixel(0, 0, MaskColor)

	tests := []struct {
		name   string
		dx, dy int
		masked bool
		check  func(t *testing.T, fb *Framebuffer)
	}{
		{"copy", 1, 1, false, func(t *testing.T, fb *Framebuffer) {
			if got := fb.GetPixel(1, 1); got != MaskColor {
				t.Errorf("unmasked copy = %v, want MaskColor", got)
			}
			if got := fb.GetPixel(4, 4); got != ColorRed {
				t.Errorf("(4,4) = %v, want red", got)
			}
		}},
		{"masked", 1, 1, true, func(t *testing.T, fb *Framebuffer) {
			if got := fb.GetPixel(1, 1); got != ColorBlack {
				t.Errorf("masked texel = %v, want background", got)
			}
			if got := fb.GetPixel(2, 1); got != ColorRed {
				t.Errorf("(2,1) = %v, want red", got)
			}
		}},
		{"negative offset", -2, -2, false, func(t *testing.T, fb *Framebuffer) {
			// texel (2,2) lands on (0,0)
			if got := fb.GetPixel(0, 0); got != ColorRed {
				t.Errorf("(0,0) = %v, want red", got)
			}
			if got := fb.GetPixel(2, 2); got != ColorBlack {
				t.Errorf("(2,2) = %v, want background", got)
			}
		}},
		{"past the edge", 6, 6, false, func(t *testing.T, fb *Framebuffer) {
			if got := fb.GetPixel(7, 7); got != ColorRed {
				t.Errorf("(7,7) = %v, want red", got)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := NewFramebuffer(8, 8)
			fb.Clear(ColorBlack)
			fb.Blit(tex, image.Rect(0, 0, 4, 4), tt.dx, tt.dy, tt.masked)
			tt.check(t, fb)
		})
	}
}

func TestFramebufferDrawRectClipped(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fb.DrawRect(-2, 2, 10, 10, ColorWhite)

	if got := fb.GetPixel(0, 3); got != ColorWhite {
		t.Errorf("(0,3) = %v, want white", got)
	}
	if got := fb.GetPixel(0, 1); got != (Color{}) {
		t.Errorf("(0,1) = %v, want untouched", got)
	}
}

func TestFramebufferScaled(t *testing.T) {
	fb := NewFramebuffer(2, 1)
	fb.SetPixel(0, 0, ColorRed)
	fb.SetPixel(1, 0, ColorBlue)

	img := fb.Scaled(3)
	if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 3 {
		t.Fatalf("bounds = %v, want 6x3", b)
	}
	if got := img.RGBAAt(2, 2); got != ColorRed {
		t.Errorf("(2,2) = %v, want red", got)
	}
	if got := img.RGBAAt(3, 0); got != ColorBlue {
		t.Errorf("(3,0) = %v, want blue", got)
	}
}

func TestSaveImages(t *testing.T) {
	fb := NewFramebuffer(8, 4)
	fb.Clear(ColorCyan)
	dir := t.TempDir()

	tests := []struct {
		name string
		save func(path string) error
	}{
		{"frame.png", fb.SavePNG},
		{"frame.webp", func(path string) error { return SaveWebP(path, fb.ToImage()) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			if err := tt.save(path); err != nil {
				t.Fatalf("save: %v", err)
			}
			info, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			if info.Size() == 0 {
				t.Error("file is empty")
			}
		})
	}
}
