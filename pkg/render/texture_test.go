package render

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func cornerTexture() *Texture {
	tex := NewTexture(3, 2)
	for i := range tex.Pixels {
		tex.Pixels[i] = RGB(uint8(i*40), 0, 0)
	}
	return tex
}

func TestSampleCorners(t *testing.T) {
	tex := cornerTexture()

	tests := []struct {
		name string
		u, v float64
		want Color
	}{
		{"top left", 0, 0, tex.Pixels[0]},
		{"top right", 1, 0, tex.Pixels[2]},
		{"bottom left", 0, 1, tex.Pixels[3]},
		{"bottom right", 1, 1, tex.Pixels[5]},
		{"center rounds", 0.5, 0.49, tex.Pixels[1]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tex.Sample(tt.u, tt.v); got != tt.want {
				t.Errorf("Sample(%v, %v) = %v, want %v", tt.u, tt.v, got, tt.want)
			}
		})
	}
}

func TestSampleClamps(t *testing.T) {
	tex := cornerTexture()

	tests := []struct {
		name string
		u, v float64
		want Color
	}{
		{"negative", -3, -0.5, tex.Pixels[0]},
		{"past the end", 7, 1.5, tex.Pixels[5]},
		{"mixed", -1, 2, tex.Pixels[3]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tex.Sample(tt.u, tt.v); got != tt.want {
				t.Errorf("Sample(%v, %v) = %v, want %v", tt.u, tt.v, got, tt.want)
			}
		})
	}

	if got := NewTexture(0, 0).Sample(0.5, 0.5); got != MaskColor {
		t.Errorf("empty texture sample = %v, want MaskColor", got)
	}
}

func TestTextureFromImageMasksTransparency(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{10, 20, 30, 255})
	img.SetNRGBA(1, 0, color.NRGBA{200, 200, 200, 0})

	tex := TextureFromImage(img)
	if got := tex.GetPixel(0, 0); got != RGB(10, 20, 30) {
		t.Errorf("opaque pixel = %v, want (10,20,30)", got)
	}
	if got := tex.GetPixel(1, 0); got != MaskColor {
		t.Errorf("transparent pixel = %v, want MaskColor", got)
	}
}

// twoColumns is a 2x2 image, red on the left and blue on the right.
func twoColumns() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := range 2 {
		img.SetRGBA(0, y, color.RGBA{255, 0, 0, 255})
		img.SetRGBA(1, y, color.RGBA{0, 0, 255, 255})
	}
	return img
}

// twoColumnsTGA is twoColumns as an uncompressed 24 bit top-down TGA.
func twoColumnsTGA() []byte {
	b := []byte{
		0, 0, 2,       // no id, no color map, true color
		0, 0, 0, 0, 0, // color map spec
		0, 0, 0, 0,    // origin
		2, 0, 2, 0,    // 2x2
		24, 0x20,      // bits per pixel, top-left origin
	}
	for range 2 {
		b = append(b, 0, 0, 255, 255, 0, 0) // BGR red, BGR blue
	}
	b = append(b, 0, 0, 0, 0, 0, 0, 0, 0)
	return append(b, "TRUEVISION-XFILE.\x00"...)
}

func TestLoadTexture(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		format string
		encode func(w io.Writer) error
	}{
		{"png", "tex.png", "png", func(w io.Writer) error { return png.Encode(w, twoColumns()) }},
		{"bmp", "tex.bmp", "bmp", func(w io.Writer) error { return bmp.Encode(w, twoColumns()) }},
		{"tga", "tex.tga", "tga", func(w io.Writer) error {
			_, err := w.Write(twoColumnsTGA())
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.encode(&buf); err != nil {
				t.Fatal(err)
			}
			if _, format, err := DecodeImage(bytes.NewReader(buf.Bytes())); err != nil || format != tt.format {
				t.Fatalf("DecodeImage = %q, %v, want %q", format, err, tt.format)
			}

			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				t.Fatal(err)
			}
			tex, err := LoadTexture(path)
			if err != nil {
				t.Fatalf("LoadTexture: %v", err)
			}
			if tex.Width != 2 || tex.Height != 2 {
				t.Fatalf("size = %dx%d, want 2x2", tex.Width, tex.Height)
			}
			for y := range 2 {
				if got := tex.GetPixel(0, y); got != ColorRed {
					t.Errorf("pixel (0,%d) = %v, want red", y, got)
				}
				if got := tex.GetPixel(1, y); got != ColorBlue {
					t.Errorf("pixel (1,%d) = %v, want blue", y, got)
				}
			}
		})
	}

	if _, err := LoadTexture(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadTextureJPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = []uint8{200, 40, 40, 255}[i%4]
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "tex.jpg")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	tex, err := LoadTexture(path)
	if err != nil {
		t.Fatalf("LoadTexture: %v", err)
	}
	got := tex.GetPixel(4, 4)
	near := func(a, b uint8) bool { return a >= b-12 && a <= b+12 }
	if !near(got.R, 200) || !near(got.G, 40) || !near(got.B, 40) {
		t.Errorf("pixel = %v, want about (200,40,40)", got)
	}
}

func TestTextureScaled(t *testing.T) {
	tex := NewCheckerTexture(2, 2, 1, ColorRed, ColorBlue)
	big := tex.Scaled(4, 4)

	if big.Width != 4 || big.Height != 4 {
		t.Fatalf("size = %dx%d, want 4x4", big.Width, big.Height)
	}
	if got := big.GetPixel(1, 1); got != ColorRed {
		t.Errorf("top left block = %v, want red", got)
	}
	if got := big.GetPixel(3, 0); got != ColorBlue {
		t.Errorf("top right block = %v, want blue", got)
	}
}
