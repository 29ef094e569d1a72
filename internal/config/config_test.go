package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/softras/pkg/render"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "softras.json")
	data := `{"width": 320, "backface_culling": false, "model": "assets/duck.glb", "texture": "/abs/tex.png"}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Width != 320 {
		t.Errorf("Width = %d, want 320", cfg.Width)
	}
	if cfg.Culling() {
		t.Error("Culling() = true, want false from file")
	}
	if want := filepath.Join(dir, "assets", "duck.glb"); cfg.Model != want {
		t.Errorf("Model = %q, want %q", cfg.Model, want)
	}
	if cfg.Texture != "/abs/tex.png" {
		t.Errorf("Texture = %q, want absolute path kept", cfg.Texture)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestResolve(t *testing.T) {
	cfg := Config{Width: 320, FillRule: "inclusive"}
	cfg.Resolve(Flags{Height: 200, DebugMode: "depth", NoCull: true})

	d := Default()
	tests := []struct {
		name string
		got  any
		want any
	}{
		{"file kept", cfg.Width, 320},
		{"flag wins", cfg.Height, 200},
		{"file fill", cfg.FillRule, "inclusive"},
		{"flag debug", cfg.DebugMode, "depth"},
		{"default hz", cfg.TickHz, d.TickHz},
		{"default near", cfg.Near, d.Near},
		{"default format", cfg.Format, d.Format},
		{"no-cull", cfg.Culling(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"far before near", func(c *Config) { c.Far = c.Near / 2 }},
		{"fov", func(c *Config) { c.FOVDegrees = 180 }},
		{"fill rule", func(c *Config) { c.FillRule = "bottom-right" }},
		{"debug mode", func(c *Config) { c.DebugMode = "wireframe" }},
		{"background", func(c *Config) { c.Background = "1,2" }},
		{"format", func(c *Config) { c.Format = "gif" }},
		{"upscale", func(c *Config) { c.Upscale = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    render.Color
		wantErr bool
	}{
		{"30,30,40", render.RGB(30, 30, 40), false},
		{" 255, 0 ,7", render.RGB(255, 0, 7), false},
		{"256,0,0", render.Color{}, true},
		{"red", render.Color{}, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestApply(t *testing.T) {
	cfg := Default()
	cfg.FillRule = "inclusive"
	cfg.DebugMode = "depth"
	off := false
	cfg.BackfaceCulling = &off

	r := render.NewRasterizer(render.NewFramebuffer(2, 2))
	cfg.Apply(r)
	if r.FillRule != render.FillInclusive || r.Debug != render.DebugDepth || !r.DisableBackfaceCulling {
		t.Errorf("Apply: fill=%v debug=%v nocull=%v", r.FillRule, r.Debug, r.DisableBackfaceCulling)
	}
}
