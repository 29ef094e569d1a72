// Package config loads viewer settings from a JSON file and CLI flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/softras/pkg/render"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config holds all configurable paths and render settings.
type Config struct {
	// Framebuffer
	Width  int `json:"width"`
	Height int `json:"height"`
	Scale  int `json:"scale"` // window pixels per framebuffer pixel

	// Camera
	FOVDegrees float64 `json:"fov_degrees"`
	Near       float64 `json:"near"`
	Far        float64 `json:"far"`

	// Rasterizer
	TickHz          int    `json:"tick_hz"`
	FillRule        string `json:"fill_rule"`
	DebugMode       string `json:"debug_mode"`
	BackfaceCulling *bool  `json:"backface_culling"`

	// Assets
	Model      string `json:"model"`
	Texture    string `json:"texture"`
	Sprite     string `json:"sprite"`
	Background string `json:"background"` // "R,G,B"

	// Snapshot output
	Frames    int    `json:"frames"`
	OutputDir string `json:"output_dir"`
	Format    string `json:"format"`
	Upscale   int    `json:"upscale"`
}

// Flags holds CLI flag values that override config file settings.
// Zero values mean "not set".
type Flags struct {
	Width, Height, Scale int
	TickHz               int
	FillRule             string
	DebugMode            string
	NoCull               bool
	Model                string
	Texture              string
	Sprite               string
	Frames               int
	OutputDir            string
	Format               string
	Upscale              int
}

// Default returns the built-in settings.
func Default() Config {
	cull := true
	return Config{
		Width:           160,
		Height:          90,
		Scale:           4,
		FOVDegrees:      60,
		Near:            0.1,
		Far:             100,
		TickHz:          45,
		FillRule:        "top-left",
		DebugMode:       "normal",
		BackfaceCulling: &cull,
		Background:      "20,20,20",
		Frames:          90,
		OutputDir:       "frames",
		Format:          "png",
		Upscale:         1,
	}
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values. Relative asset paths
// are resolved against the file's directory.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for _, p := range []*string{&cfg.Model, &cfg.Texture, &cfg.Sprite} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	return cfg, nil
}

// Resolve applies flags over c and fills every unset field from Default.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	setInt := func(dst *int, v int) {
		if v > 0 {
			*dst = v
		}
	}
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setInt(&c.Width, flags.Width)
	setInt(&c.Height, flags.Height)
	setInt(&c.Scale, flags.Scale)
	setInt(&c.TickHz, flags.TickHz)
	setInt(&c.Frames, flags.Frames)
	setInt(&c.Upscale, flags.Upscale)
	setString(&c.FillRule, flags.FillRule)
	setString(&c.DebugMode, flags.DebugMode)
	setString(&c.Model, flags.Model)
	setString(&c.Texture, flags.Texture)
	setString(&c.Sprite, flags.Sprite)
	setString(&c.OutputDir, flags.OutputDir)
	setString(&c.Format, flags.Format)
	if flags.NoCull {
		off := false
		c.BackfaceCulling = &off
	}

	d := Default()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.Scale <= 0 {
		c.Scale = d.Scale
	}
	if c.FOVDegrees <= 0 {
		c.FOVDegrees = d.FOVDegrees
	}
	if c.Near <= 0 {
		c.Near = d.Near
	}
	if c.Far <= 0 {
		c.Far = d.Far
	}
	if c.TickHz <= 0 {
		c.TickHz = d.TickHz
	}
	if c.FillRule == "" {
		c.FillRule = d.FillRule
	}
	if c.DebugMode == "" {
		c.DebugMode = d.DebugMode
	}
	if c.BackfaceCulling == nil {
		c.BackfaceCulling = d.BackfaceCulling
	}
	if c.Background == "" {
		c.Background = d.Background
	}
	if c.Frames <= 0 {
		c.Frames = d.Frames
	}
	if c.OutputDir == "" {
		c.OutputDir = d.OutputDir
	}
	if c.Format == "" {
		c.Format = d.Format
	}
	if c.Upscale <= 0 {
		c.Upscale = d.Upscale
	}
}

// Validate reports every setting that is out of range, joined.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Width <= 0 || c.Height <= 0 || c.Width > 4096 || c.Height > 4096 {
		bad("size %dx%d outside 1..4096", c.Width, c.Height)
	}
	if c.FOVDegrees <= 0 || c.FOVDegrees >= 180 {
		bad("fov_degrees %g outside (0,180)", c.FOVDegrees)
	}
	if c.Near <= 0 || c.Far <= c.Near {
		bad("near %g / far %g: need 0 < near < far", c.Near, c.Far)
	}
	if c.TickHz <= 0 || c.TickHz > 1000 {
		bad("tick_hz %d outside 1..1000", c.TickHz)
	}
	if _, err := render.ParseFillRule(c.FillRule); err != nil {
		bad("fill_rule: %v", err)
	}
	if _, err := render.ParseDebugMode(c.DebugMode); err != nil {
		bad("debug_mode: %v", err)
	}
	if _, err := ParseColor(c.Background); err != nil {
		bad("background: %v", err)
	}
	switch c.Format {
	case "png", "webp":
	default:
		bad("format %q: want png or webp", c.Format)
	}
	if c.Upscale < 1 || c.Upscale > 16 {
		bad("upscale %d outside 1..16", c.Upscale)
	}
	if c.Frames < 1 {
		bad("frames %d: want at least 1", c.Frames)
	}
	return errors.Join(errs...)
}

// Culling reports whether back faces are discarded.
func (c Config) Culling() bool {
	return c.BackfaceCulling == nil || *c.BackfaceCulling
}

// ParseColor parses "R,G,B" with components 0..255.
func ParseColor(s string) (render.Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return render.Color{}, fmt.Errorf("color %q: want R,G,B", s)
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return render.Color{}, fmt.Errorf("color %q: %w", s, err)
		}
		rgb[i] = uint8(v)
	}
	return render.RGB(rgb[0], rgb[1], rgb[2]), nil
}

// Apply copies the rasterizer options onto r. Call Validate first; an
// unparsable value leaves the corresponding option unchanged.
func (c Config) Apply(r *render.Rasterizer) {
	if fr, err := render.ParseFillRule(c.FillRule); err == nil {
		r.FillRule = fr
	}
	if dm, err := render.ParseDebugMode(c.DebugMode); err == nil {
		r.Debug = dm
	}
	r.DisableBackfaceCulling = !c.Culling()
}
