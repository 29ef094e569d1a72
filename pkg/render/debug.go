package render

import (
	"fmt"
	"strings"
)

// DebugMode switches how covered pixels are colored.
type DebugMode int

const (
	// DebugNormal shades with the bound texture or the vertex colors.
	DebugNormal DebugMode = iota
	// DebugDepth shows the depth buffer, near is bright.
	DebugDepth
	// DebugClickables paints every triangle in a color that encodes its
	// index within the frame. See PickID.
	DebugClickables
)

var debugModeNames = [...]string{"normal", "depth", "clickables"}

func (m DebugMode) String() string {
	if m < 0 || int(m) >= len(debugModeNames) {
		return fmt.Sprintf("DebugMode(%d)", int(m))
	}
	return debugModeNames[m]
}

// Next cycles to the following mode.
func (m DebugMode) Next() DebugMode {
	return (m + 1) % DebugMode(len(debugModeNames))
}

// ParseDebugMode parses the names printed by String.
func ParseDebugMode(s string) (DebugMode, error) {
	for i, name := range debugModeNames {
		if strings.EqualFold(s, name) {
			return DebugMode(i), nil
		}
	}
	return DebugNormal, fmt.Errorf("unknown debug mode %q", s)
}

// ParseFillRule parses "top-left" or "inclusive".
func ParseFillRule(s string) (FillRule, error) {
	switch strings.ToLower(s) {
	case "top-left", "topleft", "":
		return FillTopLeft, nil
	case "inclusive":
		return FillInclusive, nil
	}
	return FillTopLeft, fmt.Errorf("unknown fill rule %q", s)
}

// PickColor encodes a triangle index as an opaque color. Index 0 maps to
// (0,0,1) so black always means no triangle.
func PickColor(id int) Color {
	n := id + 1
	return Color{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 255}
}

// PickID decodes a color written in DebugClickables mode. ok is false for
// black.
func PickID(c Color) (id int, ok bool) {
	n := int(c.R)<<16 | int(c.G)<<8 | int(c.B)
	if n == 0 {
		return 0, false
	}
	return n - 1, true
}

// depthGray maps clip-space depth to a gray level, white at 0 and black at
// far or beyond.
func depthGray(z float32, far float64) Color {
	if far <= 0 {
		far = 1
	}
	t := max(0, min(1, float64(z)/far))
	g := uint8(255 * (1 - t))
	return Color{R: g, G: g, B: g, A: 255}
}
