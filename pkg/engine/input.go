package engine

import "sync"

// Key names a key or button. Backends translate their native events to
// these names: lower-case characters ("w", "1", "?") or the named keys below.
type Key string

const (
	KeyEscape     Key = "escape"
	KeySpace      Key = "space"
	KeyTab        Key = "tab"
	KeyEnter      Key = "enter"
	KeyUp         Key = "up"
	KeyDown       Key = "down"
	KeyLeft       Key = "left"
	KeyRight      Key = "right"
	KeyMouseLeft  Key = "mouse-left"
	KeyMouseRight Key = "mouse-right"
)

// Input is the key and mouse state seen by an Application. It is safe for
// a backend's event goroutine to write while the loop goroutine reads.
type Input struct {
	mu     sync.Mutex
	keys   map[Key]bool
	prev   map[Key]bool
	pulses map[Key]bool
	mouseX int
	mouseY int
}

// NewInput returns an Input with nothing held.
func NewInput() *Input {
	return &Input{
		keys:   make(map[Key]bool),
		prev:   make(map[Key]bool),
		pulses: make(map[Key]bool),
	}
}

// SetKey records a key going down or up.
func (in *Input) SetKey(k Key, down bool) {
	in.mu.Lock()
	in.keys[k] = down
	delete(in.pulses, k)
	in.mu.Unlock()
}

// Pulse holds k for exactly one step. Terminals that only report key
// presses use it in place of SetKey.
func (in *Input) Pulse(k Key) {
	in.mu.Lock()
	in.keys[k] = true
	in.pulses[k] = true
	in.mu.Unlock()
}

// Pressed reports whether k went down since the previous step.
func (in *Input) Pressed(k Key) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.keys[k] && !in.prev[k]
}

// Held reports whether k is down.
func (in *Input) Held(k Key) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.keys[k]
}

// Released reports whether k went up since the previous step.
func (in *Input) Released(k Key) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return !in.keys[k] && in.prev[k]
}

// CachePrevious ends a step: the current state becomes the previous one
// and pulsed keys are let go.
func (in *Input) CachePrevious() {
	in.mu.Lock()
	defer in.mu.Unlock()
	clear(in.prev)
	for k, down := range in.keys {
		if down {
			in.prev[k] = true
		}
	}
	for k := range in.pulses {
		in.keys[k] = false
	}
	clear(in.pulses)
}

// SetMouse records the pointer position in framebuffer pixels.
func (in *Input) SetMouse(x, y int) {
	in.mu.Lock()
	in.mouseX, in.mouseY = x, y
	in.mu.Unlock()
}

// Mouse returns the last pointer position.
func (in *Input) Mouse() (x, y int) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.mouseX, in.mouseY
}
