package engine

import "testing"

type keyState struct{ pressed, held, released bool }

func state(in *Input, k Key) keyState {
	return keyState{in.Pressed(k), in.Held(k), in.Released(k)}
}

func TestInputTransitions(t *testing.T) {
	in := NewInput()
	steps := []struct {
		name string
		act  func()
		want keyState
	}{
		{"idle", func() {}, keyState{}},
		{"down", func() { in.SetKey("w", true) }, keyState{pressed: true, held: true}},
		{"still down", func() {}, keyState{held: true}},
		{"up", func() { in.SetKey("w", false) }, keyState{released: true}},
		{"still up", func() {}, keyState{}},
	}
	for _, s := range steps {
		s.act()
		if got := state(in, "w"); got != s.want {
			t.Errorf("%s: got %+v, want %+v", s.name, got, s.want)
		}
		in.CachePrevious()
	}
}

func TestInputPulse(t *testing.T) {
	in := NewInput()
	in.Pulse(KeySpace)
	if got, want := state(in, KeySpace), (keyState{pressed: true, held: true}); got != want {
		t.Errorf("pulse step: got %+v, want %+v", got, want)
	}
	in.CachePrevious()
	if got, want := state(in, KeySpace), (keyState{released: true}); got != want {
		t.Errorf("after pulse: got %+v, want %+v", got, want)
	}
	in.CachePrevious()
	if got := state(in, KeySpace); got != (keyState{}) {
		t.Errorf("idle: got %+v", got)
	}
}

func TestInputPulseDoesNotReleaseHeldKey(t *testing.T) {
	in := NewInput()
	in.Pulse("a")
	in.SetKey("a", true) // a real release/press pair arrives later
	in.CachePrevious()
	if !in.Held("a") {
		t.Error("key set down after a pulse should stay held")
	}
}

func TestInputMouse(t *testing.T) {
	in := NewInput()
	in.SetMouse(12, 34)
	if x, y := in.Mouse(); x != 12 || y != 34 {
		t.Errorf("Mouse() = %d,%d, want 12,34", x, y)
	}
}
