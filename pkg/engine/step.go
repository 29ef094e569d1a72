// Package engine drives an Application at a fixed update rate and tracks
// input between updates. Platform backends feed it wall-clock time and
// input events; it decides how many updates to run and when to draw.
package engine

import (
	"errors"
	"time"
)

const (
	// DefaultStep is the update period used when none is configured.
	DefaultStep = time.Second / 45

	// MaxFrame caps the wall-clock time accepted per Advance call.
	MaxFrame = 250 * time.Millisecond
)

// ErrQuit is returned by an Application to end the loop normally.
var ErrQuit = errors.New("engine: quit")

// FixedStep accumulates elapsed time and releases it in whole steps.
type FixedStep struct {
	Step time.Duration
	acc  time.Duration
}

// NewFixedStep returns a FixedStep running hz updates per second.
// A non-positive hz selects DefaultStep.
func NewFixedStep(hz int) *FixedStep {
	if hz <= 0 {
		return &FixedStep{Step: DefaultStep}
	}
	return &FixedStep{Step: time.Second / time.Duration(hz)}
}

// Advance adds elapsed to the accumulator and calls fn once per whole step.
// render is true on the last step of the batch, the one after which less
// than a step remains. A non-nil error from fn stops the batch and is
// returned; the time of the failed step is still consumed.
func (f *FixedStep) Advance(elapsed time.Duration, fn func(dt float64, render bool) error) error {
	if f.Step <= 0 {
		f.Step = DefaultStep
	}
	if elapsed > MaxFrame {
		elapsed = MaxFrame
	}
	if elapsed > 0 {
		f.acc += elapsed
	}
	dt := f.Step.Seconds()
	for f.acc >= f.Step {
		f.acc -= f.Step
		if err := fn(dt, f.acc < f.Step); err != nil {
			return err
		}
	}
	return nil
}

// Pending is the accumulated time not yet released as a step.
func (f *FixedStep) Pending() time.Duration {
	return f.acc
}

// Reset drops any accumulated time.
func (f *FixedStep) Reset() {
	f.acc = 0
}
